// Package app is the composition root for rescuetui.
//
// It wires configuration, logging, the in-memory session, the API client and
// the UI together. Two entry points share the same startup path:
//
//   - Run starts the interactive TUI and blocks until the user quits or the
//     context is cancelled.
//   - Snapshot signs in, performs one dashboard load through the same state
//     controllers the TUI uses, and prints the result as plain tables.
//
// # Startup
//
//	config.Load()        TOML config, flag overrides applied on top
//	logging.OpenFile()   slog text handler; the terminal belongs to the UI
//	session.Store{}      memory only, every run starts signed out
//	rescue.NewClient()   bearer token read from the store on each request
//	ui.Run() / print     blocks
//
// # Errors
//
// Only startup errors are returned from Run: a bad config file, an invalid log
// level, an unwritable log directory or an unusable API URL. Failures after
// startup are handled by the screens and written to the log.
package app
