// Package config loads the rescuetui configuration file.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/rescuetui/config.toml
//  3. If the file does not exist, use defaults
//  4. Empty fields keep their defaults
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000"
//	request_timeout = "10s"
//	log_file = "~/.local/state/rescuetui/rescuetui.log"
//	log_level = "info"
//
// All fields are optional. Tilde expansion is applied to paths.
//
// # Error Handling
//
// Load returns errors for unreadable files, invalid TOML, an unparseable or
// non-positive request_timeout and an unknown log_level. A missing file is
// not an error.
//
// Command-line flags are applied by the caller after Load, so they always
// win over file values.
package config
