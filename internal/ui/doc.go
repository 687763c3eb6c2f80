// Package ui provides the rescuetui terminal interface, built on Bubble Tea.
//
// # Architecture Overview
//
// Model is the navigation shell. It owns the session store and the active
// view, and holds at most one live screen:
//
//   - login.go: sign-in form, shown whenever the session has no token
//   - dashboard.go: stats, filtered pet list, applications, tasks, adoptions
//   - portal.go: the signed-in user's applications, foster pets and tasks
//   - vet.go: pet list with medical records for the selected pet
//   - settings.go: organization settings form
//
// Each screen wraps a controller from internal/state and adds only
// presentation state (cursor, focused input).
//
// # Data Flow
//
//	key press ──▶ Update ──▶ controller.Begin ──▶ tea.Cmd (fetch on goroutine)
//	                                                   │
//	view  ◀── View ◀── controller.Apply ◀── result msg ┘
//
// Controllers are only touched inside Update. Commands capture their inputs
// when they are built and report back through messages; a result whose
// generation is no longer current is dropped and logged at debug level.
//
// # Navigation
//
// Switching views closes the outgoing screen, cancelling its in-flight
// requests, and mounts a brand new one. Nothing is cached between visits.
// Logging out clears the session and returns to the login form.
//
// # Keyboard Shortcuts
//
//	1-4 / tab / shift+tab   switch view
//	/                       search pets (dashboard, vet)
//	f                       cycle status filter (dashboard)
//	j/k g/G                 move
//	enter                   select pet (vet) or edit field (settings)
//	s / ctrl+s              save settings
//	r                       retry a failed load
//	T                       cycle theme
//	L                       log out
//	h/?                     help
//	q / ctrl+c              quit
//
// # Themes
//
// Nightfox, Kanagawa and Slate palettes; the choice is saved to prefs.
package ui
