// Package ui provides the terminal user interface for shelf.
//
// # Architecture Overview
//
// The interface is a single Bubble Tea model. All state lives in Model and
// changes only inside Update; network work runs as tea.Cmds against
// state.Store and comes back as messages, after which the model re-reads
// the store snapshot. The grid shows a projection of that snapshot:
//
//	visible = catalog.Sort(catalog.Filter(objects, searchTerm), sortBy, sortOrder)
//
// recomputed whenever the snapshot, the search term or the sort changes.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages, commands and Run
//   - grid.go: card grid, columns and the loading/error/empty panels
//   - header.go: header with counts, spinner and toast; banner; footer
//   - detail.go: detail pane on wide terminals and the v overlay
//   - form_modal.go: create/edit form with typed attribute rows
//   - modal.go: Modal interface, delete confirmation and sort menu
//   - activity.go: the L view over shelf's own log file
//   - keys.go, help.go: key bindings and the help overlay
//   - theme.go, bar.go, strings.go: colors, full-width bars and text helpers
//
// # Behaviour Notes
//
//   - Search input is applied after a quiet period; each keystroke takes a
//     debounce.Gate token and only the latest delayed message applies.
//   - Refresh is ignored while a fetch is running; a second submit or
//     delete is ignored while one is in flight.
//   - A failed save keeps the form open with its contents.
//   - Toasts arrive on a channel (notify.Queue) and occupy a single slot;
//     each carries its own expiry.
//
// # Usage Example
//
//	queue := notify.NewQueue(16)
//	store := state.New(client, state.WithNotifier(queue))
//	err := ui.Run(ui.Options{
//		Context:       ctx,
//		Store:         store,
//		Notifications: queue.C(),
//		ThemeName:     "Nightfox",
//	})
package ui
