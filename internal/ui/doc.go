// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view export workflow:
//  1. [SiteListView] : Browse sites with translation counts and mark the ones to export
//  2. [ConfirmView] : Confirm the export
//  3. [ExportView] : Monitor real-time progress updates
//  4. [ResultView] : Display the stored archive URL, file count and size
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the ExportEngine, providing non-blocking status reporting during exports.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
