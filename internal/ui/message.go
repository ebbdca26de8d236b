package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tlx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSitesFetched MsgKind = iota
	MsgProgressUpdate
	MsgExportComplete
)

type sitesFetched struct {
	items []siteItem
	err   error
}

type exportComplete struct {
	manifest *tasks.Manifest
	err      error
}

// sitesFetchedMsg is the constructor for [MsgSitesFetched]
func sitesFetchedMsg(items []siteItem, err error) Msg {
	return Msg{kind: MsgSitesFetched, data: sitesFetched{items: items, err: err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(manifest *tasks.Manifest, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportComplete{manifest: manifest, err: err}}
}
