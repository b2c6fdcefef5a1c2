package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/formatter"
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
	MsgProgressUpdate MsgKind = iota
	MsgProgressClosed
	MsgExportComplete
)

type exportResult struct {
	result *formatter.ExportResult
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update capture.Progress) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// progressClosedMsg is the constructor for [MsgProgressClosed]
func progressClosedMsg() Msg {
	return Msg{kind: MsgProgressClosed}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *formatter.ExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportResult{result, err}}
}
