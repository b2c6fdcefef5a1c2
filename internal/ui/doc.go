// Package ui implements the interactive capture monitor using bubbletea's Elm architecture.
//
// The TUI follows one capture session through three views:
//  1. [CaptureView] : running song count, latest page message and the most recent songs
//  2. [ExportView] : spinner while the artifact is written
//  3. [ResultView] : artifact path and count, or the export error
//
// Progress flows through a channel fed by the session and its hosts. The model only reads it; sends on the
// other side never block.
//
// Keys: d downloads (export + teardown), q abandons the capture or leaves the result view.
package ui
