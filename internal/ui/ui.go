package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/formatter"
)

const maxRecent = 100

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CaptureView ViewState = iota
	ExportView
	ResultView
)

// Exporter is the part of a capture session the TUI drives. [capture.Session] implements it.
type Exporter interface {
	Len() int
	Export() (*formatter.ExportResult, error)
}

// Model represents the TUI application state.
type Model struct {
	view      ViewState
	session   Exporter
	progress  <-chan capture.Progress
	latest    capture.Progress
	total     int
	recent    list.Model
	spinner   spinner.Model
	result    *formatter.ExportResult
	err       error
	abandoned bool
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a capture monitor for session, reading updates from progress.
func NewModel(session Exporter, progress <-chan capture.Progress) *Model {
	recent := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	recent.Title = "Recently captured"
	recent.SetShowHelp(false)
	recent.SetFilteringEnabled(false)

	return &Model{
		view:     CaptureView,
		session:  session,
		progress: progress,
		total:    session.Len(),
		recent:   recent,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Result returns the export outcome, nil until the operator downloaded.
func (m *Model) Result() (*formatter.ExportResult, error) { return m.result, m.err }

// Abandoned reports whether the operator quit without downloading.
func (m *Model) Abandoned() bool { return m.abandoned }

// Init starts the spinner and begins listening for progress.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recent.SetSize(msg.Width-4, max(msg.Height-12, 4))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			return m, m.applyProgress(msg.data.(capture.Progress))
		case MsgProgressClosed:
			m.progress = nil
			return m, nil
		case MsgExportComplete:
			done := msg.data.(exportResult)
			m.result, m.err = done.result, done.err
			m.view = ResultView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.recent, cmd = m.recent.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CaptureView:
		return m.renderCapture()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case CaptureView:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.abandoned = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.download):
			m.view = ExportView
			return m, m.export()
		}
		var cmd tea.Cmd
		m.recent, cmd = m.recent.Update(msg)
		return m, cmd
	case ResultView:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) applyProgress(update capture.Progress) tea.Cmd {
	m.latest = update
	if update.Total > m.total {
		m.total = update.Total
	}

	cmds := []tea.Cmd{m.waitForProgress()}
	if update.Latest != nil {
		cmds = append(cmds, m.recent.InsertItem(0, songItem{song: *update.Latest}))
		if n := len(m.recent.Items()); n > maxRecent {
			m.recent.RemoveItem(n - 1)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) export() tea.Cmd {
	return func() tea.Msg {
		result, err := m.session.Export()
		return exportCompleteMsg(result, err)
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progress
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return progressClosedMsg()
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderCapture() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("songcap: capturing library"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), styles.count.Render(fmt.Sprintf("%d songs", m.total))))
	if m.latest.Message != "" {
		b.WriteString(styles.help.Render(m.latest.Message))
		b.WriteString("\n")
	}
	b.WriteString(styles.warn.Render("Scroll the library page to load more songs."))
	b.WriteString("\n\n")

	if len(m.recent.Items()) > 0 {
		b.WriteString(m.recent.View())
		b.WriteString("\n\n")
	}

	helpKeys := []key.Binding{m.keys.download, m.keys.up, m.keys.down, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Downloading")
	return fmt.Sprintf("%s\n%s Writing %d songs...", title, m.spinner.View(), m.total)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Download failed: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ Download Complete!")
	info := fmt.Sprintf("\nSongs: %d\nFile: %s (%s, %d bytes)", m.result.Count, m.result.Path, m.result.Format, m.result.Bytes)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
