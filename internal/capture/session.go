package capture

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songcap/internal/formatter"
	"github.com/desertthunder/songcap/internal/models"
	"github.com/desertthunder/songcap/internal/shared"
)

// State is the lifecycle state of a [Session].
type State int

const (
	Capturing State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Capturing:
		return "capturing"
	case Stopped:
		return "stopped"
	default:
		return ""
	}
}

// Options configures a [Session].
type Options struct {
	Capture  shared.CaptureConfig
	Export   formatter.ExportOpts
	Logger   *log.Logger
	Progress chan<- Progress // Optional; sends never block
}

// Session owns the songs captured from one library page and the taps feeding it.
type Session struct {
	id       string
	capture  shared.CaptureConfig
	export   formatter.ExportOpts
	base     *url.URL
	songs    *Collection
	logger   *log.Logger
	progress chan<- Progress

	mu    sync.Mutex
	state State
	taps  []Tap
}

// NewSession creates a session in the [Capturing] state with an empty collection.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	id := shared.GenerateID()
	base, _ := url.Parse(opts.Capture.LibraryURL)

	return &Session{
		id:       id,
		capture:  opts.Capture,
		export:   opts.Export,
		base:     base,
		songs:    NewCollection(),
		logger:   shared.WithLogger(opts.Logger, "session", id[:8]),
		progress: opts.Progress,
		state:    Capturing,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Len returns the number of captured songs.
func (s *Session) Len() int { return s.songs.Len() }

// Songs returns a copy of the captured songs in discovery order.
func (s *Session) Songs() []models.Song { return s.songs.Snapshot() }

// ScanVisibleRows captures the songs rendered in the page read from r and returns how many were new.
//
// It must run before any tap is registered so page records precede network records.
func (s *Session) ScanVisibleRows(r io.Reader) (int, error) {
	s.mu.Lock()
	state, tapped := s.state, len(s.taps) > 0
	s.mu.Unlock()

	if state == Stopped {
		return 0, shared.ErrSessionStopped
	}
	if tapped {
		return 0, fmt.Errorf("%w: rows must be scanned before interception starts", shared.ErrInvalidInput)
	}

	rows, err := ScanRows(r, ScanOpts{
		RowTestID:      s.capture.RowTestID,
		SongPathMarker: s.capture.SongPathMarker,
	})
	if err != nil {
		return 0, err
	}

	added := 0
	var latest *models.Song
	for _, row := range rows {
		id := IdentifierFromHref(row.Href, s.capture.SongPathMarker)
		if id == "" || s.songs.Seen(id) {
			continue
		}

		song := models.Song{
			ID:      id,
			Title:   CleanTitle(row.LinkText),
			URL:     s.resolve(row.Href),
			Version: ExtractVersion(row.Text),
		}
		if s.songs.Add(song) {
			added++
			latest = &song
		}
	}

	total := s.songs.Len()
	s.logger.Info("page scanned", "rows", len(rows), "added", added, "total", total)
	SendProgress(s.progress, Progress{
		Phase:   PhaseScan,
		Added:   added,
		Total:   total,
		Message: fmt.Sprintf("Page 1: %d songs captured", total),
		Latest:  latest,
	})

	return added, nil
}

// Register attaches tap so its observations flow into [Session.Observe].
func (s *Session) Register(tap Tap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Stopped {
		return shared.ErrSessionStopped
	}

	if err := tap.Attach(func(url string, body []byte) { s.Observe(url, body) }); err != nil {
		return fmt.Errorf("failed to attach tap: %w", err)
	}

	s.taps = append(s.taps, tap)
	s.logger.Debug("tap registered", "taps", len(s.taps))
	return nil
}

// Observe extracts songs from a feed response body and returns how many were new.
//
// It never fails: responses that do not match the feed endpoint, bodies that are not feed pages and panics while
// decoding all count as zero new songs.
func (s *Session) Observe(rawURL string, body []byte) (added int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("feed observation recovered", "url", rawURL, "panic", r)
			added = 0
		}
	}()

	if s.State() == Stopped || !strings.Contains(rawURL, s.capture.FeedEndpoint) {
		return 0
	}

	page, err := DecodeFeed(body)
	if err != nil {
		s.logger.Debug("ignoring feed response", "url", rawURL, "err", err)
		return 0
	}
	for _, err := range page.Skipped {
		s.logger.Debug("skipping feed clip", "url", rawURL, "err", err)
	}
	if len(page.Clips) == 0 {
		return 0
	}

	var latest *models.Song
	for _, clip := range page.Clips {
		if clip.ID == "" {
			continue
		}
		song := clip.Song(s.capture.SongBaseURL)
		if s.songs.Add(song) {
			added++
			latest = &song
		}
	}

	total := s.songs.Len()
	s.logger.Info("page captured", "added", added, "total", total)
	SendProgress(s.progress, Progress{
		Phase:   PhaseFeed,
		Added:   added,
		Total:   total,
		Message: fmt.Sprintf("Page captured: +%d new songs (total: %d)", added, total),
		Latest:  latest,
	})

	return added
}

// Stop detaches every tap and moves the session to [Stopped]. Stopping twice is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Stopped {
		return nil
	}
	s.state = Stopped

	var errs []error
	for _, tap := range s.taps {
		if err := tap.Detach(); err != nil {
			errs = append(errs, err)
		}
	}
	s.taps = nil

	s.logger.Info("capture stopped")
	return errors.Join(errs...)
}

// Export writes every captured song to the configured artifact, logs a preview and stops the session.
//
// The collection is not modified; exporting a stopped session writes the same artifact again.
func (s *Session) Export() (*formatter.ExportResult, error) {
	songs := s.songs.Snapshot()

	s.logger.Infof("downloading %d songs", len(songs))
	result, err := formatter.WriteExport(songs, s.export)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	if preview, err := shared.MarshalJSON(songs[:min(2, len(songs))], true); err == nil {
		s.logger.Info("export written", "path", result.Path, "count", result.Count)
		s.logger.Infof("sample (first 2 songs):\n%s", preview)
	}

	SendProgress(s.progress, Progress{
		Phase:   PhaseExport,
		Total:   result.Count,
		Message: fmt.Sprintf("Downloaded %d songs to %s", result.Count, result.Path),
	})

	if err := s.Stop(); err != nil {
		s.logger.Warn("teardown incomplete", "err", err)
	}

	return result, nil
}

// resolve makes href absolute against the library URL, as a browser reports link targets.
func (s *Session) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil || s.base == nil || ref.IsAbs() {
		return href
	}
	return s.base.ResolveReference(ref).String()
}
