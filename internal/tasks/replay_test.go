package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/formatter"
	"github.com/desertthunder/songcap/internal/services"
	"github.com/desertthunder/songcap/internal/shared"
)

type mockFeed struct {
	clips    map[int]int // page -> clip count; missing pages are empty
	failOn   int
	err      error
	cancel   context.CancelFunc
	cancelOn int
	requests []int
	songs    *mockCollector
}

func (m *mockFeed) Page(ctx context.Context, n int) (*services.FeedResponse, error) {
	m.requests = append(m.requests, n)
	if m.cancel != nil && n == m.cancelOn {
		m.cancel()
		return nil, ctx.Err()
	}
	if m.err != nil && n == m.failOn {
		return nil, m.err
	}
	clips := m.clips[n]
	if m.songs != nil {
		m.songs.n += clips
	}
	return &services.FeedResponse{Page: n, StatusCode: http.StatusOK, Clips: clips}, nil
}

type mockCollector struct{ n int }

func (m *mockCollector) Len() int { return m.n }

func TestReplayEngine(t *testing.T) {
	t.Run("Stops On Empty Page", func(t *testing.T) {
		songs := &mockCollector{n: 3}
		feed := &mockFeed{clips: map[int]int{0: 20, 1: 20, 2: 5}, songs: songs}
		drained := 0
		engine := NewReplayEngine(feed, songs, func() { drained++ }, nil)

		result, err := engine.Run(context.Background(), nil, ReplayOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Reason != StopExhausted {
			t.Errorf("expected exhausted, got %s", result.Reason)
		}
		if result.Pages != 4 || result.Clips != 45 || result.Total != 48 || result.LastPage != 3 {
			t.Errorf("unexpected result: %+v", result)
		}
		if drained != 4 {
			t.Errorf("expected drain after every page, got %d", drained)
		}
	})

	t.Run("Honors Start And MaxPages", func(t *testing.T) {
		songs := &mockCollector{}
		feed := &mockFeed{clips: map[int]int{5: 1, 6: 1, 7: 1, 8: 1}, songs: songs}
		engine := NewReplayEngine(feed, songs, nil, nil)

		result, err := engine.Run(context.Background(), nil, ReplayOpts{Start: 5, MaxPages: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Reason != StopMaxPages || result.Pages != 2 {
			t.Errorf("unexpected result: %+v", result)
		}
		if fmt.Sprint(feed.requests) != "[5 6]" {
			t.Errorf("expected pages 5 and 6, got %v", feed.requests)
		}
	})

	t.Run("Canceled Context Is Not An Error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		songs := &mockCollector{}
		feed := &mockFeed{clips: map[int]int{0: 2, 1: 2, 2: 2}, songs: songs, cancel: cancel, cancelOn: 2}
		engine := NewReplayEngine(feed, songs, nil, nil)

		result, err := engine.Run(ctx, nil, ReplayOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Reason != StopCanceled || result.Pages != 2 || result.Total != 4 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Fetch Error Returns Partial Result", func(t *testing.T) {
		songs := &mockCollector{}
		feed := &mockFeed{clips: map[int]int{0: 2, 1: 2}, songs: songs, failOn: 1, err: shared.ErrAPIRequest}
		engine := NewReplayEngine(feed, songs, nil, nil)

		result, err := engine.Run(context.Background(), nil, ReplayOpts{})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if result == nil || result.Pages != 1 || result.Reason != StopFailed {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Invalid Options", func(t *testing.T) {
		engine := NewReplayEngine(&mockFeed{}, &mockCollector{}, nil, nil)
		if _, err := engine.Run(context.Background(), nil, ReplayOpts{Start: -1}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}

		engine = NewReplayEngine(nil, &mockCollector{}, nil, nil)
		if _, err := engine.Run(context.Background(), nil, ReplayOpts{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Emits Fetch Progress", func(t *testing.T) {
		songs := &mockCollector{}
		feed := &mockFeed{clips: map[int]int{0: 3}, songs: songs}
		progress := make(chan capture.Progress, 10)
		engine := NewReplayEngine(feed, songs, nil, nil)

		if _, err := engine.Run(context.Background(), progress, ReplayOpts{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var updates []capture.Progress
		for u := range progress {
			if u.Phase != capture.PhaseFetch {
				t.Errorf("expected fetch phase, got %s", u.Phase)
			}
			updates = append(updates, u)
		}
		// fetching + fetched for pages 0 and 1, then done
		if len(updates) != 5 {
			t.Fatalf("expected 5 updates, got %d", len(updates))
		}
		if updates[1].Added != 3 || updates[1].Total != 3 {
			t.Errorf("unexpected page update: %+v", updates[1])
		}
		if !strings.Contains(updates[4].Message, "exhausted") {
			t.Errorf("unexpected final message: %q", updates[4].Message)
		}
	})

	t.Run("Feeds A Capture Session", func(t *testing.T) {
		pages := map[string]string{
			"0": `{"clips":[{"id":"abc","title":"Foo","major_model_version":"v3"},{"id":"def","title":"Bar"}]}`,
			"1": `{"clips":[{"id":"def","title":"Bar again"},{"id":"ghi","title":"Baz"}]}`,
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, ok := pages[r.URL.Query().Get("page")]
			if !ok {
				body = `{"clips":[]}`
			}
			io.WriteString(w, body)
		}))
		defer server.Close()

		cfg := shared.DefaultConfig()
		session := capture.NewSession(capture.Options{
			Capture: cfg.Capture,
			Export:  formatter.ExportOpts{OutputDir: t.TempDir(), Prefix: "suno_library", Format: "json"},
			Logger:  shared.NewLogger(io.Discard),
		})

		httpClient := &http.Client{}
		tap := capture.NewClientTap(httpClient, cfg.Capture.FeedEndpoint)
		if err := session.Register(tap); err != nil {
			t.Fatalf("register failed: %v", err)
		}

		feed, err := services.NewFeedClient(&shared.CurlRequest{
			URL:     server.URL + "/api/feed/v2?page=0",
			Headers: map[string]string{"Accept": "application/json"},
		}, httpClient)
		if err != nil {
			t.Fatalf("feed client failed: %v", err)
		}

		engine := NewReplayEngine(feed, session, tap.Wait, shared.NewLogger(io.Discard))
		result, err := engine.Run(context.Background(), nil, ReplayOpts{})
		if err != nil {
			t.Fatalf("replay failed: %v", err)
		}
		if result.Total != 3 || result.Pages != 3 {
			t.Errorf("unexpected result: %+v", result)
		}

		songs := session.Songs()
		if songs[1].Title != "Bar" {
			t.Errorf("expected first discovery to win, got %q", songs[1].Title)
		}
	})
}
