package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/services"
	"github.com/desertthunder/songcap/internal/shared"
)

// FeedFetcher fetches one feed page. [services.FeedClient] implements it.
type FeedFetcher interface {
	Page(ctx context.Context, n int) (*services.FeedResponse, error)
}

// Collector reports how many songs have been captured so far. [capture.Session] implements it.
type Collector interface {
	Len() int
}

// StopReason tells why a replay ended.
type StopReason int

const (
	StopExhausted StopReason = iota // A page came back with no clips
	StopMaxPages
	StopCanceled
	StopFailed
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopMaxPages:
		return "max pages"
	case StopCanceled:
		return "canceled"
	case StopFailed:
		return "failed"
	default:
		return ""
	}
}

// ReplayOpts bounds a replay.
type ReplayOpts struct {
	Start    int // First page number
	MaxPages int // Zero means no limit
}

// ReplayResult summarizes a replay.
type ReplayResult struct {
	Pages    int        // Pages fetched, including the final empty one
	Clips    int        // Clips seen across all pages, duplicates included
	Total    int        // Songs in the collection when the replay ended
	LastPage int        // Number of the last page requested
	Reason   StopReason // Why the replay ended
}

// ReplayEngine pages through the feed so a capture tap on the fetcher's client sees every page.
type ReplayEngine struct {
	feed   FeedFetcher
	songs  Collector
	drain  func()
	logger *log.Logger
}

// NewReplayEngine creates an engine. drain, when set, is called after each page and must block until the tap has
// observed that page's body.
func NewReplayEngine(feed FeedFetcher, songs Collector, drain func(), logger *log.Logger) *ReplayEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if drain == nil {
		drain = func() {}
	}
	return &ReplayEngine{feed: feed, songs: songs, drain: drain, logger: shared.WithLogger(logger, "component", "replay")}
}

// Run fetches pages from opts.Start until the feed runs dry, opts.MaxPages pages were fetched or ctx ends.
//
// A canceled context is not an error: the result describes what was fetched. A failed page returns the result so
// far together with the error.
func (e *ReplayEngine) Run(ctx context.Context, progress chan<- capture.Progress, opts ReplayOpts) (*ReplayResult, error) {
	if e.feed == nil || e.songs == nil {
		return nil, fmt.Errorf("%w: replay needs a feed and a collector", shared.ErrInvalidInput)
	}
	if opts.Start < 0 || opts.MaxPages < 0 {
		return nil, fmt.Errorf("%w: start and max pages must not be negative", shared.ErrInvalidArgument)
	}

	result := &ReplayResult{Total: e.songs.Len(), LastPage: opts.Start, Reason: StopExhausted}

	for n := opts.Start; ; n++ {
		if opts.MaxPages > 0 && result.Pages >= opts.MaxPages {
			result.Reason = StopMaxPages
			break
		}
		if ctx.Err() != nil {
			result.Reason = StopCanceled
			break
		}

		result.LastPage = n
		capture.SendProgress(progress, fetchingPageUpdate(n, result.Total))

		resp, err := e.feed.Page(ctx, n)
		if err != nil {
			if ctx.Err() != nil {
				result.Reason = StopCanceled
				break
			}
			result.Reason = StopFailed
			e.logger.Error("page fetch failed", "page", n, "err", err)
			return result, fmt.Errorf("page %d: %w", n, err)
		}
		e.drain()

		before := result.Total
		result.Pages++
		result.Clips += resp.Clips
		result.Total = e.songs.Len()

		e.logger.Debug("page fetched", "page", n, "clips", resp.Clips, "total", result.Total)
		capture.SendProgress(progress, fetchedPageUpdate(n, resp.Clips, result.Total-before, result.Total))

		if resp.Clips == 0 {
			result.Reason = StopExhausted
			break
		}
	}

	e.logger.Info("replay finished", "pages", result.Pages, "reason", result.Reason, "total", result.Total)
	capture.SendProgress(progress, replayDoneUpdate(result))
	return result, nil
}
