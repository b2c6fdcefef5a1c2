package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/shared"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Tap observes feed responses loaded by a page through DevTools network events.
//
// A response is delivered once Chrome reports it finished loading; the page itself is never altered.
type Tap struct {
	page    *rod.Page
	match   string
	logger  *log.Logger
	pending *pending
	fetch   func(proto.NetworkRequestID) ([]byte, error)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ capture.Tap = (*Tap)(nil)

// NewTap creates a detached tap on page for responses whose URL contains match.
func NewTap(page *rod.Page, match string, logger *log.Logger) *Tap {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	t := &Tap{page: page, match: match, logger: logger, pending: newPending()}
	t.fetch = t.responseBody
	return t
}

// Attach enables the network domain and starts listening for matching responses.
func (t *Tap) Attach(observe capture.ObserveFunc) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.page == nil {
		return fmt.Errorf("%w: page is not open", shared.ErrBrowser)
	}
	if t.cancel != nil {
		return fmt.Errorf("%w: tap already attached", shared.ErrBrowser)
	}

	if err := (proto.NetworkEnable{}).Call(t.page); err != nil {
		return fmt.Errorf("%w: enable network events: %v", shared.ErrBrowser, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	page := t.page.Context(ctx)

	jobs := make(chan delivery, deliveryQueue)
	wait := page.EachEvent(
		func(ev *proto.NetworkResponseReceived) {
			if ev.Response != nil && matches(ev.Response.URL, t.match) {
				t.pending.track(ev.RequestID, ev.Response.URL)
			}
		},
		func(ev *proto.NetworkLoadingFinished) {
			if url, ok := t.pending.take(ev.RequestID); ok {
				t.wg.Add(1)
				jobs <- delivery{id: ev.RequestID, url: url}
			}
		},
		func(ev *proto.NetworkLoadingFailed) {
			t.pending.take(ev.RequestID)
		},
	)
	go func() {
		wait()
		close(jobs)
	}()
	go t.work(jobs, observe)

	t.cancel = cancel
	t.logger.Debug("network tap attached", "match", t.match)
	return nil
}

// Detach stops listening. Responses that finished loading before Detach are still delivered.
func (t *Tap) Detach() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil {
		return nil
	}
	t.cancel()
	t.cancel = nil
	t.logger.Debug("network tap detached")
	return nil
}

// Wait blocks until every started delivery has returned.
func (t *Tap) Wait() {
	t.wg.Wait()
}

// work delivers finished responses one at a time in the order Chrome reported them.
func (t *Tap) work(jobs <-chan delivery, observe capture.ObserveFunc) {
	for d := range jobs {
		t.deliver(d, observe)
	}
}

func (t *Tap) deliver(d delivery, observe capture.ObserveFunc) {
	defer t.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			t.logger.Debug("feed observer panicked", "url", d.url, "panic", r)
		}
	}()

	body, err := t.fetch(d.id)
	if err != nil {
		t.logger.Debug("response body unavailable", "url", d.url, "err", err)
		return
	}
	observe(d.url, body)
}

func (t *Tap) responseBody(id proto.NetworkRequestID) ([]byte, error) {
	res, err := proto.NetworkGetResponseBody{RequestID: id}.Call(t.page)
	if err != nil {
		return nil, err
	}
	return decodeBody(res.Body, res.Base64Encoded)
}

func matches(url, match string) bool {
	return match != "" && strings.Contains(url, match)
}

func decodeBody(body string, encoded bool) ([]byte, error) {
	if !encoded {
		return []byte(body), nil
	}
	return base64.StdEncoding.DecodeString(body)
}

const deliveryQueue = 64

type delivery struct {
	id  proto.NetworkRequestID
	url string
}

// pending remembers matching requests between their response headers and the end of their body.
type pending struct {
	mu   sync.Mutex
	urls map[proto.NetworkRequestID]string
}

func newPending() *pending {
	return &pending{urls: make(map[proto.NetworkRequestID]string)}
}

func (p *pending) track(id proto.NetworkRequestID, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls[id] = url
}

func (p *pending) take(id proto.NetworkRequestID) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	url, ok := p.urls[id]
	delete(p.urls, id)
	return url, ok
}
