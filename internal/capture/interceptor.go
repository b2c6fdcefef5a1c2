package capture

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// ObserveFunc receives the URL and a duplicate of the body of an intercepted response.
type ObserveFunc func(url string, body []byte)

// Interceptor is an [http.RoundTripper] that lets an observer see feed response bodies.
//
// The wrapped transport's response and error are returned untouched. For requests whose URL contains match,
// the response body is replaced by a reader that tees everything the caller reads into a buffer; once the caller
// reaches EOF, or closes a body it has read from, the buffer goes to the observer on its own goroutine. A body closed
// unread is not observed.
type Interceptor struct {
	next    http.RoundTripper
	match   string
	observe ObserveFunc
	active  atomic.Bool
	wg      sync.WaitGroup
}

// NewInterceptor wraps next. A nil next uses [http.DefaultTransport].
func NewInterceptor(next http.RoundTripper, match string, observe ObserveFunc) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	i := &Interceptor{next: next, match: match, observe: observe}
	i.active.Store(true)
	return i
}

// RoundTrip implements [http.RoundTripper].
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := i.next.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil || resp.StatusCode == http.StatusSwitchingProtocols {
		return resp, err
	}
	if !i.active.Load() || req.URL == nil || !strings.Contains(req.URL.String(), i.match) {
		return resp, err
	}

	target := req.URL.String()
	resp.Body = &teeBody{
		rc: resp.Body,
		onEOF: func(body []byte) {
			i.deliver(target, body)
		},
	}
	return resp, err
}

// Wait blocks until every observation already handed off has returned.
func (i *Interceptor) Wait() {
	i.wg.Wait()
}

// Deactivate stops new observations. Responses already in flight pass through unobserved.
func (i *Interceptor) Deactivate() {
	i.active.Store(false)
}

func (i *Interceptor) deliver(url string, body []byte) {
	if !i.active.Load() || i.observe == nil {
		return
	}
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer func() { _ = recover() }()
		i.observe(url, body)
	}()
}

// teeBody duplicates what the caller reads without reading ahead of it.
type teeBody struct {
	rc    io.ReadCloser
	buf   bytes.Buffer
	once  sync.Once
	onEOF func([]byte)
}

func (b *teeBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if n > 0 {
		b.buf.Write(p[:n])
	}
	if err == io.EOF {
		b.flush()
	}
	return n, err
}

// Close hands over whatever was read if EOF was never reached.
func (b *teeBody) Close() error {
	if b.buf.Len() > 0 {
		b.flush()
	}
	return b.rc.Close()
}

func (b *teeBody) flush() {
	b.once.Do(func() {
		b.onEOF(bytes.Clone(b.buf.Bytes()))
	})
}

// ClientTap attaches an [Interceptor] to an [http.Client] and restores the client's transport on detach.
type ClientTap struct {
	mu          sync.Mutex
	client      *http.Client
	match       string
	original    http.RoundTripper
	interceptor *Interceptor
	attached    bool
}

// NewClientTap creates a tap for client that observes requests whose URL contains match.
func NewClientTap(client *http.Client, match string) *ClientTap {
	return &ClientTap{client: client, match: match}
}

// Attach implements [Tap].
func (t *ClientTap) Attach(observe ObserveFunc) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.attached {
		return fmt.Errorf("client tap already attached")
	}

	t.original = t.client.Transport
	t.interceptor = NewInterceptor(t.original, t.match, observe)
	t.client.Transport = t.interceptor
	t.attached = true
	return nil
}

// Detach implements [Tap]. The client's transport is set back to exactly what it was before Attach.
func (t *ClientTap) Detach() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.attached {
		return nil
	}

	t.interceptor.Deactivate()
	t.client.Transport = t.original
	t.attached = false
	return nil
}

// Wait drains observations handed off by the most recently attached interceptor, even after Detach.
func (t *ClientTap) Wait() {
	t.mu.Lock()
	i := t.interceptor
	t.mu.Unlock()

	if i != nil {
		i.Wait()
	}
}
