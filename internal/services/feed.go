package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/shared"
)

const pageParam = "page"

// FeedClient fetches feed pages with the headers of a request copied from the browser.
type FeedClient struct {
	request    *shared.CurlRequest
	base       *url.URL
	httpClient *http.Client
}

// FeedResponse is one fetched feed page.
type FeedResponse struct {
	Page       int
	URL        string
	StatusCode int
	Clips      int
	Body       []byte
}

// NewFeedClient creates a client replaying req. A nil client uses [http.DefaultClient].
func NewFeedClient(req *shared.CurlRequest, client *http.Client) (*FeedClient, error) {
	if req == nil || req.URL == "" {
		return nil, shared.ErrNoCurlURL
	}

	base, err := url.Parse(req.URL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", shared.ErrNoCurlURL, req.URL)
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &FeedClient{request: req, base: base, httpClient: client}, nil
}

// PageURL returns the copied request URL with its page parameter set to n.
func (f *FeedClient) PageURL(n int) string {
	u := *f.base
	q := u.Query()
	q.Set(pageParam, strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}

// Page fetches feed page n and reads its body to the end.
func (f *FeedClient) Page(ctx context.Context, n int) (*FeedResponse, error) {
	pageURL := f.PageURL(n)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	f.request.Apply(req)
	// Let the transport negotiate compression so bodies arrive decoded.
	req.Header.Del("Accept-Encoding")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: page %d returned status %d", shared.ErrAPIRequest, n, resp.StatusCode)
	}

	feed, err := capture.DecodeFeed(body)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d is not a feed page: %v", shared.ErrAPIRequest, n, err)
	}

	return &FeedResponse{
		Page:       n,
		URL:        pageURL,
		StatusCode: resp.StatusCode,
		Clips:      len(feed.Clips),
		Body:       body,
	}, nil
}
