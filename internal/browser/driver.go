package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songcap/internal/shared"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultRowWait = 15 * time.Second

// Options configures how the [Driver] reaches Chrome and what it opens.
type Options struct {
	DebuggerURL  string // Existing DevTools endpoint; when empty Chrome is launched
	Bin          string
	Headless     bool
	UserMode     bool // Launch with the user's own profile so an existing login is reused
	LibraryURL   string
	RowTestID    string
	FeedEndpoint string
	RowWait      time.Duration
}

// OptionsFromConfig builds [Options] from the browser and capture sections of cfg.
func OptionsFromConfig(cfg *shared.Config) Options {
	return Options{
		DebuggerURL:  cfg.Browser.DebuggerURL,
		Bin:          cfg.Browser.Bin,
		Headless:     cfg.Browser.Headless,
		UserMode:     cfg.Browser.UserMode,
		LibraryURL:   cfg.Capture.LibraryURL,
		RowTestID:    cfg.Capture.RowTestID,
		FeedEndpoint: cfg.Capture.FeedEndpoint,
		RowWait:      defaultRowWait,
	}
}

// Driver owns the Chrome connection and the library page.
type Driver struct {
	opts     Options
	logger   *log.Logger
	browser  *rod.Browser
	page     *rod.Page
	launched *launcher.Launcher
}

// NewDriver creates a driver; nothing is started until [Driver.Open].
func NewDriver(opts Options, logger *log.Logger) *Driver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.RowWait <= 0 {
		opts.RowWait = defaultRowWait
	}
	return &Driver{opts: opts, logger: shared.WithLogger(logger, "component", "browser")}
}

// Open connects to (or launches) Chrome, opens the library page and waits for the first song rows to render.
func (d *Driver) Open(ctx context.Context) error {
	if d.page != nil {
		return nil
	}

	controlURL := d.opts.DebuggerURL
	if controlURL == "" {
		l := d.launcher()
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("%w: launch chrome: %v", shared.ErrBrowser, err)
		}
		d.launched = l
		controlURL = u
		d.logger.Debug("chrome launched", "user_mode", d.opts.UserMode, "headless", d.opts.Headless)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("%w: connect to chrome: %v", shared.ErrBrowser, err)
	}
	d.browser = b

	page, err := b.Page(proto.TargetCreateTarget{URL: d.opts.LibraryURL})
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", shared.ErrBrowser, d.opts.LibraryURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: wait for %s: %v", shared.ErrBrowser, d.opts.LibraryURL, err)
	}
	d.page = page

	if d.opts.RowTestID != "" {
		selector := fmt.Sprintf("[data-testid=%q]", d.opts.RowTestID)
		if _, err := page.Timeout(d.opts.RowWait).Element(selector); err != nil {
			d.logger.Warn("no song rows rendered yet", "selector", selector, "err", err)
		}
	}

	d.logger.Info("library page open", "url", d.opts.LibraryURL)
	return nil
}

// HTML returns the currently rendered document of the library page.
func (d *Driver) HTML() (string, error) {
	if d.page == nil {
		return "", fmt.Errorf("%w: page is not open", shared.ErrBrowser)
	}

	html, err := d.page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: read page html: %v", shared.ErrBrowser, err)
	}
	return html, nil
}

// Tap returns a network tap on the library page matching the configured feed endpoint.
func (d *Driver) Tap() *Tap {
	return NewTap(d.page, d.opts.FeedEndpoint, d.logger)
}

// Close shuts Chrome down when the driver launched it outside user mode. A browser the driver only connected to,
// or the user's own profile, is left running.
func (d *Driver) Close() error {
	if d.browser == nil {
		return nil
	}
	defer func() {
		d.browser, d.page = nil, nil
	}()

	if d.launched == nil || d.opts.UserMode {
		return nil
	}

	err := d.browser.Close()
	d.launched.Cleanup()
	if err != nil {
		return fmt.Errorf("%w: close chrome: %v", shared.ErrBrowser, err)
	}
	return nil
}

func (d *Driver) launcher() *launcher.Launcher {
	var l *launcher.Launcher
	if d.opts.UserMode {
		l = launcher.NewUserMode()
	} else {
		l = launcher.New()
	}
	if d.opts.Bin != "" {
		l = l.Bin(d.opts.Bin)
	}
	return l.Headless(d.opts.Headless)
}
