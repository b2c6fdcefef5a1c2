package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/songcap/internal/browser"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/shared"
	"github.com/urfave/cli/v3"
)

// Capture opens the library page in Chrome, scans the rows already rendered and then records every feed page the
// browser loads until the operator downloads or abandons.
func (r *Runner) Capture(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := r.exportOpts(cfg, cmd)
	if err != nil {
		return err
	}

	interactive := !cmd.Bool("no-tui")
	if interactive {
		// Redirect logs to file to avoid interfering with TUI rendering
		fileLogger, f, err := shared.NewFileLogger(cmd.String("log-file"))
		if err != nil {
			return err
		}
		defer f.Close()
		shared.SetLogLevel(fileLogger, r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}

	driver := browser.NewDriver(browser.OptionsFromConfig(cfg), r.logger)
	if err := driver.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := driver.Close(); err != nil {
			r.logger.Warn("failed to close browser", "error", err)
		}
	}()

	var progress chan capture.Progress
	if interactive {
		progress = make(chan capture.Progress, 64)
	}
	session := r.newSession(cfg, opts, progress)

	html, err := driver.HTML()
	if err != nil {
		return err
	}
	if _, err := session.ScanVisibleRows(strings.NewReader(html)); err != nil {
		return fmt.Errorf("failed to scan page: %w", err)
	}

	if err := session.Register(driver.Tap()); err != nil {
		return err
	}

	if interactive {
		return r.captureTUI(ctx, session, progress)
	}
	return r.captureUntilEnter(ctx, session)
}

func (r *Runner) captureUntilEnter(ctx context.Context, session *capture.Session) error {
	r.writePlain("Scroll through your library in the browser. Press Enter to download.\n")

	if !r.waitForEnter(ctx) {
		session.Stop()
		r.writePlainln("Capture abandoned with %d songs, nothing downloaded", session.Len())
		return nil
	}

	result, err := session.Export()
	if err != nil {
		return err
	}
	r.writeResult(result)
	return nil
}

// waitForEnter reports whether a line (or end of input) arrived before ctx ended.
func (r *Runner) waitForEnter(ctx context.Context) bool {
	line := make(chan struct{})
	go func() {
		bufio.NewReader(r.input).ReadString('\n')
		close(line)
	}()

	select {
	case <-line:
		return true
	case <-ctx.Done():
		return false
	}
}
