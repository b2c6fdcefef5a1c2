package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/services"
	"github.com/desertthunder/songcap/internal/shared"
	"github.com/desertthunder/songcap/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Replay pages through the feed with a request copied from DevTools and downloads everything it captured.
//
// A saved library page given with --html is scanned first, so its rows come before feed records.
func (r *Runner) Replay(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var req *shared.CurlRequest
	var err error
	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
	} else {
		req, err = shared.ParseCurlCommand(curlCmd)
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}
	r.logger.Debug("parsed cURL command", "url", req.URL, "headers", len(req.Headers))

	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := r.exportOpts(cfg, cmd)
	if err != nil {
		return err
	}

	session := r.newSession(cfg, opts, nil)

	if page := cmd.String("html"); page != "" {
		if err := r.scanFile(session, page); err != nil {
			return err
		}
	}

	// The tap swaps the client's transport, so work on a copy of the shared client.
	client := &http.Client{Transport: r.httpClient.Transport, Timeout: r.httpClient.Timeout}
	tap := capture.NewClientTap(client, cfg.Capture.FeedEndpoint)
	if err := session.Register(tap); err != nil {
		return err
	}

	feed, err := services.NewFeedClient(req, client)
	if err != nil {
		session.Stop()
		return err
	}

	engine := tasks.NewReplayEngine(feed, session, tap.Wait, r.logger)
	replayed, runErr := engine.Run(ctx, nil, tasks.ReplayOpts{
		Start:    int(cmd.Int("start")),
		MaxPages: int(cmd.Int("max-pages")),
	})
	if replayed == nil {
		session.Stop()
		return runErr
	}
	if runErr != nil {
		r.logger.Warn("replay stopped early, downloading what was captured", "error", runErr)
	}

	tap.Wait()
	result, err := session.Export()
	if err != nil {
		return err
	}
	r.writeResult(result)
	r.writePlain("Pages: %d (%s)\n", replayed.Pages, replayed.Reason)
	return runErr
}

func (r *Runner) scanFile(session *capture.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	if _, err := session.ScanVisibleRows(f); err != nil {
		return fmt.Errorf("failed to scan page: %w", err)
	}
	return nil
}
