package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songcap/internal/shared"
	"github.com/urfave/cli/v3"
)

// Scan captures the song rows of a saved library page and writes the artifact, or prints the records with --json.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("page")
	if path == "" {
		return fmt.Errorf("%w: page", shared.ErrMissingArgument)
	}

	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := r.exportOpts(cfg, cmd)
	if err != nil {
		return err
	}

	session := r.newSession(cfg, opts, nil)
	if err := r.scanFile(session, path); err != nil {
		return err
	}

	if cmd.Bool("json") {
		defer session.Stop()
		return r.writeJSON(session.Songs(), cmd.Bool("pretty"))
	}

	result, err := session.Export()
	if err != nil {
		return err
	}
	r.writeResult(result)
	return nil
}
