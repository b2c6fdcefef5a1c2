package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songcap/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	if _, err := os.Stat(configPath); err == nil {
		if !cmd.Bool("force") {
			r.logger.Warn("config file already exists, use --force to overwrite", "path", configPath)
			return nil
		}
		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("failed to replace config file: %w", err)
		}
	}

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	if _, err := shared.LoadConfig(configPath); err != nil {
		return fmt.Errorf("written config does not load: %w", err)
	}

	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Log in to the library site in Chrome\n")
	r.writePlain("2. Run 'songcap capture' and scroll through your library\n")
	return nil
}
