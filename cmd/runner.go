package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/formatter"
	"github.com/desertthunder/songcap/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, captureCommand, replayCommand, scanCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequent command actions.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// loadConfig returns the configuration for a command: the file named by an explicit --config, else the
// configuration the runner started with.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if !cmd.IsSet("config") {
		return r.config, nil
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}
	return shared.LoadConfig(path)
}

// exportOpts builds the artifact options from cfg with --format and --output-dir applied.
func (r *Runner) exportOpts(cfg *shared.Config, cmd *cli.Command) (formatter.ExportOpts, error) {
	opts := formatter.ExportOpts{
		OutputDir: cfg.Export.OutputDir,
		Prefix:    cfg.Export.FilenamePrefix,
		Format:    cfg.Export.Format,
		Pretty:    cfg.Export.Pretty,
	}

	if format := cmd.String("format"); format != "" {
		if !slices.Contains(shared.ExportFormats, format) {
			return opts, fmt.Errorf("%w: %s", shared.ErrInvalidFormat, format)
		}
		opts.Format = format
	}
	if dir := cmd.String("output-dir"); dir != "" {
		opts.OutputDir = dir
	}
	return opts, nil
}

func (r *Runner) newSession(cfg *shared.Config, export formatter.ExportOpts, progress chan<- capture.Progress) *capture.Session {
	return capture.NewSession(capture.Options{
		Capture:  cfg.Capture,
		Export:   export,
		Logger:   r.logger,
		Progress: progress,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeResult(result *formatter.ExportResult) {
	r.writePlain("✓ Downloaded %d songs\n", result.Count)
	r.writePlain("File: %s\n", result.Path)
}
