// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Artifact format: json, csv, markdown or txt",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory the artifact is written to",
		},
	}
}

// setupCommand handles first-run setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize songcap",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// captureCommand handles live capture from the library page in Chrome
func captureCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Open the library in Chrome and capture songs while you scroll",
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "no-tui",
				Usage: "Log progress instead of showing the interactive monitor; press Enter to download",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the interactive monitor runs",
				Value: "./tmp/songcap.log",
			},
		}, exportFlags()...),
		Action: r.Capture,
	}
}

// replayCommand handles capture by replaying a copied feed request
func replayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Capture songs by paging through the feed with a request copied from DevTools",
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "curl",
				Usage: "cURL command copied from browser DevTools",
			},
			&cli.StringFlag{
				Name:  "curl-file",
				Usage: "Path to a file containing the cURL command",
			},
			&cli.StringFlag{
				Name:  "html",
				Usage: "Saved library page scanned before replaying",
			},
			&cli.IntFlag{
				Name:  "start",
				Usage: "First feed page",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Stop after this many pages (0 for no limit)",
			},
		}, exportFlags()...),
		Action: r.Replay,
	}
}

// scanCommand handles offline scans of saved pages
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Capture the song rows of a saved library page",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "page",
			},
		},
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the records instead of writing an artifact",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print printed records",
				Value: true,
			},
		}, exportFlags()...),
		Action: r.Scan,
	}
}
