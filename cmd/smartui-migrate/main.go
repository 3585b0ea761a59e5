package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/config"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configDir := c.String("config")
	rootFlag := c.String("root")

	// Without an explicit config dir the config lives next to the project
	if configDir == "" {
		configDir = rootFlag
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", filepath.Join(configDir, config.ConfigFileName), err)
	}

	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = config.DeduplicatePatterns(append(cfg.Exclude, excludeFlags...))
	}
	if rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	return cfg, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "smartui-migrate",
		Usage:                  "Preview the migration of visual tests from Percy, Applitools or Sauce Labs Visual to LambdaTest SmartUI",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Directory holding " + config.ConfigFileName + " (defaults to the project root)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to analyze (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/fixtures/**')",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to stderr",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress debug output, even when DEBUG is set in the environment",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug output to a log file under the temp directory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "detect",
				Usage:  "Identify the visual testing platform, framework and language of the project",
				Flags:  []cli.Flag{collectAllFlag, jsonFlag},
				Action: detectCommand,
			},
			{
				Name:  "migrate",
				Usage: "Detect the project and preview its SmartUI rewrite; files are never written",
				Flags: []cli.Flag{
					jsonFlag,
					&cli.BoolFlag{
						Name:    "show-diff",
						Aliases: []string{"d"},
						Usage:   "Print a unified diff for every changed file",
					},
				},
				Action: migrateCommand,
			},
			{
				Name:  "version",
				Usage: "Show version and build information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					return nil
				},
			},
		},
		Before: func(c *cli.Context) error {
			debug.SetQuiet(c.Bool("quiet"))
			if c.Bool("debug") || debug.IsDebugEnabled() {
				debug.Enable(c.App.ErrWriter)
			}
			if c.Bool("debug-log") {
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				debug.EnableDebug = "true"
				fmt.Fprintf(c.App.ErrWriter, "Debug log: %s\n", path)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
	}
}

var (
	jsonFlag = &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}
	collectAllFlag = &cli.BoolFlag{
		Name:    "collect-all",
		Aliases: []string{"a"},
		Usage:   "Report every platform candidate instead of failing on ambiguity",
	}
)

// signalContext is cancelled on SIGINT/SIGTERM so long scans stop cleanly
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// Detection errors already read as user-facing reports
		if migerrors.IsDetectionError(err) {
			fmt.Fprintln(os.Stderr, err)
		} else if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
