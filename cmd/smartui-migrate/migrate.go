package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/aggregate"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/detect"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/transform"
)

func migrateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	opts := detect.OptionsFromConfig(cfg)

	ctx, cancel := signalContext(c)
	defer cancel()

	detection, err := detect.Detect(ctx, opts)
	if err != nil {
		return err
	}

	summary, err := aggregate.Run(ctx, transform.New(opts.Tables), detection, aggregate.Options{
		Root:     opts.Root,
		Policy:   opts.Policy,
		Workers:  opts.Workers,
		Language: opts.Language,
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, summary)
	}
	printSummary(c.App.Writer, summary, c.Bool("show-diff"))
	return nil
}

func printSummary(w io.Writer, s *aggregate.Summary, showDiff bool) {
	fmt.Fprintf(w, "Migration preview %s (build %s)\n", s.RunID, s.Build)
	fmt.Fprintf(w, "%s (%s, %s) -> LambdaTest SmartUI\n\n", s.Platform.DisplayName(), s.Framework, s.Language)
	fmt.Fprintf(w, "Files scanned:  %d\n", s.FilesScanned)
	fmt.Fprintf(w, "Files changed:  %d\n", s.FilesTouched)
	fmt.Fprintf(w, "Snapshots:      %d\n", s.SnapshotCount)

	if s.FilesTouched > 0 {
		fmt.Fprintln(w, "\nChanged files:")
		for _, f := range s.Files {
			if f.Changed {
				fmt.Fprintf(w, "  %s (%d snapshot(s))\n", f.Path, f.Result.SnapshotCount)
			}
		}
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(s.Warnings))
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "  %s\n", warn.Message)
			if warn.Details != "" {
				fmt.Fprintf(w, "    %s\n", warn.Details)
			}
		}
	}

	if showDiff {
		for _, f := range s.Files {
			if diff := f.Diff(); diff != "" {
				fmt.Fprintf(w, "\n%s", diff)
			}
		}
	}

	fmt.Fprintln(w, "\nNo files were written.")
}
