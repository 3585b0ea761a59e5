package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/detect"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

func detectCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	opts := detect.OptionsFromConfig(cfg)

	ctx, cancel := signalContext(c)
	defer cancel()

	if c.Bool("collect-all") || cfg.Detection.CollectAll {
		candidates, err := detect.DetectCandidates(ctx, opts)
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return writeJSON(c.App.Writer, candidates)
		}
		printCandidates(c.App.Writer, candidates)
		return nil
	}

	result, err := detect.Detect(ctx, opts)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	printDetection(c.App.Writer, result)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printDetection(w io.Writer, r *types.DetectionResult) {
	fmt.Fprintf(w, "Platform:  %s\n", r.Platform.DisplayName())
	fmt.Fprintf(w, "Framework: %s\n", r.Framework)
	fmt.Fprintf(w, "Language:  %s\n", r.Language)
	fmt.Fprintf(w, "Test type: %s\n", r.TestType)
	if r.Evidence.Platform.Source != "" {
		fmt.Fprintf(w, "Evidence:  %s (%s)\n", r.Evidence.Platform.Source, r.Evidence.Platform.Match)
	}

	printFiles(w, "Source files", r.Files.Source)
	printFiles(w, "Config files", r.Files.Config)
	printFiles(w, "CI files", r.Files.CI)
	printFiles(w, "Package manager files", r.Files.PackageManager)
}

func printFiles(w io.Writer, title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(paths))
	for _, p := range paths {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func printCandidates(w io.Writer, candidates []types.AnchorResult) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No platform declared in any manifest")
		return
	}
	fmt.Fprintf(w, "%d candidate(s):\n", len(candidates))
	for _, cand := range candidates {
		var hints []string
		if cand.Framework != types.FrameworkUnknown {
			hints = append(hints, string(cand.Framework))
		}
		if cand.Language != types.LanguageUnknown {
			hints = append(hints, string(cand.Language))
		}
		line := "  " + cand.Platform.DisplayName()
		if len(hints) > 0 {
			line += " [" + strings.Join(hints, ", ") + "]"
		}
		if cand.Detector != "" {
			line += " via " + cand.Detector
		}
		fmt.Fprintln(w, line)
	}
}
