package anchor

import (
	"context"
	"os"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// FindConfigFiles returns the root-relative files matching a platform's
// config-file globs, sorted and deduplicated
func FindConfigFiles(root string, sig *signatures.PlatformSignature) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range sig.ConfigFiles {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// ConfigFileDetector anchors a platform by its config files (.percy.yml,
// applitools.config.js). Config files say nothing about framework or language.
type ConfigFileDetector struct{}

func (d *ConfigFileDetector) Name() string { return "config" }

func (d *ConfigFileDetector) Detect(ctx context.Context, root string, tables *signatures.Tables) (Finding, error) {
	var finding Finding

	for i := range tables.Platforms {
		if err := ctx.Err(); err != nil {
			return finding, err
		}

		sig := &tables.Platforms[i]
		files, err := FindConfigFiles(root, sig)
		if err != nil {
			return finding, err
		}
		if len(files) == 0 {
			continue
		}

		debug.LogDetect("config: %v anchors %s", files, sig.Platform)
		finding.Checked = append(finding.Checked, files...)
		finding.Anchors = append(finding.Anchors, types.AnchorResult{
			Platform:     sig.Platform,
			MagicStrings: append([]string(nil), sig.MagicStrings...),
			Evidence:     &types.AnchorEvidence{Source: files[0], Match: path.Base(files[0])},
			Detector:     d.Name(),
		})
	}

	return finding, nil
}
