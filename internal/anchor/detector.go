// Package anchor reads dependency manifests and platform config files to find
// the visual testing platform a project declares. Each detector reports what
// it saw; the Resolver decides between zero, one or several platforms.
package anchor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// Manifest file names read by the detectors
const (
	ManifestPackageJSON    = "package.json"
	ManifestTSConfig       = "tsconfig.json"
	ManifestPomXML         = "pom.xml"
	ManifestBuildGradle    = "build.gradle"
	ManifestBuildGradleKts = "build.gradle.kts"
	ManifestPyprojectToml  = "pyproject.toml"
	ManifestPipfile        = "Pipfile"
)

// Finding is the raw output of one detector run
type Finding struct {
	// Anchors holds at most one entry per platform, in first-seen order
	Anchors []types.AnchorResult
	// Checked lists the root-relative manifests that existed and were read
	Checked []string
}

// Detector inspects one kind of project evidence
type Detector interface {
	Name() string
	Detect(ctx context.Context, root string, tables *signatures.Tables) (Finding, error)
}

// DefaultDetectors returns the built-in detectors in resolution order
func DefaultDetectors() []Detector {
	return []Detector{
		&NPMDetector{},
		&MavenDetector{},
		&PythonDetector{},
		&ConfigFileDetector{},
	}
}

// dependencyHit is a manifest dependency that matched a platform table entry
type dependencyHit struct {
	platform types.Platform
	dep      *signatures.Dependency
	name     string // as written in the manifest
	source   string // root-relative manifest path
}

// anchorsFromHits groups hits per platform. Framework and language hints are
// kept only when every hit for the platform agrees on them.
func anchorsFromHits(detector string, hits []dependencyHit, tables *signatures.Tables) []types.AnchorResult {
	var anchors []types.AnchorResult
	index := make(map[types.Platform]int)
	conflicted := make(map[types.Platform]struct{ framework, language bool })

	for _, h := range hits {
		i, ok := index[h.platform]
		if !ok {
			a := types.AnchorResult{
				Platform: h.platform,
				Evidence: &types.AnchorEvidence{Source: h.source, Match: h.name},
				Detector: detector,
			}
			if sig, found := tables.Platform(h.platform); found {
				a.MagicStrings = append(a.MagicStrings, sig.MagicStrings...)
			}
			index[h.platform] = len(anchors)
			anchors = append(anchors, a)
			i = len(anchors) - 1
		}

		a := &anchors[i]
		c := conflicted[h.platform]
		if fw := h.dep.Framework; fw != types.FrameworkUnknown && !c.framework {
			switch a.Framework {
			case types.FrameworkUnknown:
				a.Framework = fw
			case fw:
			default:
				a.Framework = types.FrameworkUnknown
				c.framework = true
			}
		}
		if lang := h.dep.Language; lang != types.LanguageUnknown && !c.language {
			switch a.Language {
			case types.LanguageUnknown:
				a.Language = lang
			case lang:
			default:
				a.Language = types.LanguageUnknown
				c.language = true
			}
		}
		conflicted[h.platform] = c
		a.MagicStrings = appendUnique(a.MagicStrings, h.dep.MagicStrings...)
	}

	return anchors
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range dst {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}

// readManifest returns the content of a root-level manifest, or ok=false when
// it does not exist
func readManifest(root, name string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(filepath.Join(root, name))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

func fileExists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}
