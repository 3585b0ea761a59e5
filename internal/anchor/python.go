package anchor

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
)

// ParseRequirements returns the package names of a pip requirements file.
// Options (-r, -e, --index-url) and URLs are skipped.
func ParseRequirements(data []byte) []string {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") || strings.Contains(line, "://") {
			continue
		}
		if name := requirementName(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// requirementName extracts the distribution name from a PEP 508 string such
// as "percy-selenium[extra]>=2.0; python_version>'3.8'"
func requirementName(spec string) string {
	end := strings.IndexAny(spec, "=<>!~[;@ (\t")
	if end < 0 {
		return strings.TrimSpace(spec)
	}
	return strings.TrimSpace(spec[:end])
}

type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ParsePyproject returns dependency names from PEP 621, PEP 735 and Poetry tables
func ParsePyproject(data []byte) ([]string, error) {
	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	var names []string
	for _, spec := range p.Project.Dependencies {
		names = append(names, requirementName(spec))
	}
	for _, extra := range sortedKeys(p.Project.OptionalDependencies) {
		for _, spec := range p.Project.OptionalDependencies[extra] {
			names = append(names, requirementName(spec))
		}
	}
	for _, group := range sortedKeys(p.DependencyGroups) {
		for _, entry := range p.DependencyGroups[group] {
			// include-group tables are not dependencies
			if spec, ok := entry.(string); ok {
				names = append(names, requirementName(spec))
			}
		}
	}

	poetry := p.Tool.Poetry
	names = append(names, sortedKeys(poetry.Dependencies)...)
	names = append(names, sortedKeys(poetry.DevDependencies)...)
	for _, group := range sortedKeys(poetry.Group) {
		names = append(names, sortedKeys(poetry.Group[group].Dependencies)...)
	}
	return names, nil
}

// ParsePipfile returns the package names of a Pipfile
func ParsePipfile(data []byte) ([]string, error) {
	var pf struct {
		Packages    map[string]any `toml:"packages"`
		DevPackages map[string]any `toml:"dev-packages"`
	}
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return append(sortedKeys(pf.Packages), sortedKeys(pf.DevPackages)...), nil
}

// PythonDetector reads requirements*.txt, pyproject.toml and Pipfile
type PythonDetector struct{}

func (d *PythonDetector) Name() string { return signatures.EcosystemPython }

func (d *PythonDetector) Detect(ctx context.Context, root string, tables *signatures.Tables) (Finding, error) {
	var finding Finding
	var hits []dependencyHit
	var errs []error

	manifests, err := pythonManifests(root)
	if err != nil {
		return finding, err
	}

	for _, name := range manifests {
		if err := ctx.Err(); err != nil {
			return finding, err
		}

		data, ok, err := readManifest(root, name)
		if !ok {
			continue
		}
		finding.Checked = append(finding.Checked, name)
		if err != nil {
			errs = append(errs, migerrors.NewManifestError(name, err))
			continue
		}

		var deps []string
		switch name {
		case ManifestPyprojectToml:
			deps, err = ParsePyproject(data)
		case ManifestPipfile:
			deps, err = ParsePipfile(data)
		default:
			deps = ParseRequirements(data)
		}
		if err != nil {
			errs = append(errs, migerrors.NewManifestError(name, err))
			continue
		}

		for _, dep := range deps {
			platform, entry, matched := tables.MatchDependency(signatures.EcosystemPython, dep)
			if !matched {
				continue
			}
			debug.LogDetect("python: %s in %s anchors %s", dep, name, platform)
			hits = append(hits, dependencyHit{platform: platform, dep: entry, name: dep, source: name})
		}
	}

	finding.Anchors = anchorsFromHits(d.Name(), hits, tables)
	return finding, migerrors.NewMultiError(errs).ErrOrNil()
}

// pythonManifests lists the root-level python manifests in a fixed order:
// requirements files sorted by name, then pyproject.toml, then Pipfile
func pythonManifests(root string) ([]string, error) {
	fsys := os.DirFS(root)
	reqs, err := doublestar.Glob(fsys, "requirements*.txt", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	nested, err := doublestar.Glob(fsys, "requirements/*.txt", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	reqs = append(reqs, nested...)
	sort.Strings(reqs)

	out := reqs
	for _, name := range []string{ManifestPyprojectToml, ManifestPipfile} {
		if _, err := fs.Stat(fsys, name); err == nil {
			out = append(out, name)
		}
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
