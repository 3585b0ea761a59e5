package anchor

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// PackageJSON holds the package.json fields the migrator reads
type PackageJSON struct {
	Name                 string            `json:"name"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// AllDependencies returns every declared dependency name, sorted
func (p *PackageJSON) AllDependencies() []string {
	seen := make(map[string]bool)
	for _, group := range []map[string]string{p.Dependencies, p.DevDependencies, p.PeerDependencies, p.OptionalDependencies} {
		for name := range group {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is declared in any dependency group
func (p *PackageJSON) Has(name string) bool {
	for _, group := range []map[string]string{p.Dependencies, p.DevDependencies, p.PeerDependencies, p.OptionalDependencies} {
		if _, ok := group[name]; ok {
			return true
		}
	}
	return false
}

// ReadPackageJSON parses root/package.json. ok is false when the file is absent.
func ReadPackageJSON(root string) (pkg *PackageJSON, ok bool, err error) {
	data, ok, err := readManifest(root, ManifestPackageJSON)
	if !ok || err != nil {
		return nil, ok, err
	}
	pkg = &PackageJSON{}
	if err := json.Unmarshal(data, pkg); err != nil {
		return nil, true, err
	}
	return pkg, true, nil
}

// NPMLanguage infers the language of a node project: TypeScript when a
// tsconfig.json exists or typescript is a dependency
func NPMLanguage(root string, pkg *PackageJSON) types.Language {
	if fileExists(root, ManifestTSConfig) {
		return types.LanguageTypeScript
	}
	if pkg != nil && pkg.Has("typescript") {
		return types.LanguageTypeScript
	}
	return types.LanguageJavaScript
}

// NPMDetector reads package.json
type NPMDetector struct{}

func (d *NPMDetector) Name() string { return signatures.EcosystemNPM }

func (d *NPMDetector) Detect(ctx context.Context, root string, tables *signatures.Tables) (Finding, error) {
	var finding Finding
	if err := ctx.Err(); err != nil {
		return finding, err
	}

	pkg, ok, err := ReadPackageJSON(root)
	if !ok {
		return finding, nil
	}
	finding.Checked = append(finding.Checked, ManifestPackageJSON)
	if err != nil {
		return finding, migerrors.NewManifestError(ManifestPackageJSON, err)
	}

	var hits []dependencyHit
	for _, name := range pkg.AllDependencies() {
		platform, dep, matched := tables.MatchDependency(signatures.EcosystemNPM, name)
		if !matched {
			continue
		}
		debug.LogDetect("npm: %s anchors %s", name, platform)
		hits = append(hits, dependencyHit{platform: platform, dep: dep, name: name, source: ManifestPackageJSON})
	}

	finding.Anchors = anchorsFromHits(d.Name(), hits, tables)
	if len(finding.Anchors) > 0 {
		// Hint-free packages such as CLIs say nothing about the test language
		clients := make(map[types.Platform]bool)
		for _, h := range hits {
			if h.dep.Framework != types.FrameworkUnknown {
				clients[h.platform] = true
			}
		}
		lang := NPMLanguage(root, pkg)
		for i := range finding.Anchors {
			a := &finding.Anchors[i]
			if a.Language == types.LanguageUnknown && clients[a.Platform] {
				a.Language = lang
			}
		}
	}
	return finding, nil
}
