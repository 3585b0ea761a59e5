package anchor

import (
	"context"
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/debug"
	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
)

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

type pomProject struct {
	Dependencies        []pomDependency `xml:"dependencies>dependency"`
	ManagedDependencies []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	ProfileDependencies []pomDependency `xml:"profiles>profile>dependencies>dependency"`
}

// ParsePom returns "groupId:artifactId" coordinates declared in a pom.xml
func ParsePom(data []byte) ([]string, error) {
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, err
	}

	var coords []string
	for _, group := range [][]pomDependency{pom.Dependencies, pom.ManagedDependencies, pom.ProfileDependencies} {
		for _, d := range group {
			g, a := strings.TrimSpace(d.GroupID), strings.TrimSpace(d.ArtifactID)
			if g == "" || a == "" {
				continue
			}
			coords = append(coords, g+":"+a)
		}
	}
	return coords, nil
}

var (
	// "group:artifact" or "group:artifact:version", in either quote style
	gradleCoordinate = regexp.MustCompile(`["']([A-Za-z0-9_.\-]+):([A-Za-z0-9_.\-]+)(?::[^"'\s]*)?["']`)
	// group: 'x', name: 'y' (Groovy map notation) or group = "x", name = "y" (Kotlin named args)
	gradleMapNotation = regexp.MustCompile(`group\s*[:=]\s*["']([^"']+)["']\s*,\s*name\s*[:=]\s*["']([^"']+)["']`)
)

// ParseGradle returns "group:artifact" coordinates found in a Gradle build script.
// Scripts are code, so this is a pattern scan rather than a parse and never fails.
func ParseGradle(data []byte) []string {
	var coords []string
	for _, m := range gradleCoordinate.FindAllSubmatch(data, -1) {
		coords = append(coords, string(m[1])+":"+string(m[2]))
	}
	for _, m := range gradleMapNotation.FindAllSubmatch(data, -1) {
		coords = append(coords, string(m[1])+":"+string(m[2]))
	}
	return coords
}

// MavenDetector reads pom.xml and Gradle build scripts
type MavenDetector struct{}

func (d *MavenDetector) Name() string { return signatures.EcosystemMaven }

func (d *MavenDetector) Detect(ctx context.Context, root string, tables *signatures.Tables) (Finding, error) {
	var finding Finding
	var hits []dependencyHit
	var errs []error

	for _, name := range []string{ManifestPomXML, ManifestBuildGradle, ManifestBuildGradleKts} {
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

		var coords []string
		if name == ManifestPomXML {
			coords, err = ParsePom(data)
			if err != nil {
				errs = append(errs, migerrors.NewManifestError(name, err))
				continue
			}
		} else {
			coords = ParseGradle(data)
		}

		for _, coord := range coords {
			platform, dep, matched := tables.MatchDependency(signatures.EcosystemMaven, coord)
			if !matched {
				continue
			}
			debug.LogDetect("maven: %s in %s anchors %s", coord, name, platform)
			hits = append(hits, dependencyHit{platform: platform, dep: dep, name: coord, source: name})
		}
	}

	finding.Anchors = anchorsFromHits(d.Name(), hits, tables)
	return finding, migerrors.NewMultiError(errs).ErrOrNil()
}
