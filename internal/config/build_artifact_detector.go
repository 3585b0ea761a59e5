// Build artifact detection from language-specific configuration files.
// Compiled test output often contains copies of the original test sources,
// so those directories must stay out of the content scan.
package config

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds language-specific build output directories
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories scans for build configuration files and extracts output directories.
// Returns glob patterns to exclude (e.g., "**/lib/**").
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string
	patterns = append(patterns, bad.detectJavaScriptOutputs()...)
	patterns = append(patterns, bad.detectPythonOutputs()...)
	patterns = append(patterns, bad.detectJavaOutputs()...)
	return DeduplicatePatterns(patterns)
}

// detectJavaScriptOutputs finds JS/TS build outputs
func (bad *BuildArtifactDetector) detectJavaScriptOutputs() []string {
	var patterns []string

	if data, err := os.ReadFile(filepath.Join(bad.projectRoot, "package.json")); err == nil {
		var pkg struct {
			Scripts map[string]string `json:"scripts"`
			Build   struct {
				OutDir string `json:"outDir"`
			} `json:"build"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			for _, script := range pkg.Scripts {
				parts := strings.Fields(script)
				for i, part := range parts {
					if (part == "--outDir" || part == "-outDir" || part == "--out-dir") && i+1 < len(parts) {
						patterns = appendOutDir(patterns, strings.Trim(parts[i+1], `"'`))
					}
				}
			}
			patterns = appendOutDir(patterns, pkg.Build.OutDir)
		}
	}

	for _, name := range []string{"tsconfig.json", "tsconfig.build.json"} {
		data, err := os.ReadFile(filepath.Join(bad.projectRoot, name))
		if err != nil {
			continue
		}
		var tsconfig struct {
			CompilerOptions struct {
				OutDir string `json:"outDir"`
			} `json:"compilerOptions"`
		}
		if json.Unmarshal(data, &tsconfig) == nil {
			patterns = appendOutDir(patterns, tsconfig.CompilerOptions.OutDir)
		}
	}

	return patterns
}

// detectPythonOutputs finds Python build outputs declared in pyproject.toml
func (bad *BuildArtifactDetector) detectPythonOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "pyproject.toml"))
	if err != nil {
		return nil
	}

	var pyproject struct {
		Tool struct {
			Poetry struct {
				Build struct {
					TargetDir string `toml:"target-dir"`
				} `toml:"build"`
			} `toml:"poetry"`
			Hatch struct {
				Build struct {
					Directory string `toml:"directory"`
				} `toml:"build"`
			} `toml:"hatch"`
		} `toml:"tool"`
	}
	if toml.Unmarshal(data, &pyproject) == nil {
		patterns = appendOutDir(patterns, pyproject.Tool.Poetry.Build.TargetDir)
		patterns = appendOutDir(patterns, pyproject.Tool.Hatch.Build.Directory)
	}

	return patterns
}

var gradleBuildDir = regexp.MustCompile(`buildDir\s*=\s*(?:file\()?["']([^"']+)["']`)

// detectJavaOutputs finds custom Maven and Gradle output directories
func (bad *BuildArtifactDetector) detectJavaOutputs() []string {
	var patterns []string

	if data, err := os.ReadFile(filepath.Join(bad.projectRoot, "pom.xml")); err == nil {
		var pom struct {
			Build struct {
				Directory string `xml:"directory"`
			} `xml:"build"`
		}
		if xml.Unmarshal(data, &pom) == nil && !strings.Contains(pom.Build.Directory, "${") {
			patterns = appendOutDir(patterns, pom.Build.Directory)
		}
	}

	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		data, err := os.ReadFile(filepath.Join(bad.projectRoot, name))
		if err != nil {
			continue
		}
		if m := gradleBuildDir.FindSubmatch(data); m != nil {
			patterns = appendOutDir(patterns, string(m[1]))
		}
	}

	return patterns
}

func appendOutDir(patterns []string, dir string) []string {
	dir = strings.Trim(filepath.ToSlash(strings.TrimSpace(dir)), "/")
	dir = strings.TrimPrefix(dir, "./")
	if dir == "" || dir == "." || strings.HasPrefix(dir, "..") {
		return patterns
	}
	return append(patterns, "**/"+dir+"/**")
}
