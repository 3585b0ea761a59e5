// Package pathutil converts between the absolute paths used while scanning
// and the root-relative, slash-separated paths reported in results.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/cypress/e2e/home.cy.js", "/home/user/project") → "cypress/e2e/home.cy.js"
//   - ToRelative("/other/location/file.js", "/home/user/project") → "/other/location/file.js" (outside root)
//   - ToRelative("tests/test_home.py", "/home/user/project") → "tests/test_home.py" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// e.g. different drives on Windows
		return absPath
	}

	// Outside the root: the absolute path is clearer
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}

	return relPath
}

// ToSlashRelative is ToRelative with forward slashes, the form used in
// detection results and glob matching on every OS
func ToSlashRelative(absPath, rootDir string) string {
	return filepath.ToSlash(ToRelative(absPath, rootDir))
}

// ToSlashRelativeAll converts every path in paths. Creates a new slice
// without modifying the original.
func ToSlashRelativeAll(paths []string, rootDir string) []string {
	if len(paths) == 0 {
		return paths
	}
	converted := make([]string, len(paths))
	for i, p := range paths {
		converted[i] = ToSlashRelative(p, rootDir)
	}
	return converted
}

// FromSlashRelative resolves a root-relative slash path back to an absolute path
func FromSlashRelative(relPath, rootDir string) string {
	if relPath == "" {
		return rootDir
	}
	native := filepath.FromSlash(relPath)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(rootDir, native)
}
