package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestToRelative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX paths")
	}

	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{"nested test file", "/repo/cypress/e2e/home.cy.js", "/repo", "cypress/e2e/home.cy.js"},
		{"root level manifest", "/repo/package.json", "/repo", "package.json"},
		{"same directory", "/repo", "/repo", "."},
		{"already relative", "tests/test_home.py", "/repo", "tests/test_home.py"},
		{"outside root", "/other/file.js", "/repo", "/other/file.js"},
		{"sibling with shared prefix", "/repo-two/a.js", "/repo", "/repo-two/a.js"},
		{"dotted file name inside root", "/repo/..hidden.js", "/repo", "..hidden.js"},
		{"empty root", "/repo/a.js", "", "/repo/a.js"},
		{"empty path", "", "/repo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRelative(tt.absPath, tt.rootDir); got != tt.expected {
				t.Errorf("ToRelative() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestToSlashRelativeAll(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	in := []string{
		filepath.Join(root, "src", "a.ts"),
		filepath.Join(root, "b.py"),
	}

	got := ToSlashRelativeAll(in, root)
	want := []string{"src/a.ts", "b.py"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ToSlashRelativeAll()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// original slice untouched
	if in[0] != filepath.Join(root, "src", "a.ts") {
		t.Errorf("input slice was modified")
	}

	if out := ToSlashRelativeAll(nil, root); out != nil {
		t.Errorf("expected nil for nil input, got %v", out)
	}
}

func TestFromSlashRelative(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")

	if got := FromSlashRelative("src/a.ts", root); got != filepath.Join(root, "src", "a.ts") {
		t.Errorf("FromSlashRelative() = %v", got)
	}
	if got := FromSlashRelative("", root); got != root {
		t.Errorf("FromSlashRelative(\"\") = %v, want root", got)
	}
}
