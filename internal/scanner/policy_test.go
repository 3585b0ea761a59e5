package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Excluded(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		path     string
		excluded bool
	}{
		{"node_modules/@percy/cypress/index.js", true},
		{"packages/web/node_modules/x.js", true},
		{".git/config", true},
		{"dist/main.js", true},
		{"public/vendor.min.js", true},
		{"tools/smartui-migration-tool/src/index.js", true},
		{"test/__smartui_fixtures__/percy.js", true},
		{"test/home.smartui-fixture.js", true},
		{"cypress/e2e/home.cy.js", false},
		{"src/components/Button.spec.tsx", false},
		{"tests/test_home.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.excluded, p.Excluded(tt.path))
		})
	}
}

func TestPolicy_ExcludedDir(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.ExcludedDir("node_modules"))
	assert.True(t, p.ExcludedDir("web/build"))
	assert.False(t, p.ExcludedDir("cypress"))
}

func TestPolicy_Accepts(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.Accepts("src/App.TSX"))
	assert.True(t, p.Accepts("src/test/java/HomeTest.java"))
	assert.False(t, p.Accepts("README.md"))
	assert.False(t, p.Accepts("Makefile"))
	assert.False(t, p.Accepts("node_modules/a.js"))
}

func TestPolicy_BadPatternIsIgnored(t *testing.T) {
	p := Policy{Exclude: []string{"[", "**/skip/**"}, Extensions: []string{".js"}}
	assert.False(t, p.Excluded("src/a.js"))
	assert.True(t, p.Excluded("skip/a.js"))
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte("describe('home', () => {})\n")))
	assert.True(t, IsBinary([]byte{0x1F, 0x8B, 0x08}))
	assert.True(t, IsBinary([]byte("abc\x00\x00\x00def")))
}
