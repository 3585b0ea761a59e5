package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	assert.Equal(t, Version, Info())
	assert.True(t, strings.HasPrefix(FullInfo(), "smartui-migrate "+Version))
}

func TestBuildID_Stable(t *testing.T) {
	first := BuildID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, BuildID())
	assert.Contains(t, FullInfo(), "build: "+first)
}
