package debug

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalQuiet := Quiet
	originalOutput := out
	originalFile := logFile
	return func() {
		EnableDebug = originalDebug
		Quiet = originalQuiet
		out = originalOutput
		logFile = originalFile
	}
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("DEBUG", "")

	EnableDebug = "false"
	Quiet = false
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// Quiet wins over the build flag
	Quiet = true
	assert.False(t, IsDebugEnabled())

	EnableDebug = "invalid"
	Quiet = false
	assert.False(t, IsDebugEnabled())
}

func TestIsDebugEnabled_Env(t *testing.T) {
	defer saveAndRestoreState()()
	EnableDebug = "false"
	Quiet = false

	t.Setenv("DEBUG", "1")
	assert.True(t, IsDebugEnabled())

	t.Setenv("DEBUG", "true")
	assert.True(t, IsDebugEnabled())

	t.Setenv("DEBUG", "yes")
	assert.False(t, IsDebugEnabled())
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	Quiet = false
	Log("TEST", "Hello %s", "World")

	assert.Equal(t, "[DEBUG:TEST] Hello World\n", buf.String())
}

func TestLog_NoWriter(t *testing.T) {
	defer saveAndRestoreState()()

	SetDebugOutput(nil)
	EnableDebug = "true"
	Quiet = false

	assert.NotPanics(t, func() {
		Log("TEST", "dropped")
	})
}

func TestComponentHelpers(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	Quiet = false

	LogDetect("anchor %s\n", "percy")
	LogScan("searched %d files\n", 3)
	LogTransform("rewrote %s\n", "a.js")
	LogAggregate("done\n")

	output := buf.String()
	assert.Contains(t, output, "[DEBUG:DETECT] anchor percy")
	assert.Contains(t, output, "[DEBUG:SCAN] searched 3 files")
	assert.Contains(t, output, "[DEBUG:TRANSFORM] rewrote a.js")
	assert.Contains(t, output, "[DEBUG:AGGREGATE] done")
}

func TestEnable(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	Enable(&buf)
	LogAggregate("%d files", 2)
	assert.Equal(t, "[DEBUG:AGGREGATE] 2 files\n", buf.String())

	SetQuiet(true)
	LogAggregate("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestLog_Concurrent(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	Quiet = false

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			LogScan("line\n")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "[DEBUG:SCAN] line\n"))
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	path, err := InitDebugLogFile()
	require.NoError(t, err)
	defer os.Remove(path)

	EnableDebug = "true"
	Quiet = false
	LogDetect("to file\n")
	require.NoError(t, CloseDebugLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG:DETECT] to file")

	// Closing twice is harmless
	assert.NoError(t, CloseDebugLog())
}
