package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// Error types for the migration tool
type ErrorType string

const (
	// Detection errors
	ErrorTypePlatformNotDetected ErrorType = "platform_not_detected"
	ErrorTypeMultiplePlatforms   ErrorType = "multiple_platforms"
	ErrorTypeMismatchedSignals   ErrorType = "mismatched_signals"

	// Manifest errors
	ErrorTypeManifest ErrorType = "manifest"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// maxListed caps how many files an error message spells out
const maxListed = 5

// PlatformNotDetectedError is raised when neither anchors nor content name a platform
type PlatformNotDetectedError struct {
	Type          ErrorType
	Root          string
	Manifests     []string
	SearchedFiles int
	Timestamp     time.Time
}

// NewPlatformNotDetectedError creates a new platform-not-detected error
func NewPlatformNotDetectedError(root string, manifests []string, searched int) *PlatformNotDetectedError {
	return &PlatformNotDetectedError{
		Type:          ErrorTypePlatformNotDetected,
		Root:          root,
		Manifests:     manifests,
		SearchedFiles: searched,
		Timestamp:     time.Now(),
	}
}

// Error implements the error interface
func (e *PlatformNotDetectedError) Error() string {
	checked := "none found"
	if len(e.Manifests) > 0 {
		checked = strings.Join(e.Manifests, ", ")
	}
	return fmt.Sprintf("no visual testing platform detected in %s: manifests checked: %s; %d source files searched without a platform match",
		e.Root, checked, e.SearchedFiles)
}

// Candidate is one platform claim found while resolving anchors
type Candidate struct {
	Platform types.Platform
	Source   string
	Match    string
}

// MultiplePlatformsDetectedError is raised when anchors name more than one platform
type MultiplePlatformsDetectedError struct {
	Type       ErrorType
	Candidates []Candidate
	Timestamp  time.Time
}

// NewMultiplePlatformsDetectedError creates a new multiple-platforms error
func NewMultiplePlatformsDetectedError(candidates []Candidate) *MultiplePlatformsDetectedError {
	return &MultiplePlatformsDetectedError{
		Type:       ErrorTypeMultiplePlatforms,
		Candidates: candidates,
		Timestamp:  time.Now(),
	}
}

// Platforms returns the distinct platforms in first-seen order
func (e *MultiplePlatformsDetectedError) Platforms() []types.Platform {
	seen := make(map[types.Platform]bool)
	var out []types.Platform
	for _, c := range e.Candidates {
		if !seen[c.Platform] {
			seen[c.Platform] = true
			out = append(out, c.Platform)
		}
	}
	return out
}

// Error implements the error interface
func (e *MultiplePlatformsDetectedError) Error() string {
	parts := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		parts = append(parts, fmt.Sprintf("%s (%s in %s)", c.Platform.DisplayName(), c.Match, c.Source))
	}
	return fmt.Sprintf("multiple visual testing platforms detected: %s; remove the unused platform or run with collect-all to inspect candidates",
		strings.Join(parts, ", "))
}

// MismatchedSignalsError is raised when source code uses a platform the manifests never declare
type MismatchedSignalsError struct {
	Type      ErrorType
	Platform  types.Platform
	Files     []string
	Matches   []string
	Timestamp time.Time
}

// NewMismatchedSignalsError creates a new mismatched-signals error
func NewMismatchedSignalsError(platform types.Platform, files, matches []string) *MismatchedSignalsError {
	return &MismatchedSignalsError{
		Type:      ErrorTypeMismatchedSignals,
		Platform:  platform,
		Files:     files,
		Matches:   matches,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *MismatchedSignalsError) Error() string {
	files := e.Files
	more := ""
	if len(files) > maxListed {
		more = fmt.Sprintf(" and %d more", len(files)-maxListed)
		files = files[:maxListed]
	}
	return fmt.Sprintf("source code uses %s (matched %s in %s%s) but no %s dependency or config file is declared; install or declare the %s client and retry",
		e.Platform.DisplayName(), quoteAll(e.Matches), strings.Join(files, ", "), more,
		e.Platform.DisplayName(), e.Platform.DisplayName())
}

// ManifestError represents a manifest that could not be read or parsed
type ManifestError struct {
	Type       ErrorType
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewManifestError creates a new manifest error
func NewManifestError(path string, err error) *ManifestError {
	return &ManifestError{
		Type:       ErrorTypeManifest,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s could not be parsed: %v", e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ManifestError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if os.IsPermission(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// ErrOrNil returns nil when no errors were collected
func (e *MultiError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// IsDetectionError reports whether err is one of the three scan-fatal detection errors
func IsDetectionError(err error) bool {
	var notDetected *PlatformNotDetectedError
	var multiple *MultiplePlatformsDetectedError
	var mismatched *MismatchedSignalsError
	return stderrors.As(err, &notDetected) || stderrors.As(err, &multiple) || stderrors.As(err, &mismatched)
}

func quoteAll(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, v := range sorted {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
