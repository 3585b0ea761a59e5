package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	migerrors "github.com/RushilK7/smartui-migration-tool-sub004/internal/errors"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// maxFileSizeLimit keeps a misconfigured scan from reading huge generated files
const maxFileSizeLimit = 64 * 1024 * 1024

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Returns an error if validation fails.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return migerrors.NewConfigError("project.root", cfg.Project.Root, err)
	}

	if err := v.validateScanConfig(&cfg.Scan); err != nil {
		return migerrors.NewConfigError("scan", "", err)
	}

	if err := v.validateExclusions(cfg.Exclude); err != nil {
		return migerrors.NewConfigError("exclude", "", err)
	}

	if cfg.Detection.FallbackFramework != "" {
		if _, err := types.ParseFramework(cfg.Detection.FallbackFramework); err != nil {
			return migerrors.NewConfigError("detection.fallback_framework", cfg.Detection.FallbackFramework, err)
		}
	}

	if cfg.Transform.Language != "" {
		if _, err := types.ParseLanguage(cfg.Transform.Language); err != nil {
			return migerrors.NewConfigError("transform.language", cfg.Transform.Language, err)
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateScanConfig(scan *Scan) error {
	if scan.MaxFileSize < 0 {
		return fmt.Errorf("MaxFileSize cannot be negative, got %d", scan.MaxFileSize)
	}
	if scan.MaxFileSize > maxFileSizeLimit {
		return fmt.Errorf("MaxFileSize should not exceed 64MB, got %d", scan.MaxFileSize)
	}

	// Workers: 0 means auto-detect (will be set by smart defaults)
	if scan.Workers < 0 {
		return fmt.Errorf("Workers cannot be negative, got %d", scan.Workers)
	}

	for _, ext := range scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

func (v *Validator) validateExclusions(patterns []string) error {
	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("pattern %d (%q) is not a valid glob", i, pattern)
		}
	}
	return nil
}

// setSmartDefaults applies defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Use cores-1 to leave headroom for the system, minimum of 1
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Scan.MaxFileSize == 0 {
		cfg.Scan.MaxFileSize = DefaultMaxFileSize
	}

	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = DefaultExtensions()
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
