package types

// AnchorEvidence records where an anchor came from
type AnchorEvidence struct {
	Source string `json:"source"` // manifest or config file, root-relative
	Match  string `json:"match"`  // dependency name or file name that matched
}

// AnchorResult is one detector's opinion about the project.
// Platform == PlatformUnknown means the detector has no opinion.
type AnchorResult struct {
	Platform     Platform        `json:"platform"`
	Framework    Framework       `json:"framework,omitempty"`
	Language     Language        `json:"language,omitempty"`
	MagicStrings []string        `json:"magicStrings"`
	Evidence     *AnchorEvidence `json:"evidence,omitempty"`
	Detector     string          `json:"detector,omitempty"`
}

// Found reports whether the anchor names a platform
func (a AnchorResult) Found() bool {
	return a.Platform != PlatformUnknown
}

// Complete reports whether the anchor carries both framework and language hints
func (a AnchorResult) Complete() bool {
	return a.Found() && a.Framework != FrameworkUnknown && a.Language != LanguageUnknown
}

// PlatformEvidence explains the platform decision
type PlatformEvidence struct {
	Source string `json:"source"`
	Match  string `json:"match"`
}

// FrameworkEvidence explains the framework decision
type FrameworkEvidence struct {
	Files      []string `json:"files"`
	Signatures []string `json:"signatures"`
}

// Evidence carries the provenance of a DetectionResult
type Evidence struct {
	Platform  PlatformEvidence  `json:"platform"`
	Framework FrameworkEvidence `json:"framework"`
}

// DetectionFiles groups the project files relevant to a migration.
// All paths are root-relative with forward slashes.
type DetectionFiles struct {
	Config         []string `json:"config"`
	Source         []string `json:"source"`
	CI             []string `json:"ci"`
	PackageManager []string `json:"packageManager"`
}

// DetectionResult is the single output of one detection scan.
// Platform is never PlatformUnknown; that case is reported as an error.
type DetectionResult struct {
	Platform  Platform       `json:"platform"`
	Framework Framework      `json:"framework"`
	Language  Language       `json:"language"`
	TestType  TestType       `json:"testType"`
	Files     DetectionFiles `json:"files"`
	Evidence  Evidence       `json:"evidence"`
}
