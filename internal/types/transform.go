package types

// Warning is a non-fatal finding attached to a file's transformation
type Warning struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// TransformationResult is the outcome of transforming one source file.
// Content equals the input verbatim when nothing was rewritten.
type TransformationResult struct {
	Content       string    `json:"content"`
	Warnings      []Warning `json:"warnings"`
	SnapshotCount int       `json:"snapshotCount"`
}

// Unchanged builds the no-op result for source
func Unchanged(source string) TransformationResult {
	return TransformationResult{Content: source, Warnings: []Warning{}}
}
