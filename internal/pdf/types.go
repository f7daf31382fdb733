package pdf

// DocumentSummary holds the structural facts of a single file
type DocumentSummary struct {
	Path string `json:"path"`

	// SizeBytes is the file length when the summary was taken
	SizeBytes int64 `json:"size_bytes"`

	// HasImage is true when any page's resources hold an image XObject
	HasImage bool `json:"has_image"`

	// Degraded is set when the document could not be parsed or scanned
	// completely; HasImage then only reflects the pages that were scanned
	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// KeywordMatchResult is the outcome of intersecting a document's vocabulary with keywords
type KeywordMatchResult struct {
	Path      string    `json:"path"`
	Keywords  StringSet `json:"keywords"`
	Matches   StringSet `json:"matches"`
	WordCount int       `json:"word_count"`
}
