package pdf

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultAllowedExtensions is the allow-list used when none is configured
var DefaultAllowedExtensions = []string{"pdf"}

// ExtensionValidator accepts or rejects files by name before any I/O happens.
// The allow-list is fixed at construction and matched case-sensitively.
type ExtensionValidator struct {
	allowed map[string]struct{}
}

// NewExtensionValidator creates a validator for the given extensions (without the dot)
func NewExtensionValidator(allowed ...string) *ExtensionValidator {
	set := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		set[ext] = struct{}{}
	}
	return &ExtensionValidator{allowed: set}
}

// Validate checks the extension of fileName against the allow-list
func (v *ExtensionValidator) Validate(fileName string) error {
	if fileName == "" {
		return newAnalysisError(ErrInvalidInput, "validate", "", nil)
	}

	ext := Extension(fileName)
	if _, ok := v.allowed[ext]; !ok {
		return newAnalysisError(ErrUnsupportedExtension, "validate", fileName,
			fmt.Errorf("extension %q is not one of [%s]", ext, strings.Join(v.Allowed(), ", ")))
	}

	return nil
}

// IsAllowed reports whether fileName passes Validate
func (v *ExtensionValidator) IsAllowed(fileName string) bool {
	return v.Validate(fileName) == nil
}

// Allowed returns the sorted allow-list
func (v *ExtensionValidator) Allowed() []string {
	out := make([]string, 0, len(v.allowed))
	for ext := range v.allowed {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extension returns the part of the base name after its last ".".
// A name without a dot is its own extension.
func Extension(fileName string) string {
	base := filepath.Base(fileName)
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[i+1:]
	}
	return base
}
