package pdf

import (
	"errors"
	"fmt"
)

// Error kinds callers branch on with errors.Is
var (
	// ErrInvalidInput is returned when no file reference was given
	ErrInvalidInput = errors.New("invalid input: file reference is required")

	// ErrUnsupportedExtension is returned when the file extension is not in the allow-list
	ErrUnsupportedExtension = errors.New("file extension not supported")

	// ErrReadFailure is returned when the PDF library cannot load the file
	ErrReadFailure = errors.New("no such file")

	// ErrExtractFailure is the ErrReadFailure of a file that loaded but whose
	// text could not be stripped
	ErrExtractFailure error = &kindError{msg: "text extraction failed", parent: ErrReadFailure}
)

// kindError is an error kind that also matches a broader parent kind
type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.parent }

// AnalysisError carries the error kind together with the operation, the file
// and the underlying cause
type AnalysisError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg = fmt.Sprintf("%s: %v", msg, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *AnalysisError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newAnalysisError(kind error, op, path string, cause error) *AnalysisError {
	return &AnalysisError{Kind: kind, Op: op, Path: path, Err: cause}
}
