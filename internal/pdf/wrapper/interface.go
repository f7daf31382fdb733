package wrapper

import (
	"errors"
	"fmt"
)

// PDFLibrary defines the unified interface for the PDF parsing libraries the
// analyser delegates to
type PDFLibrary interface {
	// OpenFile loads and parses the file into an in-memory document
	OpenFile(path string) (PDFDocument, error)

	// Library identification
	GetLibraryType() LibraryType
	GetVersion() string
}

// PDFDocument is a parsed document. Its lifetime is scoped to a single
// analysis call and it must be closed by whoever opened it.
type PDFDocument interface {
	GetPageCount() (int, error)

	// ExtractText returns the text of every page in document order
	ExtractText() (string, error)

	// PageHasImage reports whether the resource dictionary of the page
	// (1-based) holds an image XObject
	PageHasImage(pageNum int) (bool, error)

	Close() error
}

// Opener opens documents with the library best suited for an operation
type Opener interface {
	Open(op OperationType, path string) (PDFDocument, error)
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
	LibraryAuto       LibraryType = "auto" // Pick per operation
)

// OperationType represents the kinds of work the analyser asks a library for
type OperationType string

const (
	OperationTextExtraction OperationType = "text_extraction"
	OperationImageDetection OperationType = "image_detection"
)

// WrapperError is returned by every library wrapper operation
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrDocumentClosed     = errors.New("document is closed")
	ErrInvalidPage        = errors.New("invalid page number")
	ErrUnsupported        = errors.New("operation not supported by library")
	ErrUnsupportedLibrary = errors.New("unsupported library type")
)
