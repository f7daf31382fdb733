package wrapper

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LedongthucLibrary implements PDFLibrary using ledongthuc/pdf
type LedongthucLibrary struct{}

// NewLedongthucLibrary creates a new ledongthuc library wrapper
func NewLedongthucLibrary() *LedongthucLibrary {
	return &LedongthucLibrary{}
}

// OpenFile opens a PDF from a file path
func (l *LedongthucLibrary) OpenFile(path string) (PDFDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open file: %w", err),
		}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to stat file: %w", err),
		}
	}

	return openReader(f, info.Size())
}

// fileHandle is the part of *os.File the reader and the document need
type fileHandle interface {
	io.ReaderAt
	io.Closer
}

// openReader parses f and takes ownership of it. f is closed when parsing
// fails, including when the parser panics on a malformed trailer.
func openReader(f fileHandle, size int64) (doc PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			f.Close()
			doc = nil
			err = &WrapperError{Library: LibraryLedongthuc, Op: "open_file", Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		f.Close()
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}

	return &LedongthucDocument{
		reader: reader,
		file:   f,
	}, nil
}

// GetLibraryType returns the library type
func (l *LedongthucLibrary) GetLibraryType() LibraryType {
	return LibraryLedongthuc
}

// GetVersion returns the ledongthuc/pdf version
func (l *LedongthucLibrary) GetVersion() string {
	return "ledongthuc/pdf-v0.0.0-20250511090121"
}

// LedongthucDocument implements PDFDocument using ledongthuc/pdf
type LedongthucDocument struct {
	reader *pdf.Reader
	file   fileHandle
	closed bool
}

// GetPageCount returns the number of pages in the document
func (d *LedongthucDocument) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryLedongthuc, Op: "get_page_count", Err: ErrDocumentClosed}
	}
	return d.reader.NumPage(), nil
}

// ExtractText strips the text of all pages, one page per line block
func (d *LedongthucDocument) ExtractText() (string, error) {
	if d.closed {
		return "", &WrapperError{Library: LibraryLedongthuc, Op: "extract_text", Err: ErrDocumentClosed}
	}

	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, d.reader.NumPage())

	for pageNum := 1; pageNum <= d.reader.NumPage(); pageNum++ {
		text, err := d.pageText(pageNum, fonts)
		if err != nil {
			return "", &WrapperError{
				Library: LibraryLedongthuc,
				Op:      "extract_text",
				Err:     fmt.Errorf("page %d: %w", pageNum, err),
			}
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

// pageText extracts plain text from a single page, sharing decoded fonts
// across pages
func (d *LedongthucDocument) pageText(pageNum int, fonts map[string]*pdf.Font) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("text extraction panic: %v", r)
		}
	}()

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	for _, name := range page.Fonts() {
		if _, ok := fonts[name]; !ok {
			font := page.Font(name)
			fonts[name] = &font
		}
	}

	return page.GetPlainText(fonts)
}

// PageHasImage scans the page's /XObject resources for an /Image subtype
func (d *LedongthucDocument) PageHasImage(pageNum int) (found bool, err error) {
	if d.closed {
		return false, &WrapperError{Library: LibraryLedongthuc, Op: "page_has_image", Err: ErrDocumentClosed}
	}
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return false, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "page_has_image",
			Err:     fmt.Errorf("%w: %d (document has %d pages)", ErrInvalidPage, pageNum, d.reader.NumPage()),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			found = false
			err = &WrapperError{Library: LibraryLedongthuc, Op: "page_has_image", Err: fmt.Errorf("resource scan panic: %v", r)}
		}
	}()

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return false, nil
	}

	// Page.Resources follows the /Parent chain for inherited resources
	xObjects := page.Resources().Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return false, nil
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		if obj.Key("Subtype").Name() == "Image" {
			return true, nil
		}
	}

	return false, nil
}

// Close closes the document and the underlying file
func (d *LedongthucDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
