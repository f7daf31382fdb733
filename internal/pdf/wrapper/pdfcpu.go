package wrapper

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func init() {
	// Keep pdfcpu from creating or reading a user config directory
	model.ConfigPath = "disable"
}

// PDFCPULibrary implements PDFLibrary using pdfcpu
type PDFCPULibrary struct{}

// NewPDFCPULibrary creates a new pdfcpu library wrapper
func NewPDFCPULibrary() *PDFCPULibrary {
	return &PDFCPULibrary{}
}

// OpenFile reads and validates the file into an in-memory context
func (p *PDFCPULibrary) OpenFile(path string) (PDFDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open file: %w", err),
		}
	}
	// pdfcpu reads the whole file into its context, the handle is not needed afterwards
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadAndValidate(file, conf)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	return &PDFCPUDocument{ctx: ctx}, nil
}

// GetLibraryType returns the library type
func (p *PDFCPULibrary) GetLibraryType() LibraryType {
	return LibraryPDFCPU
}

// GetVersion returns the pdfcpu version
func (p *PDFCPULibrary) GetVersion() string {
	return "pdfcpu-v0.11.0"
}

// PDFCPUDocument implements PDFDocument using pdfcpu
type PDFCPUDocument struct {
	ctx    *model.Context
	closed bool
}

// GetPageCount returns the number of pages in the document
func (d *PDFCPUDocument) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryPDFCPU, Op: "get_page_count", Err: ErrDocumentClosed}
	}
	return d.ctx.PageCount, nil
}

// ExtractText is not offered: pdfcpu exposes raw content streams only
func (d *PDFCPUDocument) ExtractText() (string, error) {
	return "", &WrapperError{Library: LibraryPDFCPU, Op: "extract_text", Err: ErrUnsupported}
}

// PageHasImage scans the /XObject entries of the page's resources, inherited
// from the page tree when the page has none, for an /Image subtype. Images
// nested inside form XObjects are not counted.
func (d *PDFCPUDocument) PageHasImage(pageNum int) (bool, error) {
	if d.closed {
		return false, &WrapperError{Library: LibraryPDFCPU, Op: "page_has_image", Err: ErrDocumentClosed}
	}
	if pageNum < 1 || pageNum > d.ctx.PageCount {
		return false, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "page_has_image",
			Err:     fmt.Errorf("%w: %d (document has %d pages)", ErrInvalidPage, pageNum, d.ctx.PageCount),
		}
	}

	_, _, inherited, err := d.ctx.PageDict(pageNum, false)
	if err != nil {
		return false, &WrapperError{Library: LibraryPDFCPU, Op: "page_has_image", Err: fmt.Errorf("page %d: %w", pageNum, err)}
	}
	if inherited == nil || inherited.Resources == nil {
		return false, nil
	}

	xObjects, err := d.ctx.DereferenceDict(inherited.Resources["XObject"])
	if err != nil {
		return false, &WrapperError{Library: LibraryPDFCPU, Op: "page_has_image", Err: fmt.Errorf("page %d: %w", pageNum, err)}
	}

	// A broken entry only fails the page when no other entry is an image
	var firstErr error
	for name, obj := range xObjects {
		resolved, err := d.ctx.Dereference(obj)
		if err != nil {
			if firstErr == nil {
				firstErr = &WrapperError{
					Library: LibraryPDFCPU,
					Op:      "page_has_image",
					Err:     fmt.Errorf("page %d xobject %s: %w", pageNum, name, err),
				}
			}
			continue
		}
		sd, ok := resolved.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype := sd.Subtype(); subtype != nil && *subtype == "Image" {
			return true, nil
		}
	}

	return false, firstErr
}

// Close drops the in-memory context
func (d *PDFCPUDocument) Close() error {
	d.closed = true
	d.ctx = nil
	return nil
}
