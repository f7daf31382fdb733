package wrapper

import (
	"fmt"
)

// PDFLibraryFactory creates PDF library instances and opens documents with
// the library chosen for each operation
type PDFLibraryFactory struct {
	config FactoryConfig
}

// FactoryConfig contains configuration options for the factory
type FactoryConfig struct {
	// TextLibrary is used for text extraction; LibraryAuto picks per operation
	TextLibrary LibraryType `json:"text_library"`

	// ImageLibrary is used for image detection; LibraryAuto picks per operation
	ImageLibrary LibraryType `json:"image_library"`
}

// NewPDFLibraryFactory creates a new factory with default configuration
func NewPDFLibraryFactory() *PDFLibraryFactory {
	return &PDFLibraryFactory{
		config: FactoryConfig{
			TextLibrary:  LibraryAuto,
			ImageLibrary: LibraryAuto,
		},
	}
}

// NewPDFLibraryFactoryWithConfig creates a factory with custom configuration
func NewPDFLibraryFactoryWithConfig(config FactoryConfig) (*PDFLibraryFactory, error) {
	f := &PDFLibraryFactory{config: config}
	if f.config.TextLibrary == "" {
		f.config.TextLibrary = LibraryAuto
	}
	if f.config.ImageLibrary == "" {
		f.config.ImageLibrary = LibraryAuto
	}

	if err := f.ValidateLibraryType(f.config.TextLibrary); err != nil {
		return nil, err
	}
	if err := f.ValidateLibraryType(f.config.ImageLibrary); err != nil {
		return nil, err
	}
	// pdfcpu has no text stripper
	if f.config.TextLibrary == LibraryPDFCPU {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "factory",
			Err:     fmt.Errorf("%w: text extraction", ErrUnsupported),
		}
	}

	return f, nil
}

// Create instantiates a PDF library of the specified type
func (f *PDFLibraryFactory) Create(libType LibraryType) (PDFLibrary, error) {
	switch libType {
	case LibraryPDFCPU:
		return NewPDFCPULibrary(), nil
	case LibraryLedongthuc:
		return NewLedongthucLibrary(), nil
	default:
		return nil, &WrapperError{
			Library: libType,
			Op:      "create",
			Err:     fmt.Errorf("%w: %s", ErrUnsupportedLibrary, libType),
		}
	}
}

// CreateForOperation creates the library configured or best suited for an operation
func (f *PDFLibraryFactory) CreateForOperation(operation OperationType) (PDFLibrary, error) {
	return f.Create(f.LibraryForOperation(operation))
}

// Open implements Opener
func (f *PDFLibraryFactory) Open(operation OperationType, path string) (PDFDocument, error) {
	lib, err := f.CreateForOperation(operation)
	if err != nil {
		return nil, err
	}
	return lib.OpenFile(path)
}

// LibraryForOperation resolves the library type used for an operation
func (f *PDFLibraryFactory) LibraryForOperation(operation OperationType) LibraryType {
	var configured LibraryType
	switch operation {
	case OperationTextExtraction:
		configured = f.config.TextLibrary
	case OperationImageDetection:
		configured = f.config.ImageLibrary
	}

	if configured != "" && configured != LibraryAuto {
		return configured
	}
	return selectLibraryForOperation(operation)
}

// selectLibraryForOperation chooses the best library for specific operations
func selectLibraryForOperation(operation OperationType) LibraryType {
	switch operation {
	case OperationImageDetection:
		// pdfcpu resolves indirect resources while validating
		return LibraryPDFCPU
	default:
		// ledongthuc is lightweight and good for text
		return LibraryLedongthuc
	}
}

// GetConfig returns the current factory configuration
func (f *PDFLibraryFactory) GetConfig() FactoryConfig {
	return f.config
}

// GetSupportedLibraries returns a list of all supported library types
func (f *PDFLibraryFactory) GetSupportedLibraries() []LibraryType {
	return []LibraryType{
		LibraryPDFCPU,
		LibraryLedongthuc,
		LibraryAuto,
	}
}

// ValidateLibraryType checks if a library type is supported
func (f *PDFLibraryFactory) ValidateLibraryType(libType LibraryType) error {
	for _, supported := range f.GetSupportedLibraries() {
		if libType == supported {
			return nil
		}
	}

	return &WrapperError{
		Library: libType,
		Op:      "validate",
		Err:     fmt.Errorf("%w: %s", ErrUnsupportedLibrary, libType),
	}
}
