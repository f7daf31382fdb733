package pdf

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cangvel/pdf-analyser/internal/pdf/wrapper"
)

const (
	opReadText     = "read_text_content"
	opSummary      = "get_document_summary"
	opMatchKeyword = "match_keywords"
)

// ContentAnalyser is the set of operations offered for a single file
type ContentAnalyser interface {
	ValidateFile(path string) error
	ReadTextContent(path string) (string, error)
	NormalizeToWords(text string) StringSet
	IntersectKeywords(keywords, words StringSet) StringSet
	GetDocumentSummary(path string) (*DocumentSummary, error)
	MatchKeywords(path string, keywords StringSet) (*KeywordMatchResult, error)
	AllowedExtensions() []string
}

// AnalyserConfig configures an Analyser
type AnalyserConfig struct {
	// AllowedExtensions defaults to DefaultAllowedExtensions when empty
	AllowedExtensions []string

	// Opener loads documents; defaults to a PDFLibraryFactory picking libraries per operation
	Opener wrapper.Opener

	Logger *zap.Logger
}

// Analyser extracts text, vocabulary and structural facts from PDF files.
// It holds no per-call state and is safe for concurrent use.
type Analyser struct {
	validator *ExtensionValidator
	opener    wrapper.Opener
	logger    *zap.Logger
}

var _ ContentAnalyser = (*Analyser)(nil)

// NewAnalyser creates a new analyser
func NewAnalyser(cfg AnalyserConfig) *Analyser {
	allowed := cfg.AllowedExtensions
	if len(allowed) == 0 {
		allowed = DefaultAllowedExtensions
	}

	opener := cfg.Opener
	if opener == nil {
		opener = wrapper.NewPDFLibraryFactory()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyser{
		validator: NewExtensionValidator(allowed...),
		opener:    opener,
		logger:    logger.Named("analyser"),
	}
}

// ValidateFile checks the file name against the allow-list without touching the file
func (a *Analyser) ValidateFile(path string) error {
	return a.validator.Validate(path)
}

// AllowedExtensions returns the configured allow-list
func (a *Analyser) AllowedExtensions() []string {
	return a.validator.Allowed()
}

// ReadTextContent returns the text of all pages in document order
func (a *Analyser) ReadTextContent(path string) (string, error) {
	if err := a.validator.Validate(path); err != nil {
		return "", err
	}

	doc, err := a.opener.Open(wrapper.OperationTextExtraction, path)
	if err != nil {
		a.logger.Error("failed to load PDF", zap.String("path", path), zap.Error(err))
		return "", newAnalysisError(ErrReadFailure, opReadText, path, err)
	}
	defer a.closeDocument(doc, path)

	text, err := doc.ExtractText()
	if err != nil {
		a.logger.Error("failed to strip PDF text", zap.String("path", path), zap.Error(err))
		return "", newAnalysisError(ErrExtractFailure, opReadText, path, err)
	}

	return text, nil
}

// NormalizeToWords derives the word set of text
func (a *Analyser) NormalizeToWords(text string) StringSet {
	return NormalizeToWords(text)
}

// IntersectKeywords returns the words that are also keywords
func (a *Analyser) IntersectKeywords(keywords, words StringSet) StringSet {
	return IntersectKeywords(keywords, words)
}

// GetDocumentSummary reports the file size and whether any page carries an
// image. Parse failures do not fail the call: they leave HasImage false and
// mark the summary as degraded.
func (a *Analyser) GetDocumentSummary(path string) (*DocumentSummary, error) {
	if err := a.validator.Validate(path); err != nil {
		return nil, err
	}

	summary := &DocumentSummary{Path: path}

	if info, err := os.Stat(path); err == nil {
		summary.SizeBytes = info.Size()
	} else {
		a.logger.Warn("cannot stat file", zap.String("path", path), zap.Error(err))
	}

	hasImage, scanErr := a.detectImage(path)
	summary.HasImage = hasImage
	if scanErr != nil {
		a.logger.Error("image detection degraded", zap.String("op", opSummary),
			zap.String("path", path), zap.Error(scanErr))
		summary.Degraded = true
		summary.DegradedReason = scanErr.Error()
	}

	return summary, nil
}

// detectImage scans pages in order and stops at the first page holding an
// image. A page that fails to scan is skipped; its error is returned
// alongside the result unless a later page settles the answer.
func (a *Analyser) detectImage(path string) (bool, error) {
	doc, err := a.opener.Open(wrapper.OperationImageDetection, path)
	if err != nil {
		return false, err
	}
	defer a.closeDocument(doc, path)

	pages, err := doc.GetPageCount()
	if err != nil {
		return false, err
	}

	var pageErr error
	for pageNum := 1; pageNum <= pages; pageNum++ {
		found, err := doc.PageHasImage(pageNum)
		if err != nil {
			a.logger.Warn("cannot scan page resources",
				zap.String("path", path), zap.Int("page", pageNum), zap.Error(err))
			if pageErr == nil {
				pageErr = fmt.Errorf("page %d: %w", pageNum, err)
			}
			continue
		}
		if found {
			return true, nil
		}
	}

	return false, pageErr
}

// MatchKeywords reads the file and intersects its vocabulary with keywords
func (a *Analyser) MatchKeywords(path string, keywords StringSet) (*KeywordMatchResult, error) {
	text, err := a.ReadTextContent(path)
	if err != nil {
		return nil, err
	}

	words := NormalizeToWords(text)
	a.logger.Debug("matched keywords", zap.String("op", opMatchKeyword),
		zap.String("path", path), zap.Int("words", words.Len()), zap.Int("keywords", keywords.Len()))

	return &KeywordMatchResult{
		Path:      path,
		Keywords:  keywords,
		Matches:   IntersectKeywords(keywords, words),
		WordCount: words.Len(),
	}, nil
}

func (a *Analyser) closeDocument(doc wrapper.PDFDocument, path string) {
	if err := doc.Close(); err != nil {
		a.logger.Warn("failed to close PDF", zap.String("path", path), zap.Error(err))
	}
}
