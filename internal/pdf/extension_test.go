package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{name: "simple", fileName: "report.pdf", want: "pdf"},
		{name: "last dot wins", fileName: "archive.tar.gz", want: "gz"},
		{name: "upper case kept", fileName: "SCAN.PDF", want: "PDF"},
		{name: "no dot", fileName: "README", want: "README"},
		{name: "trailing dot", fileName: "report.", want: ""},
		{name: "dot in directory only", fileName: "/data/v1.2/report", want: "report"},
		{name: "full path", fileName: "/data/in/report.pdf", want: "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.fileName))
		})
	}
}

func TestExtensionValidator_Validate(t *testing.T) {
	validator := NewExtensionValidator("pdf", "PDFA")

	tests := []struct {
		name     string
		fileName string
		wantErr  error
	}{
		{name: "allowed", fileName: "/tmp/report.pdf"},
		{name: "second allowed extension", fileName: "archive.PDFA"},
		{name: "case sensitive", fileName: "report.PDF", wantErr: ErrUnsupportedExtension},
		{name: "other extension", fileName: "notes.txt", wantErr: ErrUnsupportedExtension},
		{name: "no extension", fileName: "pdf", wantErr: nil},
		{name: "no extension and no match", fileName: "Makefile", wantErr: ErrUnsupportedExtension},
		{name: "empty name", fileName: "", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.fileName)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.True(t, validator.IsAllowed(tt.fileName))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, validator.IsAllowed(tt.fileName))
		})
	}
}

func TestExtensionValidator_InvalidInputIsNotUnsupported(t *testing.T) {
	err := NewExtensionValidator("pdf").Validate("")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, errors.Is(err, ErrUnsupportedExtension))
}

func TestExtensionValidator_ErrorDetails(t *testing.T) {
	err := NewExtensionValidator("pdf", "ps").Validate("/tmp/notes.txt")

	var analysisErr *AnalysisError
	if assert.ErrorAs(t, err, &analysisErr) {
		assert.Equal(t, "validate", analysisErr.Op)
		assert.Equal(t, "/tmp/notes.txt", analysisErr.Path)
	}
	assert.Contains(t, err.Error(), `extension "txt" is not one of [pdf, ps]`)
}

func TestExtensionValidator_Allowed(t *testing.T) {
	validator := NewExtensionValidator("pdf", "ai", "pdf")
	assert.Equal(t, []string{"ai", "pdf"}, validator.Allowed())

	empty := NewExtensionValidator()
	assert.Empty(t, empty.Allowed())
	assert.ErrorIs(t, empty.Validate("report.pdf"), ErrUnsupportedExtension)
}
