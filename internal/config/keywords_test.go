package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{name: "plain list", data: "- invoice\n- total\n", want: []string{"invoice", "total"}},
		{name: "mapping", data: "keywords:\n  - cat\n  - dog\n", want: []string{"cat", "dog"}},
		{name: "flow list", data: "[alpha, beta]", want: []string{"alpha", "beta"}},
		{name: "entries kept as written", data: "- Invoice\n- e-mail\n", want: []string{"Invoice", "e-mail"}},
		{name: "empty document", data: "", want: []string{}},
		{name: "mapping without keywords", data: "words:\n  - cat\n", wantErr: true},
		{name: "scalar", data: "just text", wantErr: true},
		{name: "malformed", data: "keywords: [cat", wantErr: true},
		{name: "nested list", data: "- [cat]\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeywords([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords:\n  - budget\n  - report\n"), 0o644))

	got, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"budget", "report"}, got)

	_, err = LoadKeywords(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
