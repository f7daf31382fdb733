package pdf

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "punctuation case and digits",
			text: "Hello, WORLD!\nfoo123 bar",
			want: []string{"bar", "hello", "world"},
		},
		{
			name: "duplicates collapse",
			text: "cat Cat CAT cat.",
			want: []string{"cat"},
		},
		{
			name: "carriage returns and tabs separate words",
			text: "alpha\r\nbeta\tgamma",
			want: []string{"alpha", "beta", "gamma"},
		},
		{
			name: "inner punctuation is stripped",
			text: "don't e-mail co-operate",
			want: []string{"cooperate", "dont", "email"},
		},
		{
			name: "symbols are not punctuation",
			text: "a+b 50% x=y",
			want: []string{},
		},
		{
			name: "non ascii letters are dropped",
			text: "café naïve plain",
			want: []string{"plain"},
		},
		{
			name: "runs of spaces",
			text: "  one   two  ",
			want: []string{"one", "two"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "only punctuation",
			text: "... !!! ---",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeToWords(tt.text)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

// The source this behaviour comes from dropped its carriage-return and tab
// replacements; here all three escape characters act as separators.
func TestNormalizeToWords_EscapeCharactersAreSeparators(t *testing.T) {
	words := NormalizeToWords("first\rsecond\tthird\nfourth")
	assert.Equal(t, []string{"first", "fourth", "second", "third"}, words.Sorted())
	assert.False(t, words.Contains("firstsecond"))
}

func TestNormalizeToWords_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, WORLD!\nfoo123 bar",
		"The quick (brown) fox; jumps over the lazy dog's back.",
		"\tTabs\tand\r\nCRLF line endings\n",
		"",
	}

	for _, input := range inputs {
		once := NormalizeToWords(input)
		twice := NormalizeToWords(strings.Join(once.Sorted(), " "))
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestIntersectKeywords(t *testing.T) {
	keywords := NewStringSet("cat", "dog")
	words := NewStringSet("cat", "bird", "dog")

	got := IntersectKeywords(keywords, words)
	assert.Equal(t, []string{"cat", "dog"}, got.Sorted())

	// symmetric as a set operation
	assert.Equal(t, got, IntersectKeywords(words, keywords))
}

func TestIntersectKeywords_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		keywords StringSet
		words    StringSet
		want     []string
	}{
		{
			name:     "keywords are not normalized",
			keywords: NewStringSet("Cat", "dog!"),
			words:    NewStringSet("cat", "dog"),
			want:     []string{},
		},
		{
			name:     "empty keywords",
			keywords: NewStringSet(),
			words:    NewStringSet("cat"),
			want:     []string{},
		},
		{
			name:     "nil words",
			keywords: NewStringSet("cat"),
			words:    nil,
			want:     []string{},
		},
		{
			name:     "larger keyword side",
			keywords: NewStringSet("a", "b", "c", "d", "e"),
			words:    NewStringSet("e", "z"),
			want:     []string{"e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntersectKeywords(tt.keywords, tt.words).Sorted())
		})
	}
}

func TestStringSet(t *testing.T) {
	set := NewStringSet("b", "a", "b")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("a"))
	assert.False(t, set.Contains("c"))

	set.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, set.Sorted())

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, string(data))
}
