package pdf

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// StringSet is an unordered set of strings. Word sets and keyword sets are both StringSets.
type StringSet map[string]struct{}

// NewStringSet creates a set holding items, duplicates collapsed
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add inserts item into the set
func (s StringSet) Add(item string) {
	s[item] = struct{}{}
}

// Contains reports whether item is a member
func (s StringSet) Contains(item string) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of members
func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

var (
	wordPattern = regexp.MustCompile(`^[a-z]+$`)

	// escape characters separate words the same way a space does
	escapeReplacer = strings.NewReplacer("\r", " ", "\t", " ", "\n", " ")
)

// NormalizeToWords derives the lower-case alphabetic vocabulary of text:
// escape characters become spaces, the text is split on single spaces, each
// token is lower-cased and stripped of punctuation, and only tokens made of
// a-z letters are kept
func NormalizeToWords(text string) StringSet {
	trimmed := strings.TrimSpace(escapeReplacer.Replace(text))

	tokens := NewStringSet(strings.Split(trimmed, " ")...)

	words := make(StringSet, len(tokens))
	for token := range tokens {
		word := stripPunctuation(strings.ToLower(token))
		if wordPattern.MatchString(word) {
			words.Add(word)
		}
	}

	return words
}

// stripPunctuation removes every character of the Unicode punctuation class
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}

// IntersectKeywords returns the words that are also keywords. The smaller set
// is iterated; the result does not depend on which one that is.
func IntersectKeywords(keywords, words StringSet) StringSet {
	small, large := words, keywords
	if len(keywords) < len(words) {
		small, large = keywords, words
	}

	out := make(StringSet)
	for item := range small {
		if large.Contains(item) {
			out.Add(item)
		}
	}
	return out
}
