package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// keywordFile is the mapping form of a keyword file:
//
//	keywords:
//	  - invoice
//	  - total
type keywordFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywords reads a YAML keyword file. The file is either a plain
// sequence of strings or a mapping with a "keywords" sequence. Entries are
// returned as written; they are matched against normalized words, so only
// lowercase ASCII entries can ever match.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes keyword file content
func ParseKeywords(data []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	if len(root.Content) == 0 {
		return []string{}, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := doc.Decode(&list); err != nil {
			return nil, fmt.Errorf("parse keywords: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var file keywordFile
		if err := doc.Decode(&file); err != nil {
			return nil, fmt.Errorf("parse keywords: %w", err)
		}
		if file.Keywords == nil {
			return nil, errors.New("parse keywords: mapping has no \"keywords\" list")
		}
		return file.Keywords, nil
	default:
		return nil, errors.New("parse keywords: expected a list or a mapping with a \"keywords\" list")
	}
}
