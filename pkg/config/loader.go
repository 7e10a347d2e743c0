package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// DocumentLoader reads a configuration document from disk
type DocumentLoader interface {
	// LoadDocument returns the JSON document stored at path
	LoadDocument(path string) (string, error)
}

// documentLoader implements DocumentLoader for JSON, JSONC and YAML files
type documentLoader struct{}

// NewDocumentLoader creates a new DocumentLoader
func NewDocumentLoader() DocumentLoader {
	return &documentLoader{}
}

// LoadDocument reads the file at path. YAML files (.yaml, .yml) are converted
// to JSON; everything else is returned as is and left to Parse.
func (*documentLoader) LoadDocument(path string) (string, error) {
	// #nosec G304 -- path is provided by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return "", fmt.Errorf("failed to convert YAML config to JSON: %w", err)
		}
		return string(converted), nil
	default:
		return string(data), nil
	}
}
