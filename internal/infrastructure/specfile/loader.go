// Package specfile loads world specifications from various formats.
package specfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// Parser defines the interface for parsing world specs from various formats.
type Parser interface {
	Parse(r io.Reader) (*entities.WorldSpec, error)
}

// ForFile returns the appropriate parser based on file extension.
// Supported extensions: ".yaml", ".yml", ".json".
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return &YAMLParser{}
	case ".json":
		return &JSONParser{}
	default:
		return nil
	}
}

// YAMLParser parses world specs from YAML.
type YAMLParser struct{}

// Parse implements Parser.
func (p *YAMLParser) Parse(r io.Reader) (*entities.WorldSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}

	var spec entities.WorldSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing yaml spec: %w", err)
	}
	return &spec, nil
}

// JSONParser parses world specs from JSON.
type JSONParser struct{}

// Parse implements Parser.
func (p *JSONParser) Parse(r io.Reader) (*entities.WorldSpec, error) {
	var spec entities.WorldSpec
	if err := json.NewDecoder(r).Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing json spec: %w", err)
	}
	return &spec, nil
}

// Load reads and validates a world spec, picking the parser from the file
// extension.
func Load(path string) (*entities.WorldSpec, error) {
	parser := ForFile(path)
	if parser == nil {
		return nil, fmt.Errorf("unsupported spec format %q (want .yaml, .yml, or .json)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	defer f.Close()

	spec, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing spec file %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("validating spec file %s: %w", path, err)
	}

	return spec, nil
}
