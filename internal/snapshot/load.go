package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is a snapshot encoding
type Format string

// Snapshot encodings
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads and parses a snapshot file
func Load(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a snapshot document
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that node ids are present and unique
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	var walk func(nodes []RawNode) error
	walk = func(nodes []RawNode) error {
		for _, n := range nodes {
			if n.ID == "" {
				return fmt.Errorf("node %q has no id", n.Name)
			}
			if seen[n.ID] {
				return fmt.Errorf("duplicate node id %q", n.ID)
			}
			seen[n.ID] = true
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(d.Nodes)
}
