package store

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/blockstime/internal/model"

	"gopkg.in/yaml.v3"
)

// Format is an export document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// exportDoc is the export envelope. The snapshot itself stays a bare array;
// exports carry the budget so a reader can sanity-check them.
type exportDoc struct {
	TotalHours float64          `json:"total_hours" yaml:"total_hours"`
	Categories []model.Category `json:"categories" yaml:"categories"`
}

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Export writes cats to w.
func Export(w io.Writer, cats []model.Category, f Format) error {
	doc := exportDoc{TotalHours: model.TotalHours, Categories: cats}
	if doc.Categories == nil {
		doc.Categories = []model.Category{}
	}

	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Import reads categories from r. A bare snapshot array is accepted too.
func Import(r io.Reader, f Format) ([]model.Category, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	var doc exportDoc
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			var bare []model.Category
			if yaml.Unmarshal(data, &bare) != nil {
				return nil, fmt.Errorf("parsing yaml: %w", err)
			}
			doc.Categories = bare
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			bare, bareErr := DecodeSnapshot(data)
			if bareErr != nil {
				return nil, fmt.Errorf("parsing json: %w", err)
			}
			doc.Categories = bare
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}

	if doc.TotalHours != 0 && doc.TotalHours != model.TotalHours {
		return nil, fmt.Errorf("import targets a %.0fh budget, want %.0fh", doc.TotalHours, model.TotalHours)
	}
	return doc.Categories, nil
}
