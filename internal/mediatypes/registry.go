package mediatypes

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"grantos/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry classifies file extensions into asset types
type Registry struct {
	byExtension map[string]models.AssetType
}

type typesFile struct {
	Types []typeEntry `yaml:"types"`
}

type typeEntry struct {
	Type       string   `yaml:"type"`
	Extensions []string `yaml:"extensions"`
}

// NewRegistry loads the embedded extension classification
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/types.yaml")
	if err != nil {
		return nil, fmt.Errorf("read types.yaml: %w", err)
	}

	var file typesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal types.yaml: %w", err)
	}

	r := &Registry{byExtension: make(map[string]models.AssetType)}
	for _, entry := range file.Types {
		for _, ext := range entry.Extensions {
			r.byExtension[strings.ToLower(ext)] = models.AssetType(entry.Type)
		}
	}

	return r, nil
}

// Classify returns the asset type for a file extension (with leading dot,
// case-insensitive). The second return is false for unrecognized
// extensions, which scanners skip.
func (r *Registry) Classify(ext string) (models.AssetType, bool) {
	t, ok := r.byExtension[strings.ToLower(ext)]
	return t, ok
}

// Extensions returns the recognized extensions, for logging
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	return exts
}
