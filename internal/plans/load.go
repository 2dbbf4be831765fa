package plans

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// Load reads a catalog from a YAML file. An empty path yields the default
// catalog so deployments only need the file when they override limits.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plans: read catalog: %w", err)
	}
	return FromYAML(data)
}

// FromYAML parses a catalog document.
func FromYAML(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("plans: parse catalog: %w", err)
	}
	return New(doc.Tiers)
}
