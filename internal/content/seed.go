package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed returns the default content used on first run.
func Seed() (Document, error) {
	return decodeSeed(seedYAML)
}

// LoadSeed reads seed content from a YAML file, falling back to the embedded
// default when path is empty.
func LoadSeed(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Seed()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("content: read seed %s: %w", path, err)
	}
	return decodeSeed(raw)
}

func decodeSeed(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("content: decode seed: %w", err)
	}
	doc.Normalize()
	return doc, nil
}
