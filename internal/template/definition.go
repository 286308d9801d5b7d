package template

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Definition is the optional declarative document that can supply
// Create's fields. Every field is optional; unknown keys are ignored.
type Definition struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Commands    []string `toml:"commands"`
	Ignore      []string `toml:"ignore"`
}

// LoadDefinition reads and parses a definition document. A non-nil
// error means the file was present but unusable; the caller decides
// whether that is fatal (Create treats it as "no definition" and logs
// a warning). Absence of a definition is represented by the caller
// never calling LoadDefinition at all, so the two cases stay distinct.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}

	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition file %s: %w", path, err)
	}
	return &def, nil
}
