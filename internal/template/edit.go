package template

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// EditDocument is the reduced projection of a record that is exposed to
// the user's editor: just the fields that are safe to hand-edit. Size,
// timestamps and ignore patterns are deliberately left out and survive
// an edit unchanged.
type EditDocument struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Commands    []string `toml:"commands"`
}

// NewEditDocument projects a record into its editable form.
func NewEditDocument(rec Record) EditDocument {
	return EditDocument{
		Name:        rec.Name,
		Description: rec.Description,
		Commands:    rec.Commands,
	}
}

// Marshal renders the document as TOML for the editor round-trip.
func (d EditDocument) Marshal() ([]byte, error) {
	data, err := toml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal edit document: %w", err)
	}
	return data, nil
}

// ParseEditDocument parses the editor's output back into a document.
func ParseEditDocument(data []byte) (EditDocument, error) {
	var d EditDocument
	if err := toml.Unmarshal(data, &d); err != nil {
		return EditDocument{}, fmt.Errorf("parse edited template: %w", err)
	}
	return d, nil
}

// Apply overlays the edited fields onto the original record. Only
// name, description and commands change; everything else is preserved.
func (d EditDocument) Apply(orig Record) Record {
	updated := orig
	updated.Name = d.Name
	updated.Description = d.Description
	updated.Commands = d.Commands
	return updated
}
