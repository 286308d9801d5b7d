// Package template defines the template record model, the optional
// declarative definition document, and the merge policy that combines
// CLI inputs with a definition when a template is created.
package template

import (
	"path/filepath"
	"time"
)

// Record is the persisted metadata for one template. Records are keyed
// by Name in the store; the archive artifact for a record lives at a
// path derived from the same name.
type Record struct {
	Name           string
	Description    string
	Commands       []string
	Ignore         []string
	CompressedSize int64
	Created        time.Time
	Used           *time.Time // nil until the template is first expanded
}

// Fields carries the create-time inputs supplied on the command line.
// Empty fields fall back to the definition document, then to defaults.
type Fields struct {
	Name        string
	Description string
	Commands    []string
	Ignore      []string
}

// Merge resolves the final record fields for Create. Precedence per
// field: CLI value when non-empty, else the definition value, else a
// default. The default name is the source directory's base name;
// description defaults to empty and the lists default to nil.
func Merge(cli Fields, def *Definition, sourceDir string) Record {
	rec := Record{
		Name:        cli.Name,
		Description: cli.Description,
		Commands:    cli.Commands,
		Ignore:      cli.Ignore,
	}

	if def != nil {
		if rec.Name == "" {
			rec.Name = def.Name
		}
		if rec.Description == "" {
			rec.Description = def.Description
		}
		if len(rec.Commands) == 0 {
			rec.Commands = def.Commands
		}
		if len(rec.Ignore) == 0 {
			rec.Ignore = def.Ignore
		}
	}

	if rec.Name == "" {
		rec.Name = filepath.Base(filepath.Clean(sourceDir))
	}

	return rec
}
