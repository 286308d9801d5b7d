// Package templater composes the store, archive codec, glob filter,
// command runner and editor into the template lifecycle: capture a
// directory, expand it elsewhere, inspect it, edit its metadata, and
// delete it.
package templater

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/papapumpkin/stencil/internal/archive"
	"github.com/papapumpkin/stencil/internal/config"
	"github.com/papapumpkin/stencil/internal/editor"
	"github.com/papapumpkin/stencil/internal/ignore"
	"github.com/papapumpkin/stencil/internal/output"
	"github.com/papapumpkin/stencil/internal/runner"
	"github.com/papapumpkin/stencil/internal/store"
	"github.com/papapumpkin/stencil/internal/template"
	"github.com/papapumpkin/stencil/internal/tree"
)

// Manager owns the template library: the metadata store plus the
// archive artifacts under one data root.
type Manager struct {
	store     *store.Store
	paths     Paths
	editorCmd string
}

// New opens the library under cfg.DataDir, creating the layout on
// first use.
func New(ctx context.Context, cfg config.Config) (*Manager, error) {
	paths := Paths{Root: cfg.DataDir}
	if err := os.MkdirAll(paths.ArchivesDir(), 0o755); err != nil {
		return nil, fmt.Errorf("templater: create data directory: %w", err)
	}

	st, err := store.New(ctx, paths.Database())
	if err != nil {
		return nil, err
	}

	return &Manager{
		store:     st,
		paths:     paths,
		editorCmd: cfg.ResolveEditor(),
	}, nil
}

// Close releases the metadata store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Create captures sourceDir as a new template. CLI fields win over the
// optional definition document; the template name defaults to the
// source directory's base name. The archive artifact is written before
// the record so a crash never leaves a record without its payload.
func (m *Manager) Create(ctx context.Context, sourceDir string, fields template.Fields, definitionPath string, force bool) (template.Record, error) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return template.Record{}, fmt.Errorf("%w: %s is not a directory", template.ErrInvalidTemplateDir, sourceDir)
	}

	var def *template.Definition
	if definitionPath != "" {
		def, err = template.LoadDefinition(definitionPath)
		if err != nil {
			output.Warn("ignoring unusable definition file", "path", definitionPath, "error", err)
			def = nil
		}
	}

	rec := template.Merge(fields, def, sourceDir)

	if !force {
		exists, err := m.store.Has(ctx, rec.Name)
		if err != nil {
			return template.Record{}, err
		}
		if exists {
			return template.Record{}, fmt.Errorf("%w: %q (use force to overwrite)", template.ErrTemplateExists, rec.Name)
		}
	}

	filter, err := ignore.Compile(rec.Ignore)
	if err != nil {
		return template.Record{}, err
	}

	artifact := m.paths.Archive(rec.Name)
	f, err := os.Create(artifact)
	if err != nil {
		return template.Record{}, fmt.Errorf("templater: create archive %s: %w", artifact, err)
	}
	if err := archive.Pack(sourceDir, f, filter); err != nil {
		f.Close()
		os.Remove(artifact)
		return template.Record{}, err
	}
	if err := f.Close(); err != nil {
		os.Remove(artifact)
		return template.Record{}, fmt.Errorf("templater: close archive %s: %w", artifact, err)
	}

	stat, err := os.Stat(artifact)
	if err != nil {
		return template.Record{}, fmt.Errorf("templater: stat archive %s: %w", artifact, err)
	}
	rec.CompressedSize = stat.Size()
	rec.Created = time.Now()

	if err := m.store.Insert(ctx, rec, force); err != nil {
		return template.Record{}, err
	}

	output.Debug("captured template", "name", rec.Name, "artifact", artifact, "bytes", rec.CompressedSize)
	return rec, nil
}

// Expand materializes a template into parentDir/createAs. The usage
// timestamp records the attempt before extraction starts, so failed
// expansions still count as use. Stored commands run inside the new
// directory unless noExec is set.
func (m *Manager) Expand(ctx context.Context, name, parentDir string, envs []string, createAs string, noExec bool) (string, error) {
	rec, err := m.store.Get(ctx, name)
	if err != nil {
		return "", err
	}

	if err := m.store.Touch(ctx, name, time.Now()); err != nil {
		output.Warn("could not record template usage", "name", name, "error", err)
	}

	if parentDir == "" {
		parentDir = "."
	}
	if createAs == "" {
		createAs = rec.Name
	}
	dest := filepath.Join(parentDir, createAs)

	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("%w: destination %s already exists", template.ErrInvalidTemplateDir, dest)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("templater: create destination %s: %w", dest, err)
	}

	f, err := os.Open(m.paths.Archive(name))
	if err != nil {
		return "", fmt.Errorf("templater: open archive for %q: %w", name, err)
	}
	defer f.Close()

	if err := archive.Unpack(f, dest); err != nil {
		return "", err
	}

	if noExec || len(rec.Commands) == 0 {
		return dest, nil
	}

	r := &runner.Runner{Env: runner.ParseEnv(envs)}
	if err := r.Run(ctx, dest, rec.Commands); err != nil {
		return dest, err
	}
	return dest, nil
}

// List returns the stored records, name-ordered. A non-empty filter
// keeps only records whose name contains it.
func (m *Manager) List(ctx context.Context, filter string) ([]template.Record, error) {
	recs, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return recs, nil
	}

	matched := recs[:0]
	for _, rec := range recs {
		if strings.Contains(rec.Name, filter) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// Get returns the record stored under name.
func (m *Manager) Get(ctx context.Context, name string) (template.Record, error) {
	return m.store.Get(ctx, name)
}

// Commands returns the post-expansion command list for a template.
func (m *Manager) Commands(ctx context.Context, name string) ([]string, error) {
	rec, err := m.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return rec.Commands, nil
}

// FileTree renders the template's captured structure without
// extracting it.
func (m *Manager) FileTree(ctx context.Context, name string) (string, error) {
	if _, err := m.store.Get(ctx, name); err != nil {
		return "", err
	}

	f, err := os.Open(m.paths.Archive(name))
	if err != nil {
		return "", fmt.Errorf("templater: open archive for %q: %w", name, err)
	}
	defer f.Close()

	entries, err := archive.List(f)
	if err != nil {
		return "", err
	}

	nodes := make([]tree.Entry, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, tree.Entry{
			Name:  displayName(e.Path),
			Depth: e.Depth,
			Dir:   e.Dir,
		})
	}
	return tree.Render(nodes), nil
}

// displayName reduces an entry path to its base component for the tree
// view; the root keeps its "." marker.
func displayName(p string) string {
	if p == "." {
		return "."
	}
	return path.Base(p)
}

// Delete removes a template's record and artifact. The record is the
// authoritative half; a missing artifact only warns.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := m.store.Remove(ctx, name); err != nil {
		return err
	}

	artifact := m.paths.Archive(name)
	if err := os.Remove(artifact); err != nil {
		if os.IsNotExist(err) {
			output.Warn("archive artifact already missing", "name", name, "path", artifact)
			return nil
		}
		return fmt.Errorf("templater: remove archive %s: %w", artifact, err)
	}

	output.Debug("deleted template", "name", name, "artifact", artifact)
	return nil
}

// Edit opens the template's editable metadata in the user's editor and
// persists the result. Renames re-key the record and move the artifact;
// a failed artifact move is a hard error since the record would
// otherwise point at nothing.
func (m *Manager) Edit(ctx context.Context, name string) (template.Record, error) {
	rec, err := m.store.Get(ctx, name)
	if err != nil {
		return template.Record{}, err
	}

	doc, err := template.NewEditDocument(rec).Marshal()
	if err != nil {
		return template.Record{}, err
	}

	edited, err := editor.Open(ctx, m.editorCmd, doc, "stencil-edit-*.toml")
	if err != nil {
		return template.Record{}, err
	}

	parsed, err := template.ParseEditDocument(edited)
	if err != nil {
		return template.Record{}, err
	}
	if parsed.Name == "" {
		return template.Record{}, fmt.Errorf("%w: template name must not be empty", template.ErrInvalidArgument)
	}

	updated := parsed.Apply(rec)
	if err := m.store.Update(ctx, rec.Name, updated); err != nil {
		return template.Record{}, err
	}

	if updated.Name != rec.Name {
		oldPath := m.paths.Archive(rec.Name)
		newPath := m.paths.Archive(updated.Name)
		if err := os.Rename(oldPath, newPath); err != nil {
			return template.Record{}, fmt.Errorf("templater: move archive %s to %s: %w", oldPath, newPath, err)
		}
		output.Debug("renamed template artifact", "from", oldPath, "to", newPath)
	}

	return updated, nil
}
