// Package editor shells out to the user's text editor for interactive
// edits of a metadata document.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrEditorFailed is returned when the editor process exits non-zero or
// cannot be started.
var ErrEditorFailed = errors.New("editor failed")

// Open writes content to a temporary file matching pattern, launches
// editorCmd on it with the terminal attached, and returns the file's
// contents after the editor exits. The temporary file is removed before
// returning.
func Open(ctx context.Context, editorCmd string, content []byte, pattern string) ([]byte, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("editor: create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(content); err != nil {
		f.Close()
		return nil, fmt.Errorf("editor: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("editor: close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, editorCmd, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEditorFailed, editorCmd, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("editor: read edited file: %w", err)
	}
	return edited, nil
}
