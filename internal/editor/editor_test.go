package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeEditor writes a small shell script that appends a line to its
// file argument, standing in for an interactive editor.
func fakeEditor(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-editor.sh")
	script := "#!/bin/sh\necho 'appended by editor' >> \"$1\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake editor: %v", err)
	}
	return path
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the edited content", func(t *testing.T) {
		t.Parallel()
		got, err := Open(ctx, fakeEditor(t), []byte("original line\n"), "edit-*.toml")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		s := string(got)
		if !strings.Contains(s, "original line") {
			t.Errorf("original content lost: %q", s)
		}
		if !strings.Contains(s, "appended by editor") {
			t.Errorf("editor change missing: %q", s)
		}
	})

	t.Run("failing editor", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("requires a POSIX shell")
		}
		_, err := Open(ctx, "false", []byte("content"), "edit-*.toml")
		if !errors.Is(err, ErrEditorFailed) {
			t.Errorf("err = %v, want ErrEditorFailed", err)
		}
	})

	t.Run("missing editor binary", func(t *testing.T) {
		t.Parallel()
		_, err := Open(ctx, "definitely-not-an-editor-binary", []byte{}, "edit-*.toml")
		if !errors.Is(err, ErrEditorFailed) {
			t.Errorf("err = %v, want ErrEditorFailed", err)
		}
	})
}
