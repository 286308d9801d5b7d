package ignore

import (
	"errors"
	"testing"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("empty pattern set matches nothing", func(t *testing.T) {
		t.Parallel()
		f, err := Compile(nil)
		if err != nil {
			t.Fatalf("Compile(nil): %v", err)
		}
		if f.Match("anything") {
			t.Error("empty filter matched a path")
		}
	})

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Compile([]string{"ok.txt", "[unclosed"})
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("err = %v, want ErrInvalidPattern", err)
		}
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"exact file", []string{"src/main.rs"}, "src/main.rs", true},
		{"single star within segment", []string{"*.log"}, "debug.log", true},
		{"single star does not cross separators", []string{"*.log"}, "logs/debug.log", false},
		{"doublestar directory exclusion", []string{"**/target/**"}, "proj/target/debug/app", true},
		{"doublestar misses sibling", []string{"**/target/**"}, "proj/src/lib.rs", false},
		{"case-insensitive pattern", []string{"**/README.md"}, "docs/readme.MD", true},
		{"case-insensitive path", []string{"**/node_modules/**"}, "web/NODE_MODULES/pkg/index.js", true},
		{"full path matching not basename", []string{"build"}, "proj/build", false},
		{"any of several patterns", []string{"*.tmp", "**/.git/**"}, "repo/.git/HEAD", true},
		{"question mark wildcard", []string{"file?.txt"}, "file1.txt", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := Compile(tt.patterns)
			if err != nil {
				t.Fatalf("Compile(%v): %v", tt.patterns, err)
			}
			if got := f.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNilFilter(t *testing.T) {
	t.Parallel()
	var f *Filter
	if f.Match("x") {
		t.Error("nil filter matched a path")
	}
	if f.Len() != 0 {
		t.Errorf("nil filter Len = %d, want 0", f.Len())
	}
}
