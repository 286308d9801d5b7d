// Package runner executes a template's post-expansion commands
// sequentially inside the freshly expanded directory.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrCommandFailed is returned when a post-expansion command exits
// non-zero. The remaining commands in the sequence are not run.
var ErrCommandFailed = errors.New("command failed")

// Runner runs command lines one at a time, fail-fast, with optional
// environment overrides applied to every spawned process.
type Runner struct {
	// Env holds key=value pairs appended to the inherited environment.
	Env []string

	// Stdout and Stderr receive command output. Nil values default to
	// the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// ParseEnv normalizes `key=value` override strings. The value may
// itself contain '='; the split happens on the first occurrence only.
// A string without '=' becomes a key with an empty value.
func ParseEnv(pairs []string) []string {
	env := make([]string, 0, len(pairs))
	for _, p := range pairs {
		key, value, _ := strings.Cut(p, "=")
		env = append(env, key+"="+value)
	}
	return env
}

// Run executes each command line in order with the given directory as
// the working directory of the spawned process. The parent process
// directory is never changed. The first non-zero exit aborts the
// sequence with ErrCommandFailed naming the failed command.
func (r *Runner) Run(ctx context.Context, dir string, commands []string) error {
	for _, line := range commands {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd := shellCommand(ctx, fields)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), r.Env...)
		cmd.Stdout = r.stdout()
		cmd.Stderr = r.stderr()

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrCommandFailed, fields[0], err)
		}
	}
	return nil
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// shellCommand builds the platform dispatch for one tokenized command
// line: `cmd /C` on Windows, `sh -c` with the reassembled line
// elsewhere. Tokenization is whitespace-only; there is no quoting
// grammar beyond that.
func shellCommand(ctx context.Context, fields []string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		args := append([]string{"/C"}, fields...)
		return exec.CommandContext(ctx, "cmd", args...)
	}
	return exec.CommandContext(ctx, "sh", "-c", strings.Join(fields, " "))
}
