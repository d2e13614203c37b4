// Package shell runs commands as child processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option configures an Executor.
type Option func(*Executor)

// WithPTY runs commands attached to a pseudo-terminal so tools keep their
// colors and progress output. Stdout and stderr are merged into stdout.
func WithPTY(enabled bool) Option {
	return func(e *Executor) {
		e.pty = enabled
	}
}

// Executor implements ports.Executor using os/exec, optionally through a PTY.
type Executor struct {
	logger ports.Logger
	pty    bool
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger, opts ...Option) *Executor {
	e := &Executor{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs cmd and waits for it to complete.
// Nil writers are replaced by writers logging each line.
func (e *Executor) Execute(
	ctx context.Context,
	cmd domain.Command,
	env []string,
	stdout, stderr io.Writer,
) error {
	if cmd.IsZero() {
		return domain.ErrEmptyCommand
	}

	if stdout == nil {
		w := &logWriter{logger: e.logger, level: levelInfo}
		defer func() { _ = w.Close() }()
		stdout = w
	}
	if stderr == nil {
		w := &logWriter{logger: e.logger, level: levelError}
		defer func() { _ = w.Close() }()
		stderr = w
	}

	c := command(ctx, cmd, env)

	var err error
	if e.pty {
		err = runPTY(c, stdout)
	} else {
		c.Stdout = stdout
		c.Stderr = stderr
		err = c.Run()
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		failed := zerr.With(errors.Join(domain.ErrCommandFailed, err), "exit_code", exitCode)
		return zerr.With(failed, "command", cmd.String())
	}
	return nil
}

// command builds the exec.Cmd, resolving the executable against the final PATH.
func command(ctx context.Context, cmd domain.Command, env []string) *exec.Cmd {
	cmdEnv := resolveEnvironment(os.Environ(), env, cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // configured command
	c.Args[0] = cmd.Name
	c.Env = cmdEnv
	return c
}

// runPTY starts c on a pseudo-terminal and copies its output to w until it exits.
func runPTY(c *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Reading fails with EIO once the child exits and the slave side closes.
		_, _ = io.Copy(w, ptmx)
	}()

	err = c.Wait()
	wg.Wait()
	_ = ptmx.Close()
	return err
}

// resolveEnvironment layers env and then cmdEnv over the system environment.
// The result is sorted by key.
func resolveEnvironment(sysEnv, env []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(env)+len(cmdEnv))
	for _, layer := range [][]string{sysEnv, env} {
		for _, entry := range layer {
			if k, v, ok := strings.Cut(entry, "="); ok {
				envMap[k] = v
			}
		}
	}
	maps.Copy(envMap, cmdEnv)

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

const (
	levelInfo  = "info"
	levelError = "error"
)

// logWriter sends complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close logs any trailing partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs terminate lines with \r\n.
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == levelInfo {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}
