// Package runner executes generated scripts with an external interpreter.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harrisonrobin/gantta/pkg/logger"
)

// ErrUnavailable is matched by every failure of the external runtime: missing
// interpreter, crash, timeout or missing output. Callers treat it as an optional feature
// being unavailable, not as a failed render.
var ErrUnavailable = errors.New("feature unavailable")

// UnavailableError describes why the runtime could not produce its output.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrUnavailable, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

const (
	DefaultInterpreter = "python3"
	DefaultTimeout     = 60 * time.Second
	// stderrLimit caps how much of the interpreter's error output ends up in an error.
	stderrLimit = 2048
)

type Runner struct {
	interpreter string
	timeout     time.Duration
	// waitDelay bounds how long Run waits for the process's pipes once it was killed.
	waitDelay time.Duration
	log       *zap.Logger
}

func New(interpreter string, timeout time.Duration, log *zap.Logger) *Runner {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{interpreter: interpreter, timeout: timeout, waitDelay: 2 * time.Second, log: logger.OrNop(log)}
}

func (r *Runner) Interpreter() string { return r.interpreter }

// Run writes script to a scratch directory and runs it as
//
//	<interpreter> <script> <output>
//
// returning the content of output once the script exits successfully.
func (r *Runner) Run(ctx context.Context, script []byte, outputName string) ([]byte, error) {
	bin, err := exec.LookPath(r.interpreter)
	if err != nil {
		return nil, &UnavailableError{Reason: fmt.Sprintf("interpreter %q not found", r.interpreter), Err: err}
	}

	dir, err := os.MkdirTemp("", "gantta-run-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	scriptPath := filepath.Join(dir, "build.script")
	if err := os.WriteFile(scriptPath, script, 0o600); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}
	outPath := filepath.Join(dir, filepath.Base(outputName))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, scriptPath, outPath)
	cmd.Dir = dir
	cmd.WaitDelay = r.waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	r.log.Debug("running script", zap.String("interpreter", bin), zap.String("output", outputName))
	err = cmd.Run()
	r.log.Debug("script finished", zap.Duration("elapsed", time.Since(start)), zap.Error(err))

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &UnavailableError{Reason: fmt.Sprintf("timed out after %s", r.timeout), Err: ctx.Err()}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &UnavailableError{
				Reason: fmt.Sprintf("script failed: exit code %d, stderr: %s", exitErr.ExitCode(), tail(stderr.String())),
				Err:    err,
			}
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run script: %w", ctx.Err())
		}
		return nil, &UnavailableError{Reason: "script could not be started", Err: err}
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, &UnavailableError{Reason: "script produced no output", Err: err}
	}
	return data, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrLimit {
		s = "..." + s[len(s)-stderrLimit:]
	}
	return s
}
