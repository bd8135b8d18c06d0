// Package adb runs the Android Debug Bridge command-line tool.
package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultPath is the adb executable looked up on PATH.
const DefaultPath = "adb"

// execCommand is swapped out in tests.
var execCommand = exec.CommandContext

// Runner runs one adb subcommand and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Ensure Client implements Runner at compile time.
var _ Runner = (*Client)(nil)

// Client invokes the adb executable.
type Client struct {
	path   string
	logger *zap.Logger
}

// Error reports an adb invocation that could not be started or exited
// non-zero. ExitCode is -1 when the process never ran.
type Error struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	cmdline := "adb " + strings.Join(e.Args, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("adb failure: %s: %v", cmdline, e.Err)
	}
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("adb failure: %s exited with status %d", cmdline, e.ExitCode)
	}
	return fmt.Sprintf("adb failure: %s exited with status %d: %s", cmdline, e.ExitCode, stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// NewClient creates a Client for the given executable. An empty path uses
// DefaultPath; a nil logger disables logging.
func NewClient(path string, logger *zap.Logger) *Client {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{path: path, logger: logger}
}

// Run executes adb with args and waits for it to exit. Stdout is returned as
// UTF-8 (invalid sequences replaced) with trailing whitespace intact. A
// non-zero exit is an *Error even when stdout is non-empty.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := execCommand(ctx, c.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		c.logger.Debug("adb command failed",
			zap.Strings("args", args),
			zap.Int("exit_code", code),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", &Error{
			Args:     append([]string(nil), args...),
			ExitCode: code,
			Stderr:   strings.ToValidUTF8(stderr.String(), "�"),
			Err:      err,
		}
	}

	c.logger.Debug("adb command finished",
		zap.Strings("args", args),
		zap.Duration("elapsed", elapsed),
		zap.Int("stdout_bytes", stdout.Len()))

	return strings.ToValidUTF8(stdout.String(), "�"), nil
}
