// Package proc runs external commands with explicit timeouts and captures
// their output. Every subprocess the tool starts goes through a Runner.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is wrapped by Run when a command exceeds its timeout.
var ErrTimeout = errors.New("timed out")

// waitDelay bounds how long Run waits for grandchildren (Gradle daemons,
// the JVM) that keep the output pipes open after the command was killed.
const waitDelay = 5 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
	// Env entries are appended to the current environment.
	Env []string
	// Timeout of zero means the command may run indefinitely.
	Timeout time.Duration
	// Stdout and Stderr, when set, receive output as it is produced in
	// addition to the captured copy.
	Stdout io.Writer
	Stderr io.Writer
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Output is the captured result of a finished command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Combined returns stdout followed by stderr, separated by a newline.
func (o *Output) Combined() string {
	return o.Stdout + "\n" + o.Stderr
}

// Runner abstracts command execution for testability.
// A non-zero exit is reported through Output.ExitCode, not as an error; the
// error is reserved for commands that could not be started or timed out.
type Runner interface {
	Run(ctx context.Context, c Command) (*Output, error)
}

// ExecRunner implements Runner by shelling out.
type ExecRunner struct {
	Logger *slog.Logger
}

func (e *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = tee(&stdoutBuf, c.Stdout)
	cmd.Stderr = tee(&stderrBuf, c.Stderr)

	e.logger().Debug("exec", "cmd", c.String(), "dir", c.Dir, "timeout", c.Timeout)

	start := time.Now()
	err := cmd.Run()
	out := &Output{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.ExitCode = -1
			e.logger().Debug("exec timed out", "cmd", c.Name, "after", c.Timeout)
			return out, fmt.Errorf("%s: %w after %s", c.Name, ErrTimeout, c.Timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
			return out, fmt.Errorf("exec %s: %w", c.Name, err)
		}
	}

	e.logger().Debug("exec finished", "cmd", c.Name, "exit_code", out.ExitCode, "duration", out.Duration)
	return out, nil
}

func (e *ExecRunner) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

func tee(buf io.Writer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
