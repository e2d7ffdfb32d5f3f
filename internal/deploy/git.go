package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lucasnoah/triviabuild/internal/proc"
)

// GitRunner provides git commands. Interface for testing.
type GitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecGit implements GitRunner on top of a proc.Runner.
type ExecGit struct {
	Cmd     proc.Runner
	Timeout time.Duration
}

// Run executes git and returns its trimmed stdout. A non-zero exit becomes
// an error carrying git's own message.
func (g *ExecGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := g.Cmd.Run(ctx, proc.Command{
		Dir:     dir,
		Name:    "git",
		Args:    args,
		Timeout: g.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	if out.ExitCode != 0 {
		msg := strings.TrimSpace(out.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(out.Stdout)
		}
		return strings.TrimSpace(out.Stdout), fmt.Errorf("git %s: %s: exit status %d", strings.Join(args, " "), msg, out.ExitCode)
	}
	return strings.TrimSpace(out.Stdout), nil
}
