// Package deploy commits the working tree and pushes it to the configured
// remote branch.
package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucasnoah/triviabuild/internal/config"
	"github.com/lucasnoah/triviabuild/internal/console"
)

// Log receives text destined for the run's log file.
type Log interface {
	Printf(format string, args ...any)
}

// Stamp identifies the run in commit messages.
type Stamp struct {
	Timestamp string
	RunID     string
}

// Deployer stages, commits and pushes a repository.
type Deployer struct {
	root  string
	cfg   config.Deploy
	git   GitRunner
	out   *console.Printer
	log   Log
	stamp Stamp
}

// New creates a Deployer for the repository at root.
func New(root string, cfg config.Deploy, git GitRunner, out *console.Printer, log Log, stamp Stamp) *Deployer {
	return &Deployer{root: root, cfg: cfg, git: git, out: out, log: log, stamp: stamp}
}

// CommitMessage appends the run trailer to message.
func CommitMessage(message string, stamp Stamp) string {
	msg := fmt.Sprintf("%s\n\nGenerated: %s", message, stamp.Timestamp)
	if stamp.RunID != "" {
		msg += "\nRun-Id: " + stamp.RunID
	}
	return msg
}

// Deploy commits all changes with message and pushes them. A clean working
// tree is a successful no-op.
func (d *Deployer) Deploy(ctx context.Context, message string) error {
	d.out.Header("GIT COMMIT & PUSH")
	d.log.Printf("GIT COMMIT & PUSH")

	status, err := d.git.Run(ctx, d.root, "status", "--porcelain")
	if err != nil {
		return d.failed(err)
	}
	if strings.TrimSpace(status) == "" {
		d.out.Info("No changes to commit")
		d.log.Printf("No changes to commit")
		return nil
	}

	if _, err := d.git.Run(ctx, d.root, "add", "-A"); err != nil {
		return d.failed(err)
	}
	d.out.Success("Files staged")

	if _, err := d.git.Run(ctx, d.root, "commit", "-m", CommitMessage(message, d.stamp)); err != nil {
		return d.failed(err)
	}
	d.out.Success("Committed: %s", message)
	d.log.Printf("Committed: %s", message)

	target := d.cfg.Remote + "/" + d.cfg.Branch
	d.out.Info("Pushing to %s...", target)
	if _, err := d.git.Run(ctx, d.root, "push", d.cfg.Remote, d.cfg.Branch); err != nil {
		d.out.Error("Push failed: %v", err)
		d.log.Printf("Push failed: %v", err)
		return fmt.Errorf("push failed: %w", err)
	}
	d.out.Success("Pushed to %s", target)
	d.log.Printf("Pushed to %s", target)
	return nil
}

func (d *Deployer) failed(err error) error {
	d.out.Error("Git operation failed: %v", err)
	d.log.Printf("Git operation failed: %v", err)
	return fmt.Errorf("git operation failed: %w", err)
}
