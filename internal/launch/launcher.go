// Package launch installs a freshly built jar into a local test instance and
// starts the Minecraft client through the Gradle runClient task.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/lucasnoah/triviabuild/internal/build"
	"github.com/lucasnoah/triviabuild/internal/console"
	"github.com/lucasnoah/triviabuild/internal/proc"
)

// ArtifactPattern matches jars of previous builds in the mods directory.
const ArtifactPattern = "trivia*.jar"

const question = "Launch Minecraft test instance with the latest build? [y/N]: "

// ErrWrapperMissing is returned by Launch when the project has no Gradle wrapper.
var ErrWrapperMissing = errors.New("gradle wrapper missing")

// Options configures a Launcher.
type Options struct {
	Root        string
	InstanceDir string
	Username    string
	CacheDir    string
	// Stdout and Stderr receive the client's output while it runs.
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher offers and performs the test-instance launch.
type Launcher struct {
	opts    Options
	cmd     proc.Runner
	confirm Confirmer
	out     *console.Printer
	goos    string
}

// New creates a Launcher.
func New(opts Options, cmd proc.Runner, confirm Confirmer, out *console.Printer) *Launcher {
	return &Launcher{opts: opts, cmd: cmd, confirm: confirm, out: out, goos: runtime.GOOS}
}

// Offer asks for confirmation and launches on yes. Problems are printed and
// never returned: the run has already been reported when Offer is called.
func (l *Launcher) Offer(ctx context.Context, artifact string) {
	ok, err := l.confirm.Confirm(question)
	switch {
	case errors.Is(err, ErrNotInteractive):
		l.out.Info("Skipping Minecraft launch prompt (non-interactive terminal)")
		return
	case err != nil:
		l.out.Warn("Input unavailable; skipping Minecraft launch")
		return
	case !ok:
		l.out.Info("Skipping Minecraft launch")
		return
	}

	if err := l.Launch(ctx, artifact); err != nil && !errors.Is(err, ErrWrapperMissing) {
		l.out.Error("Launch failed: %v", err)
	}
}

// Launch syncs artifact into the instance's mods directory and runs the
// client until it exits. An interrupt (Ctrl+C) stops the client and is
// reported as a warning.
func (l *Launcher) Launch(ctx context.Context, artifact string) error {
	l.out.Header("MINECRAFT TEST INSTANCE")

	mods := filepath.Join(l.opts.InstanceDir, "mods")
	saves := filepath.Join(l.opts.InstanceDir, "saves")
	for _, dir := range []string{mods, saves} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := l.syncArtifact(mods, artifact); err != nil {
		return err
	}

	wrapper := build.WrapperPath(l.opts.Root, l.goos)
	if _, err := os.Stat(wrapper); err != nil {
		l.out.Error("Gradle wrapper missing; cannot launch Minecraft client")
		return ErrWrapperMissing
	}

	l.out.Info("Worlds and configs persist under: %s", l.opts.InstanceDir)
	l.out.Info("Close the Minecraft window to return to the build tool")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out, err := l.cmd.Run(ctx, proc.Command{
		Dir:    l.opts.Root,
		Name:   wrapper,
		Args:   []string{"runClient", "--args=" + ClientArgs(l.opts.InstanceDir, l.opts.Username)},
		Env:    build.CacheEnv(l.opts.Root, l.opts.CacheDir),
		Stdout: l.opts.Stdout,
		Stderr: l.opts.Stderr,
	})
	if ctx.Err() != nil {
		l.out.Warn("Minecraft client interrupted by user")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run client: %w", err)
	}
	if out.ExitCode != 0 {
		l.out.Warn("Minecraft client exited with code %d", out.ExitCode)
	}
	return nil
}

// ClientArgs is the argument string handed to the client through Gradle.
func ClientArgs(instanceDir, username string) string {
	return fmt.Sprintf("--gameDir %q --username %s", instanceDir, username)
}

func (l *Launcher) syncArtifact(mods, artifact string) error {
	if artifact == "" {
		l.out.Warn("No freshly built jar found; dev runtime will still load project classes")
		return nil
	}
	if _, err := os.Stat(artifact); err != nil {
		l.out.Warn("No freshly built jar found; dev runtime will still load project classes")
		return nil
	}

	stale, _ := filepath.Glob(filepath.Join(mods, ArtifactPattern))
	for _, s := range stale {
		if err := os.Remove(s); err != nil {
			l.out.Warn("Could not remove old jar %s: %v", filepath.Base(s), err)
		}
	}

	target := filepath.Join(mods, filepath.Base(artifact))
	if err := copyFile(artifact, target); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(artifact), err)
	}
	l.out.Success("Synced %s into %s", filepath.Base(artifact), mods)
	return nil
}

// copyFile copies src to dst keeping the permission bits and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
