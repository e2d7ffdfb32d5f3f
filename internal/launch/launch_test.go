package launch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/lucasnoah/triviabuild/internal/console"
	"github.com/lucasnoah/triviabuild/internal/proc"
)

type mockRunner struct {
	calls []proc.Command
	out   proc.Output
	err   error
}

func (m *mockRunner) Run(ctx context.Context, c proc.Command) (*proc.Output, error) {
	m.calls = append(m.calls, c)
	out := m.out
	return &out, m.err
}

type mockConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (m *mockConfirmer) Confirm(q string) (bool, error) {
	m.asked = append(m.asked, q)
	return m.answer, m.err
}

func newLauncher(t *testing.T, confirm Confirmer, cmd proc.Runner) (*Launcher, *bytes.Buffer, Options) {
	t.Helper()
	root := t.TempDir()
	opts := Options{
		Root:        root,
		InstanceDir: filepath.Join(t.TempDir(), "instance"),
		Username:    "TriviaTester",
		CacheDir:    ".gradle-user-home",
	}
	var buf bytes.Buffer
	l := New(opts, cmd, confirm, console.New(&buf))
	l.goos = "linux"
	return l, &buf, opts
}

func writeWrapper(t *testing.T, root string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "gradlew"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func writeJar(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("jar"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecline(t *testing.T) {
	ok, err := Decline{}.Confirm("launch?")
	if ok || !errors.Is(err, ErrNotInteractive) {
		t.Errorf("got (%v, %v), want (false, ErrNotInteractive)", ok, err)
	}
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		err   error
	}{
		{"y\n", true, nil},
		{"YES\n", true, nil},
		{"  yes  \n", true, nil},
		{"n\n", false, nil},
		{"\n", false, nil},
		{"yep\n", false, nil},
		{"y", true, nil},
		{"", false, io.EOF},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompt(strings.NewReader(tt.input), &out)
		got, err := p.Confirm("Launch? ")
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("input %q: got (%v, %v), want (%v, %v)", tt.input, got, err, tt.want, tt.err)
		}
		if !strings.Contains(out.String(), "Launch? ") {
			t.Errorf("input %q: question not written", tt.input)
		}
	}
}

func TestOffer_NonInteractive(t *testing.T) {
	cmd := &mockRunner{}
	l, buf, _ := newLauncher(t, Decline{}, cmd)

	l.Offer(context.Background(), "")

	if len(cmd.calls) != 0 {
		t.Errorf("expected no commands, got %d", len(cmd.calls))
	}
	if !strings.Contains(buf.String(), "non-interactive terminal") {
		t.Errorf("expected skip notice, got:\n%s", buf.String())
	}
}

func TestOffer_InputUnavailable(t *testing.T) {
	cmd := &mockRunner{}
	l, buf, _ := newLauncher(t, &mockConfirmer{err: io.EOF}, cmd)

	l.Offer(context.Background(), "")

	if len(cmd.calls) != 0 {
		t.Errorf("expected no commands, got %d", len(cmd.calls))
	}
	if !strings.Contains(buf.String(), "Input unavailable") {
		t.Errorf("expected warning, got:\n%s", buf.String())
	}
}

func TestOffer_Declined(t *testing.T) {
	cmd := &mockRunner{}
	confirm := &mockConfirmer{answer: false}
	l, buf, _ := newLauncher(t, confirm, cmd)

	l.Offer(context.Background(), "")

	if len(confirm.asked) != 1 || !strings.Contains(confirm.asked[0], "[y/N]") {
		t.Errorf("unexpected question: %v", confirm.asked)
	}
	if len(cmd.calls) != 0 {
		t.Errorf("expected no commands, got %d", len(cmd.calls))
	}
	if !strings.Contains(buf.String(), "Skipping Minecraft launch") {
		t.Errorf("expected skip notice, got:\n%s", buf.String())
	}
}

func TestOffer_AcceptedLaunches(t *testing.T) {
	cmd := &mockRunner{}
	l, _, opts := newLauncher(t, &mockConfirmer{answer: true}, cmd)
	writeWrapper(t, opts.Root)

	l.Offer(context.Background(), "")

	if len(cmd.calls) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmd.calls))
	}
}

func TestLaunch_SyncsArtifactAndRunsClient(t *testing.T) {
	cmd := &mockRunner{}
	l, buf, opts := newLauncher(t, Decline{}, cmd)
	writeWrapper(t, opts.Root)

	mods := filepath.Join(opts.InstanceDir, "mods")
	if err := os.MkdirAll(mods, 0o755); err != nil {
		t.Fatal(err)
	}
	writeJar(t, mods, "trivia-0.9.0.jar")
	writeJar(t, mods, "othermod.jar")

	libs := t.TempDir()
	artifact := writeJar(t, libs, "trivia-1.0.0.jar")
	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(artifact, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := l.Launch(context.Background(), artifact); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	if _, err := os.Stat(filepath.Join(mods, "trivia-0.9.0.jar")); !os.IsNotExist(err) {
		t.Error("stale trivia jar not removed")
	}
	if _, err := os.Stat(filepath.Join(mods, "othermod.jar")); err != nil {
		t.Error("unrelated jar should be kept")
	}
	info, err := os.Stat(filepath.Join(mods, "trivia-1.0.0.jar"))
	if err != nil {
		t.Fatalf("artifact not copied: %v", err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}
	if _, err := os.Stat(filepath.Join(opts.InstanceDir, "saves")); err != nil {
		t.Error("saves directory not created")
	}

	c := cmd.calls[0]
	if c.Name != filepath.Join(opts.Root, "gradlew") || c.Dir != opts.Root {
		t.Errorf("unexpected command: %s in %s", c.Name, c.Dir)
	}
	if len(c.Args) != 2 || c.Args[0] != "runClient" {
		t.Fatalf("unexpected args: %v", c.Args)
	}
	if !strings.Contains(c.Args[1], "--gameDir") || !strings.Contains(c.Args[1], "--username TriviaTester") {
		t.Errorf("unexpected client args: %s", c.Args[1])
	}
	if c.Timeout != 0 {
		t.Errorf("client should run without timeout, got %v", c.Timeout)
	}
	if len(c.Env) != 1 || !strings.HasPrefix(c.Env[0], "GRADLE_USER_HOME=") {
		t.Errorf("unexpected env: %v", c.Env)
	}
	if !strings.Contains(buf.String(), "MINECRAFT TEST INSTANCE") {
		t.Errorf("missing header:\n%s", buf.String())
	}
}

func TestLaunch_NoArtifactStillRuns(t *testing.T) {
	cmd := &mockRunner{}
	l, buf, opts := newLauncher(t, Decline{}, cmd)
	writeWrapper(t, opts.Root)

	if err := l.Launch(context.Background(), ""); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(cmd.calls) != 1 {
		t.Errorf("expected client to run, got %d calls", len(cmd.calls))
	}
	if !strings.Contains(buf.String(), "No freshly built jar found") {
		t.Errorf("expected warning, got:\n%s", buf.String())
	}
}

func TestLaunch_WrapperMissing(t *testing.T) {
	cmd := &mockRunner{}
	l, buf, _ := newLauncher(t, Decline{}, cmd)

	err := l.Launch(context.Background(), "")
	if !errors.Is(err, ErrWrapperMissing) {
		t.Fatalf("expected ErrWrapperMissing, got %v", err)
	}
	if len(cmd.calls) != 0 {
		t.Errorf("expected no commands, got %d", len(cmd.calls))
	}
	if !strings.Contains(buf.String(), "Gradle wrapper missing") {
		t.Errorf("expected error line, got:\n%s", buf.String())
	}
}

func TestLaunch_Interrupted(t *testing.T) {
	cmd := &mockRunner{err: context.Canceled}
	l, buf, opts := newLauncher(t, Decline{}, cmd)
	writeWrapper(t, opts.Root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Launch(ctx, ""); err != nil {
		t.Fatalf("interrupt should not be an error, got %v", err)
	}
	if !strings.Contains(buf.String(), "interrupted by user") {
		t.Errorf("expected interrupt warning, got:\n%s", buf.String())
	}
}

func TestLaunch_NonZeroExitWarns(t *testing.T) {
	cmd := &mockRunner{out: proc.Output{ExitCode: 3}}
	l, buf, opts := newLauncher(t, Decline{}, cmd)
	writeWrapper(t, opts.Root)

	if err := l.Launch(context.Background(), ""); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !strings.Contains(buf.String(), "exited with code 3") {
		t.Errorf("expected exit warning, got:\n%s", buf.String())
	}
}

func TestCopyFilePreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits differ on windows")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jar")
	if err := os.WriteFile(src, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "b.jar")
	if err := copyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "data" {
		t.Errorf("content = %q", data)
	}
}
