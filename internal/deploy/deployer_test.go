package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lucasnoah/triviabuild/internal/config"
	"github.com/lucasnoah/triviabuild/internal/console"
	"github.com/lucasnoah/triviabuild/internal/proc"
)

type mockGit struct {
	calls   []gitCall
	results []mockResult
	idx     int
}

type gitCall struct {
	Dir  string
	Args []string
}

type mockResult struct {
	Output string
	Err    error
}

func (m *mockGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	m.calls = append(m.calls, gitCall{Dir: dir, Args: args})
	if m.idx >= len(m.results) {
		return "", nil
	}
	r := m.results[m.idx]
	m.idx++
	return r.Output, r.Err
}

type logLines []string

func (l *logLines) Printf(format string, args ...any) {
	*l = append(*l, fmt.Sprintf(format, args...))
}

var stamp = Stamp{Timestamp: "2026-10-18 09:30:00", RunID: "0b6f3c1e-5a4d-4f7e-9c2b-1d8e7f6a5b4c"}

func newTestDeployer(git GitRunner) (*Deployer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New("/repo", config.Default().Deploy, git, console.New(&buf), &logLines{}, stamp), &buf
}

func TestDeploy_HappyPath(t *testing.T) {
	git := &mockGit{results: []mockResult{
		{Output: " M src/main/resources/trivia/default_questions.json"},
		{}, // add
		{}, // commit
		{}, // push
	}}
	d, out := newTestDeployer(git)

	if err := d.Deploy(context.Background(), "Add questions"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(git.calls) != 4 {
		t.Fatalf("expected 4 git calls, got %d", len(git.calls))
	}
	assertArgs(t, git.calls[0].Args, "status", "--porcelain")
	assertArgs(t, git.calls[1].Args, "add", "-A")
	assertArgs(t, git.calls[2].Args, "commit", "-m",
		"Add questions\n\nGenerated: 2026-10-18 09:30:00\nRun-Id: 0b6f3c1e-5a4d-4f7e-9c2b-1d8e7f6a5b4c")
	assertArgs(t, git.calls[3].Args, "push", "origin", "main")
	for _, c := range git.calls {
		if c.Dir != "/repo" {
			t.Errorf("expected dir /repo, got %q", c.Dir)
		}
	}
	if !strings.Contains(out.String(), "Pushed to origin/main") {
		t.Errorf("expected push confirmation, got:\n%s", out.String())
	}
}

func TestDeploy_NothingToCommit(t *testing.T) {
	for _, status := range []string{"", "  \n\t"} {
		git := &mockGit{results: []mockResult{{Output: status}}}
		d, out := newTestDeployer(git)

		if err := d.Deploy(context.Background(), "msg"); err != nil {
			t.Fatalf("expected no-op success, got %v", err)
		}
		if len(git.calls) != 1 {
			t.Errorf("expected only the status call, got %d calls", len(git.calls))
		}
		if !strings.Contains(out.String(), "No changes to commit") {
			t.Errorf("expected no-changes notice")
		}
	}
}

func TestDeploy_PushFailure(t *testing.T) {
	git := &mockGit{results: []mockResult{
		{Output: "?? new.txt"},
		{},
		{},
		{Err: fmt.Errorf("git push origin main: ! [rejected] main -> main (fetch first): exit status 1")},
	}}
	d, out := newTestDeployer(git)

	err := d.Deploy(context.Background(), "msg")
	if err == nil {
		t.Fatal("expected push failure")
	}
	if !strings.HasPrefix(err.Error(), "push failed") || !strings.Contains(err.Error(), "rejected") {
		t.Errorf("expected remote text in error, got %v", err)
	}
	if !strings.Contains(out.String(), "Push failed") {
		t.Errorf("expected push failure on console")
	}
}

func TestDeploy_CommandFailuresAreFatal(t *testing.T) {
	for i, name := range []string{"status", "add", "commit"} {
		results := []mockResult{{Output: " M file"}, {}, {}}
		results[i] = mockResult{Err: fmt.Errorf("git %s: fatal: boom", name)}
		git := &mockGit{results: results}
		d, _ := newTestDeployer(git)

		err := d.Deploy(context.Background(), "msg")
		if err == nil || !strings.HasPrefix(err.Error(), "git operation failed") {
			t.Errorf("%s failure: expected git operation error, got %v", name, err)
		}
		if len(git.calls) != i+1 {
			t.Errorf("%s failure: expected to stop after %d calls, got %d", name, i+1, len(git.calls))
		}
	}
}

func TestCommitMessageWithoutRunID(t *testing.T) {
	got := CommitMessage("Release", Stamp{Timestamp: "2026-01-02 03:04:05"})
	if got != "Release\n\nGenerated: 2026-01-02 03:04:05" {
		t.Errorf("CommitMessage() = %q", got)
	}
}

// mockCmd stands in for proc.Runner underneath ExecGit.
type mockCmd struct {
	got proc.Command
	out proc.Output
	err error
}

func (m *mockCmd) Run(ctx context.Context, c proc.Command) (*proc.Output, error) {
	m.got = c
	out := m.out
	return &out, m.err
}

func TestExecGit_Success(t *testing.T) {
	cmd := &mockCmd{out: proc.Output{Stdout: " M a.go\n"}}
	g := &ExecGit{Cmd: cmd}

	out, err := g.Run(context.Background(), "/repo", "status", "--porcelain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "M a.go" {
		t.Errorf("expected trimmed output, got %q", out)
	}
	if cmd.got.Name != "git" || cmd.got.Dir != "/repo" {
		t.Errorf("unexpected command %+v", cmd.got)
	}
}

func TestExecGit_NonZeroExit(t *testing.T) {
	cmd := &mockCmd{out: proc.Output{ExitCode: 128, Stderr: "fatal: not a git repository\n"}}
	g := &ExecGit{Cmd: cmd}

	_, err := g.Run(context.Background(), "/tmp", "status", "--porcelain")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "not a git repository") || !strings.Contains(err.Error(), "128") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestExecGit_Timeout(t *testing.T) {
	cmd := &mockCmd{err: fmt.Errorf("git: %w after 2m0s", proc.ErrTimeout)}
	g := &ExecGit{Cmd: cmd}

	_, err := g.Run(context.Background(), "/repo", "push", "origin", "main")
	if !errors.Is(err, proc.ErrTimeout) {
		t.Errorf("expected ErrTimeout to be preserved, got %v", err)
	}
}

func assertArgs(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("args = %v, want %v", got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
