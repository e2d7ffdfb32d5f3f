// Package pipeline sequences the validate, build and deploy stages, emits the
// report and offers the test launch.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lucasnoah/triviabuild/internal/build"
	"github.com/lucasnoah/triviabuild/internal/config"
	"github.com/lucasnoah/triviabuild/internal/console"
	"github.com/lucasnoah/triviabuild/internal/deploy"
	"github.com/lucasnoah/triviabuild/internal/launch"
	"github.com/lucasnoah/triviabuild/internal/proc"
	"github.com/lucasnoah/triviabuild/internal/report"
	"github.com/lucasnoah/triviabuild/internal/validate"
)

// TimestampLayout formats the run timestamp in the log and commit trailer.
const TimestampLayout = "2006-01-02 15:04:05"

// Options wires a Driver to its collaborators.
type Options struct {
	Root   string
	Config *config.Config
	Runner proc.Runner
	// Git defaults to git on top of Runner.
	Git       deploy.GitRunner
	Confirmer launch.Confirmer
	Out       io.Writer
	Logger    *slog.Logger
	Now       func() time.Time
	NewRunID  func() string
}

// Driver runs the stages of a RunConfiguration in order.
type Driver struct {
	opts Options
	out  *console.Printer
	log  *slog.Logger
}

// New creates a Driver. Unset clock, ID source, logger and git runner get
// their production defaults.
func New(opts Options) *Driver {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return uuid.NewString() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Confirmer == nil {
		opts.Confirmer = launch.Decline{}
	}
	if opts.Git == nil {
		opts.Git = &deploy.ExecGit{
			Cmd:     opts.Runner,
			Timeout: config.ParseDuration(opts.Config.Deploy.Timeout, 2*time.Minute),
		}
	}
	return &Driver{opts: opts, out: console.New(opts.Out), log: opts.Logger}
}

// run is the state of a single invocation.
type run struct {
	id        string
	timestamp string
	book      *report.Logbook
	summary   report.Summary
	artifact  string
}

type stage struct {
	name string
	exec func(ctx context.Context, r *run) Outcome
}

// Run executes rc and returns the process exit code. A HardFailure stops
// the run after the report is written.
func (d *Driver) Run(ctx context.Context, rc RunConfiguration) int {
	r := &run{
		id:        d.opts.NewRunID(),
		timestamp: d.opts.Now().Format(TimestampLayout),
		book:      report.NewLogbook(),
	}
	r.summary.BuildRequested = rc.Build || rc.Deploy

	d.out.Banner("", "TRIVIA - BUILD SYSTEM", "Run "+r.id, "")
	d.log.Info("run started", "run_id", r.id, "root", d.opts.Root,
		"build", rc.Build, "deploy", rc.Deploy, "launch", rc.Launch, "clean", rc.Clean)

	reporter := report.New(d.opts.Root, d.opts.Config.LogFile, report.Header{
		Timestamp:         r.timestamp,
		RunID:             r.id,
		MinecraftVersion:  validate.MinecraftVersion,
		ExpectedQuestions: validate.ExpectedQuestions,
	}, r.book, d.out)

	for _, s := range d.stages(rc) {
		o := s.exec(ctx, r)
		r.summary.Errors = append(r.summary.Errors, o.Errors...)
		r.summary.Warnings = append(r.summary.Warnings, o.Warnings...)
		d.log.Debug("stage finished", "stage", s.name, "outcome", o.Kind.String())

		if o.Kind == HardFailure {
			d.out.Error("%s", o.Reason)
			r.book.Printf("%s", o.Reason)
			reporter.Report(r.summary)
			return ExitFailure
		}
	}

	reporter.Report(r.summary)

	if rc.Launch {
		d.offerLaunch(ctx, r.artifact)
	}

	d.out.Banner("ALL OPERATIONS COMPLETED SUCCESSFULLY")
	return ExitOK
}

func (d *Driver) stages(rc RunConfiguration) []stage {
	stages := []stage{{name: "validate", exec: d.validate}}
	if rc.Build || rc.Deploy {
		clean := rc.Clean
		stages = append(stages, stage{name: "build", exec: func(ctx context.Context, r *run) Outcome {
			return d.build(ctx, r, clean)
		}})
	}
	if rc.Deploy {
		message := rc.Message
		if message == "" {
			message = DefaultMessage
		}
		stages = append(stages, stage{name: "deploy", exec: func(ctx context.Context, r *run) Outcome {
			return d.deploy(ctx, r, message)
		}})
	}
	return stages
}

func (d *Driver) validate(_ context.Context, r *run) Outcome {
	r.book.Printf("VALIDATION SUITE")
	res := validate.New(d.opts.Root, d.out).Run()
	r.summary.QuestionCount = res.QuestionCount

	o := Outcome{Errors: res.Errors, Warnings: res.Warnings}
	switch {
	case !res.Passed():
		o.Kind = HardFailure
		o.Reason = "Validation failed! Fix errors before building."
	case len(res.Warnings) > 0:
		o.Kind = SoftFailure
	}
	return o
}

func (d *Driver) build(ctx context.Context, r *run, clean bool) Outcome {
	b := build.New(d.opts.Root, d.opts.Config.Build, d.opts.Runner, d.out, r.book)
	res := b.Build(ctx, clean)
	r.summary.BuildSucceeded = res.Succeeded
	r.artifact = res.Artifact

	o := Outcome{Warnings: res.Warnings}
	switch {
	case !res.Succeeded:
		o.Kind = HardFailure
		o.Reason = "Build failed!"
		d.log.Debug("build failed", "reason", res.Reason)
	case len(res.Warnings) > 0:
		o.Kind = SoftFailure
	}
	return o
}

func (d *Driver) deploy(ctx context.Context, r *run, message string) Outcome {
	stamp := deploy.Stamp{Timestamp: r.timestamp, RunID: r.id}
	dep := deploy.New(d.opts.Root, d.opts.Config.Deploy, d.opts.Git, d.out, r.book, stamp)
	if err := dep.Deploy(ctx, message); err != nil {
		return Outcome{Kind: HardFailure, Reason: "Deployment failed!", Errors: []string{err.Error()}}
	}
	return Outcome{Kind: Success}
}

func (d *Driver) offerLaunch(ctx context.Context, artifact string) {
	dir, err := d.opts.Config.ResolveInstanceDir()
	if err != nil {
		d.out.Warn("Cannot resolve test instance directory: %v", err)
		return
	}
	l := launch.New(launch.Options{
		Root:        d.opts.Root,
		InstanceDir: dir,
		Username:    d.opts.Config.Launch.Username,
		CacheDir:    d.opts.Config.Build.CacheDir,
		Stdout:      d.out.Writer(),
		Stderr:      d.out.Writer(),
	}, d.opts.Runner, d.opts.Confirmer, d.out)
	l.Offer(ctx, artifact)
}
