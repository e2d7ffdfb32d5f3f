package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lucasnoah/triviabuild/internal/config"
	"github.com/lucasnoah/triviabuild/internal/launch"
	"github.com/lucasnoah/triviabuild/internal/pipeline"
	"github.com/lucasnoah/triviabuild/internal/proc"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

// ExitUsage is the exit code for bad flags and unusable tool settings.
const ExitUsage = 2

// ExitError carries the process exit code out of a command. Err may be nil
// when everything worth saying has already been printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// runFlags are the stage selection flags of the root command.
type runFlags struct {
	check   bool
	build   bool
	deploy  bool
	full    bool
	clean   bool
	noClean bool
	message string
}

var (
	flags      runFlags
	projectDir string
	configFile string
	verbose    bool
)

// configuration resolves the flags into the stages to run. Validation
// always runs; --full implies --clean unless --no-clean is given.
func (f runFlags) configuration() pipeline.RunConfiguration {
	return pipeline.RunConfiguration{
		Build:   f.build || f.deploy || f.full,
		Deploy:  f.deploy || f.full,
		Launch:  f.full,
		Clean:   f.clean || (f.full && !f.noClean),
		Message: f.message,
	}
}

var rootCmd = &cobra.Command{
	Use:   "trivia-build",
	Short: "trivia-build: validate, build and ship the Trivia mod",
	Long: `trivia-build checks the Trivia mod project (bundled JSON resources, Java
sources, gradle.properties), builds it with the Gradle wrapper, commits and
pushes the result, and can launch a local Minecraft test instance.

Without a stage flag only validation runs (--check). Every run rewrites the
log file (trivia-build.log) in the project root.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

func Execute() error {
	return rootCmd.Execute()
}

func runBuild(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", e)
		}
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("config has %d validation error(s)", len(errs))}
	}

	logger := newLogger(verbose, cmd.ErrOrStderr())
	d := pipeline.New(pipeline.Options{
		Root:      root,
		Config:    cfg,
		Runner:    &proc.ExecRunner{Logger: logger},
		Confirmer: newConfirmer(cmd),
		Out:       cmd.OutOrStdout(),
		Logger:    logger,
	})

	if code := d.Run(cmd.Context(), flags.configuration()); code != pipeline.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// resolveRoot returns the absolute project root (--root or the working
// directory).
func resolveRoot() (string, error) {
	dir := projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", abs)
	}
	return abs, nil
}

func loadConfig(root string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.LoadDefault(root)
}

// newConfirmer prompts on the command's streams when stdin is a terminal
// and declines otherwise.
func newConfirmer(cmd *cobra.Command) launch.Confirmer {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return launch.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return launch.Decline{}
}

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&flags.check, "check", false, "validation only (default when no stage flag is given)")
	f.BoolVar(&flags.build, "build", false, "validation + Gradle build")
	f.BoolVar(&flags.deploy, "deploy", false, "build + git commit + push")
	f.BoolVar(&flags.full, "full", false, "all stages, then offer to launch a test instance (implies --clean)")
	f.StringVarP(&flags.message, "message", "m", pipeline.DefaultMessage, "git commit message")
	f.BoolVar(&flags.clean, "clean", false, "run 'gradle clean' before building")
	f.BoolVar(&flags.noClean, "no-clean", false, "skip 'gradle clean' even with --full")
	rootCmd.MarkFlagsMutuallyExclusive("clean", "no-clean")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&projectDir, "root", "", "project root (default: current directory)")
	pf.StringVarP(&configFile, "config", "f", "", "path to trivia-build settings file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log subprocess invocations")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}
