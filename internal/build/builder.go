// Package build drives the Gradle wrapper: a Java preflight, an optional
// clean, the build itself and discovery of the produced jar.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lucasnoah/triviabuild/internal/config"
	"github.com/lucasnoah/triviabuild/internal/console"
	"github.com/lucasnoah/triviabuild/internal/proc"
)

// outputTail is how much of each stream is printed after a failed build.
const outputTail = 2000

var javaVersionPattern = regexp.MustCompile(`version "(\d+)`)

// Outcome is the result of a build attempt.
type Outcome struct {
	Succeeded bool
	// Artifact is the path of the built jar, empty when none was produced.
	Artifact string
	// Warnings holds non-fatal problems (an unreadable Java version, a
	// clean blocked by a file lock).
	Warnings []string
	// Reason says why the build failed.
	Reason string
}

// Log receives text destined for the run's log file.
type Log interface {
	Printf(format string, args ...any)
}

// Builder runs the Gradle wrapper of a project.
type Builder struct {
	root string
	cfg  config.Build
	cmd  proc.Runner
	out  *console.Printer
	log  Log
	goos string
}

// New creates a Builder for the project at root.
func New(root string, cfg config.Build, cmd proc.Runner, out *console.Printer, log Log) *Builder {
	return &Builder{root: root, cfg: cfg, cmd: cmd, out: out, log: log, goos: runtime.GOOS}
}

// WrapperPath returns the platform-specific Gradle wrapper script for root.
func WrapperPath(root, goos string) string {
	if goos == "windows" {
		return filepath.Join(root, "gradlew.bat")
	}
	return filepath.Join(root, "gradlew")
}

// CacheEnv prepares the isolated Gradle user home under root and returns the
// environment that points Gradle at it. If the directory cannot be created
// the default environment is used.
func CacheEnv(root, cacheDir string) []string {
	dir := cacheDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	return []string{"GRADLE_USER_HOME=" + dir}
}

// Build runs the preflight, the optional clean and the build.
func (b *Builder) Build(ctx context.Context, clean bool) Outcome {
	b.out.Header("GRADLE BUILD")
	b.log.Printf("GRADLE BUILD")

	var res Outcome

	if reason := b.checkJava(ctx, &res); reason != "" {
		return b.fail(res, reason)
	}

	wrapper := WrapperPath(b.root, b.goos)
	if _, err := os.Stat(wrapper); err != nil {
		b.out.Error("Gradle wrapper not found (expected %s at project root)", filepath.Base(wrapper))
		return b.fail(res, "Gradle wrapper missing")
	}

	env := CacheEnv(b.root, b.cfg.CacheDir)

	if clean {
		if reason := b.clean(ctx, wrapper, env, &res); reason != "" {
			return b.fail(res, reason)
		}
	} else {
		b.out.Info("Skipping gradle clean (use --clean to force)")
	}

	return b.build(ctx, wrapper, env, res)
}

// checkJava probes the installed JDK. Only a parsed version below the
// minimum fails the build; an unusable probe is a warning.
func (b *Builder) checkJava(ctx context.Context, res *Outcome) string {
	out, err := b.cmd.Run(ctx, proc.Command{
		Dir:     b.root,
		Name:    "java",
		Args:    []string{"-version"},
		Timeout: config.ParseDuration(b.cfg.ProbeTimeout, 5*time.Second),
	})
	if err != nil {
		b.warn(res, "Could not check Java version: %v", err)
		return ""
	}

	major, ok := ParseJavaMajor(out.Stderr + out.Stdout)
	if !ok {
		b.warn(res, "Could not parse Java version from `java -version` output")
		return ""
	}
	if major < b.cfg.MinJavaVersion {
		b.out.Error("Java %d detected. Java %d+ required (Java 21 recommended)", major, b.cfg.MinJavaVersion)
		return fmt.Sprintf("Java version too old: %d (need %d+)", major, b.cfg.MinJavaVersion)
	}
	b.out.Info("Java %d detected", major)
	return ""
}

// ParseJavaMajor extracts the leading version number from `java -version`
// output, e.g. 21 from `openjdk version "21.0.2"`.
func ParseJavaMajor(output string) (int, bool) {
	m := javaVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (b *Builder) clean(ctx context.Context, wrapper string, env []string, res *Outcome) string {
	b.out.Info("Running gradle clean...")
	b.log.Printf("Running gradle clean...")

	out, err := b.cmd.Run(ctx, proc.Command{
		Dir:     b.root,
		Name:    wrapper,
		Args:    []string{"clean", "--no-daemon"},
		Env:     env,
		Timeout: config.ParseDuration(b.cfg.CleanTimeout, 5*time.Minute),
	})

	var text string
	switch {
	case err != nil:
		text = err.Error()
	case out.ExitCode != 0:
		text = strings.TrimSpace(out.Stderr)
	default:
		b.out.Success("Clean completed")
		return ""
	}

	b.out.Error("Clean failed: %s", text)
	b.log.Printf("Clean failed: %s", text)
	if IsFileLock(text, err != nil) {
		b.warn(res, "Clean failed due to file lock; continuing with build")
		return ""
	}
	return "Gradle clean failed"
}

// IsFileLock reports whether a failed clean was caused by another process
// (typically an IDE on Windows) holding the Loom mappings jar open.
// Errors raised while invoking the wrapper only need to name the jar.
func IsFileLock(text string, invocationErr bool) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "mappings.jar") {
		return false
	}
	return invocationErr || strings.Contains(lower, "process cannot access the file")
}

func (b *Builder) build(ctx context.Context, wrapper string, env []string, res Outcome) Outcome {
	b.out.Info("Running gradle build...")
	b.log.Printf("Running gradle build...")

	out, err := b.cmd.Run(ctx, proc.Command{
		Dir:     b.root,
		Name:    wrapper,
		Args:    []string{"build", "--no-daemon", "--stacktrace"},
		Env:     env,
		Timeout: config.ParseDuration(b.cfg.BuildTimeout, 10*time.Minute),
	})
	if err != nil {
		b.out.Error("Build failed: %v", err)
		b.log.Printf("Build failed: %v", err)
		if out != nil && (out.Stdout != "" || out.Stderr != "") {
			b.log.Printf("\n=== FULL BUILD OUTPUT ===\n%s", out.Combined())
		}
		return b.fail(res, fmt.Sprintf("Build failed: %v", err))
	}

	if out.ExitCode != 0 {
		b.out.Error("Build failed (exit code %d)", out.ExitCode)
		b.log.Printf("\n=== FULL BUILD OUTPUT ===\n%s", out.Combined())
		b.out.Plain("%s", proc.Tail(out.Stdout, outputTail))
		b.out.Plain("%s", proc.Tail(out.Stderr, outputTail))
		b.reportDiagnostics(out.Combined())
		return b.fail(res, fmt.Sprintf("Build failed with exit code %d", out.ExitCode))
	}
	b.out.Success("Build successful")

	jar, err := FindArtifact(filepath.Join(b.root, filepath.FromSlash(b.cfg.ArtifactDir)))
	if err != nil {
		b.out.Error("No JAR file found in %s", b.cfg.ArtifactDir)
		return b.fail(res, err.Error())
	}

	b.out.Success("JAR created: %s", filepath.Base(jar))
	b.log.Printf("Artifact: %s", jar)
	res.Succeeded = true
	res.Artifact = jar
	return res
}

// ErrNoArtifact is returned by FindArtifact when the output directory holds
// no usable jar.
var ErrNoArtifact = errors.New("no JAR file found")

// FindArtifact returns the first jar in dir, ignoring -sources and -dev
// variants.
func FindArtifact(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.jar"))
	if err != nil {
		return "", err
	}
	sort.Strings(matches)
	for _, m := range matches {
		name := filepath.Base(m)
		if strings.Contains(name, "-sources") || strings.Contains(name, "-dev") {
			continue
		}
		return m, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoArtifact, dir)
}

func (b *Builder) warn(res *Outcome, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.out.Warn("%s", msg)
	b.log.Printf("WARNING: %s", msg)
	res.Warnings = append(res.Warnings, msg)
}

func (b *Builder) fail(res Outcome, reason string) Outcome {
	b.log.Printf("%s", reason)
	res.Succeeded = false
	res.Reason = reason
	return res
}
