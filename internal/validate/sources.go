package validate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lucasnoah/triviabuild/internal/console"
)

// SourceDirs are scanned recursively for SourceExt files.
var SourceDirs = []string{"src/main/java", "src/client/java"}

const SourceExt = ".java"

// DeprecatedIdentifierCall is the pre-1.21 Identifier constructor; 1.21.1
// code must use Identifier.of.
const DeprecatedIdentifierCall = "new Identifier("

// CheckSources flags source files that still construct Identifiers with
// DeprecatedIdentifierCall. This is a plain substring match over file
// contents and performs exactly that one check.
func CheckSources(root string, out *console.Printer) Result {
	var res Result
	out.Info("Validating Java sources for 1.21.1 API usage...")

	files, err := findSources(root)
	if err != nil {
		out.Warn("Could not list Java sources: %v", err)
		res.Warnf("Could not list Java sources: %v", err)
	}
	if len(files) == 0 {
		out.Warn("No Java files found under src/")
		res.Warnf("No Java files found")
		return res
	}

	flagged := 0
	for _, path := range files {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			out.Warn("Could not read %s: %v", name, err)
			res.Warnf("Could not read %s: %v", name, err)
			continue
		}
		if strings.Contains(string(data), DeprecatedIdentifierCall) {
			out.Error("%s: uses old 'new Identifier()' constructor", name)
			res.Errorf("%s: old Identifier API", name)
			flagged++
		}
	}

	if flagged == 0 {
		out.Success("All %d source files use the 1.21.1 Identifier API (Identifier.of)", len(files))
	}
	return res
}

// findSources returns every SourceExt file under SourceDirs, sorted.
// Missing directories are skipped.
func findSources(root string) ([]string, error) {
	var files []string
	var errs []error

	for _, dir := range SourceDirs {
		base := filepath.Join(root, filepath.FromSlash(dir))
		if _, err := os.Stat(base); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree: record it and keep walking the rest.
				errs = append(errs, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), SourceExt) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	sort.Strings(files)
	return files, errors.Join(errs...)
}
