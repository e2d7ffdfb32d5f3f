package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for unusable values.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if filepath.IsAbs(cfg.LogFile) {
		errs = append(errs, ValidationError{Field: "log_file", Message: "must be relative to the project root"})
	}
	if cfg.Build.MinJavaVersion < 1 {
		errs = append(errs, ValidationError{
			Field:   "build.min_java_version",
			Message: fmt.Sprintf("must be positive, got %d", cfg.Build.MinJavaVersion),
		})
	}

	for _, d := range []struct {
		field string
		value string
	}{
		{"build.probe_timeout", cfg.Build.ProbeTimeout},
		{"build.clean_timeout", cfg.Build.CleanTimeout},
		{"build.build_timeout", cfg.Build.BuildTimeout},
		{"deploy.timeout", cfg.Deploy.Timeout},
	} {
		validateDuration(d.field, d.value, &errs)
	}

	if cfg.Deploy.Remote == "" {
		errs = append(errs, ValidationError{Field: "deploy.remote", Message: "is required"})
	}
	if cfg.Deploy.Branch == "" {
		errs = append(errs, ValidationError{Field: "deploy.branch", Message: "is required"})
	}
	if cfg.Launch.Username == "" {
		errs = append(errs, ValidationError{Field: "launch.username", Message: "is required"})
	}

	return errs
}

func validateDuration(field, value string, errs *[]ValidationError) {
	if value == "" {
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid duration %q", value)})
		return
	}
	if d <= 0 {
		*errs = append(*errs, ValidationError{Field: field, Message: "must be positive"})
	}
}
