// Package validate checks the mod project before anything is built: the
// bundled trivia JSON resources, the Java sources and gradle.properties.
package validate

import "github.com/lucasnoah/triviabuild/internal/console"

// Validator runs all project checks against a project root.
type Validator struct {
	root string
	out  *console.Printer
}

// New creates a Validator for the project at root.
func New(root string, out *console.Printer) *Validator {
	return &Validator{root: root, out: out}
}

// Run executes every check and merges their findings. The checks are
// independent; a failing one never prevents the next from running.
func (v *Validator) Run() Result {
	v.out.Header("VALIDATION SUITE")

	var res Result
	res.Merge(CheckJSONConfigs(v.root, v.out))
	res.Merge(CheckSources(v.root, v.out))
	res.Merge(CheckGradleProperties(v.root, v.out))
	return res
}
