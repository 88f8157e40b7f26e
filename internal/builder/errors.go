package builder

import "fmt"

// BuildError reports a failed write mid-build, carrying everything recorded
// before the failure. Builds are never rolled back; the caller decides what
// to do with the partial tree.
type BuildError struct {
	Step  string // mkdir, component, page, config, asset, deploy
	Path  string
	Items Items
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s %s: %v", e.Step, e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
