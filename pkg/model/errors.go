package model

import "fmt"

// UnresolvedDependencyError reports a dependency id with no matching target
// in the snapshot. A partially resolved graph would mis-render dependency
// information, so this aborts the run.
type UnresolvedDependencyError struct {
	Target       string
	DependencyID string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("target %q depends on unknown target id %q", e.Target, e.DependencyID)
}

// AmbiguousDefinitionError reports a target whose backtrace graph does not
// contain exactly one add_executable/add_library record.
type AmbiguousDefinitionError struct {
	Target string
	Count  int
}

func (e *AmbiguousDefinitionError) Error() string {
	return fmt.Sprintf("target %q has %d definition records, expected exactly 1", e.Target, e.Count)
}
