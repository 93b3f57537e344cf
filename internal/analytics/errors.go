// Package analytics provides deterministic, side-effect-free statistical
// analysis over KPI observation tables: descriptive statistics, trend and
// growth detection, anomaly detection, and correlation analysis.
//
// Nothing in this package holds shared mutable state; all functions are safe
// to call concurrently on independent tables. Failures surface as typed
// errors and are local to the requested column — callers should skip the
// failing KPI and continue, never abort a whole run for one bad column.
package analytics

import "fmt"

// EmptyInputError indicates a column had no usable values after dropping
// missing entries.
type EmptyInputError struct {
	Column string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no usable data in column %q", e.Column)
}

// InsufficientDataError indicates too few observations for a computation:
// fewer than two aligned points for a pairwise statistic, or fewer than the
// required series length for a windowed one.
type InsufficientDataError struct {
	Col1   string
	Col2   string
	Points int
	Needed int
}

func (e *InsufficientDataError) Error() string {
	if e.Col2 != "" {
		return fmt.Sprintf("insufficient data for correlation between %q and %q: %d aligned points", e.Col1, e.Col2, e.Points)
	}
	return fmt.Sprintf("insufficient data in column %q: need at least %d points, got %d", e.Col1, e.Needed, e.Points)
}

// InsufficientColumnsError indicates fewer than two numeric columns were
// available for a correlation matrix.
type InsufficientColumnsError struct {
	Columns int
}

func (e *InsufficientColumnsError) Error() string {
	return fmt.Sprintf("need at least 2 numeric columns, got %d", e.Columns)
}
