package check

import (
	"fmt"
	"strings"
)

// One error type per rule outcome. Each message carries enough detail to
// act on without re-running the gate: actual vs expected values, set
// differences, and the full list of offending prices.

type SchemaMismatchError struct {
	Expected []string
	Actual   []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: expected columns [%s], got [%s]",
		strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

type DomainViolationError struct {
	Field      string
	Missing    []string
	Unexpected []string
}

func (e *DomainViolationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing categories [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected categories [%s]", strings.Join(e.Unexpected, ", ")))
	}
	return fmt.Sprintf("domain violation in %s: %s", e.Field, strings.Join(parts, "; "))
}

type BoundaryViolationError struct {
	Rows int
}

func (e *BoundaryViolationError) Error() string {
	return fmt.Sprintf("boundary violation: %d rows outside longitude [%g, %g] / latitude [%g, %g]",
		e.Rows, MinLongitude, MaxLongitude, MinLatitude, MaxLatitude)
}

type ShapeMismatchError struct {
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return "distribution shape mismatch: " + e.Reason
}

type DegenerateDistributionError struct {
	Category string
}

func (e *DegenerateDistributionError) Error() string {
	return fmt.Sprintf("degenerate distribution: category %q has positive mass in current data but zero mass in reference, divergence is infinite", e.Category)
}

type DriftExceededError struct {
	Divergence float64
	Threshold  float64
}

func (e *DriftExceededError) Error() string {
	return fmt.Sprintf("distribution drift exceeded: KL divergence %.6f >= threshold %.6f", e.Divergence, e.Threshold)
}

type RowCountError struct {
	Count int
	Min   int
	Max   int
}

func (e *RowCountError) Error() string {
	if e.Count < e.Min {
		return fmt.Sprintf("row count out of range: %d rows, need at least %d", e.Count, e.Min)
	}
	return fmt.Sprintf("row count out of range: %d rows, allowed at most %d", e.Count, e.Max)
}

type PriceRangeError struct {
	Min     float64
	Max     float64
	Invalid []float64
}

func (e *PriceRangeError) Error() string {
	vals := make([]string, len(e.Invalid))
	for i, v := range e.Invalid {
		vals[i] = fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("prices outside range [%g, %g]: [%s]", e.Min, e.Max, strings.Join(vals, ", "))
}
