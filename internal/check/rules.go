// Package check holds the validation rules a listings snapshot must pass
// before it may flow further down the pipeline. Every rule is a stateless
// predicate over one or two read-only tables: nil means pass, a typed
// error from errors.go means reject. Rules never mutate their inputs and
// never depend on each other, so a runner may invoke them in any order.
package check

import (
	"sort"

	"listing_gate/internal/dataset"
)

// ExpectedColumns is the contract for the listings table: same names,
// same order, nothing more and nothing less.
var ExpectedColumns = []string{
	"id",
	"name",
	"host_id",
	"host_name",
	"neighbourhood_group",
	"neighbourhood",
	"latitude",
	"longitude",
	"room_type",
	"price",
	"minimum_nights",
	"number_of_reviews",
	"last_review",
	"reviews_per_month",
	"calculated_host_listings_count",
	"availability_365",
}

// KnownBoroughs is the closed domain for neighbourhood_group.
var KnownBoroughs = []string{"Bronx", "Brooklyn", "Manhattan", "Queens", "Staten Island"}

// NYC service-region bounding box, inclusive on both ends.
const (
	MinLongitude = -74.25
	MaxLongitude = -73.50
	MinLatitude  = 40.5
	MaxLatitude  = 41.2
)

// Default row-count bounds.
const (
	DefaultMinRows = 15000
	DefaultMaxRows = 1_000_000
)

const boroughColumn = "neighbourhood_group"

// ColumnNames verifies the table's columns match ExpectedColumns exactly,
// including order. Any added, dropped, renamed, or reordered column stops
// the pipeline here rather than degrading the rules behind it.
func ColumnNames(t *dataset.Table) error {
	cols := t.Columns()
	if len(cols) != len(ExpectedColumns) {
		return &SchemaMismatchError{Expected: ExpectedColumns, Actual: cols}
	}
	for i := range cols {
		if cols[i] != ExpectedColumns[i] {
			return &SchemaMismatchError{Expected: ExpectedColumns, Actual: cols}
		}
	}
	return nil
}

// BoroughDomain verifies the set of distinct neighbourhood_group values
// equals KnownBoroughs: all five present, nothing else. Order-independent.
func BoroughDomain(t *dataset.Table) error {
	values, err := t.Strings(boroughColumn)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(KnownBoroughs))
	for _, v := range values {
		seen[v] = true
	}

	var missing []string
	for _, b := range KnownBoroughs {
		if !seen[b] {
			missing = append(missing, b)
		}
		delete(seen, b)
	}
	var unexpected []string
	for v := range seen {
		unexpected = append(unexpected, v)
	}
	sort.Strings(unexpected)

	if len(missing) > 0 || len(unexpected) > 0 {
		return &DomainViolationError{Field: boroughColumn, Missing: missing, Unexpected: unexpected}
	}
	return nil
}

// GeoBounds verifies every row sits inside the NYC bounding box. A single
// out-of-bounds coordinate rejects the snapshot; the count is reported.
func GeoBounds(t *dataset.Table) error {
	lons, err := t.Floats("longitude")
	if err != nil {
		return err
	}
	lats, err := t.Floats("latitude")
	if err != nil {
		return err
	}
	outside := 0
	for i := range lons {
		if lons[i] < MinLongitude || lons[i] > MaxLongitude ||
			lats[i] < MinLatitude || lats[i] > MaxLatitude {
			outside++
		}
	}
	if outside > 0 {
		return &BoundaryViolationError{Rows: outside}
	}
	return nil
}

// BoroughDrift compares the borough distribution of the current table
// against the reference snapshot. Both empirical distributions must sum
// to 1 and cover identical label sets (strict: a superset/subset of
// categories is a shape mismatch, never silently re-aligned). The KL
// divergence D(current‖reference) in base 2 must be finite and strictly
// below klThreshold.
func BoroughDrift(cur, ref *dataset.Table, klThreshold float64) error {
	curVals, err := cur.Strings(boroughColumn)
	if err != nil {
		return err
	}
	refVals, err := ref.Strings(boroughColumn)
	if err != nil {
		return err
	}

	p := dataset.NewDistribution(curVals)
	q := dataset.NewDistribution(refVals)

	if !p.SumsToOne() {
		return &ShapeMismatchError{Reason: "current distribution does not sum to 1"}
	}
	if !q.SumsToOne() {
		return &ShapeMismatchError{Reason: "reference distribution does not sum to 1"}
	}
	if !p.SameLabels(q) {
		return &ShapeMismatchError{Reason: "current and reference category labels differ"}
	}

	div, finite := p.KLDivergence(q)
	if !finite {
		// report the first zero-mass category for the diagnostic
		for i := range p.Probs {
			if p.Probs[i] > 0 && q.Probs[i] == 0 {
				return &DegenerateDistributionError{Category: p.Labels[i]}
			}
		}
		return &DegenerateDistributionError{}
	}
	if div >= klThreshold {
		return &DriftExceededError{Divergence: div, Threshold: klThreshold}
	}
	return nil
}

// RowCount verifies the table holds between minRows and maxRows rows,
// inclusive.
func RowCount(t *dataset.Table, minRows, maxRows int) error {
	n := t.NumRows()
	if n < minRows || n > maxRows {
		return &RowCountError{Count: n, Min: minRows, Max: maxRows}
	}
	return nil
}

// PriceRange verifies every price lies in [minPrice, maxPrice] inclusive.
// All offending values are listed in the error, not just a count.
func PriceRange(t *dataset.Table, minPrice, maxPrice float64) error {
	prices, err := t.Floats("price")
	if err != nil {
		return err
	}
	var invalid []float64
	for _, p := range prices {
		if p < minPrice || p > maxPrice {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) > 0 {
		return &PriceRangeError{Min: minPrice, Max: maxPrice, Invalid: invalid}
	}
	return nil
}
