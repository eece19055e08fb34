package check_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"listing_gate/internal/check"
	"listing_gate/internal/dataset"
)

func mkTable(t *testing.T, cols []string, rows [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(cols, rows)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return tbl
}

// listingTable builds a table with the full expected schema and n rows of
// benign values.
func listingTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	boroughs := check.KnownBoroughs
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = []string{
			strconv.Itoa(i + 1),      // id
			fmt.Sprintf("unit %d", i), // name
			"42",                     // host_id
			"host",                   // host_name
			boroughs[i%len(boroughs)], // neighbourhood_group
			"Midtown",                // neighbourhood
			"40.75",                  // latitude
			"-73.98",                 // longitude
			"Entire home/apt",        // room_type
			"120",                    // price
			"2",                      // minimum_nights
			"10",                     // number_of_reviews
			"2019-06-01",             // last_review
			"0.5",                    // reviews_per_month
			"1",                      // calculated_host_listings_count
			"180",                    // availability_365
		}
	}
	return mkTable(t, check.ExpectedColumns, rows)
}

// ---- column names ----

func TestColumnNames_Exact(t *testing.T) {
	if err := check.ColumnNames(listingTable(t, 5)); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
}

func TestColumnNames_Failures(t *testing.T) {
	base := check.ExpectedColumns

	reordered := append([]string(nil), base...)
	reordered[0], reordered[1] = reordered[1], reordered[0]

	omitted := append([]string(nil), base[:len(base)-1]...)

	added := append(append([]string(nil), base...), "extra")

	renamed := append([]string(nil), base...)
	renamed[4] = "borough"

	cases := []struct {
		name string
		cols []string
	}{
		{"reordered", reordered},
		{"omitted", omitted},
		{"added", added},
		{"renamed", renamed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := mkTable(t, tc.cols, nil)
			err := check.ColumnNames(tbl)
			var sm *check.SchemaMismatchError
			if !errors.As(err, &sm) {
				t.Fatalf("expected SchemaMismatchError, got %v", err)
			}
			if len(sm.Expected) != len(base) {
				t.Fatalf("expected column list missing from error: %+v", sm)
			}
		})
	}
}

// ---- borough domain ----

func boroughTable(t *testing.T, values []string) *dataset.Table {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return mkTable(t, []string{"neighbourhood_group"}, rows)
}

func TestBoroughDomain_AllFivePresent(t *testing.T) {
	vals := append(append([]string(nil), check.KnownBoroughs...), "Brooklyn", "Queens")
	if err := check.BoroughDomain(boroughTable(t, vals)); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
}

func TestBoroughDomain_MissingBorough(t *testing.T) {
	// no Staten Island
	err := check.BoroughDomain(boroughTable(t, []string{"Bronx", "Brooklyn", "Manhattan", "Queens"}))
	var dv *check.DomainViolationError
	if !errors.As(err, &dv) {
		t.Fatalf("expected DomainViolationError, got %v", err)
	}
	if len(dv.Missing) != 1 || dv.Missing[0] != "Staten Island" {
		t.Fatalf("unexpected missing set: %v", dv.Missing)
	}
	if !strings.Contains(err.Error(), "Staten Island") {
		t.Fatalf("message should name the missing borough: %s", err)
	}
}

func TestBoroughDomain_UnexpectedValue(t *testing.T) {
	vals := append(append([]string(nil), check.KnownBoroughs...), "Jersey City")
	err := check.BoroughDomain(boroughTable(t, vals))
	var dv *check.DomainViolationError
	if !errors.As(err, &dv) {
		t.Fatalf("expected DomainViolationError, got %v", err)
	}
	if len(dv.Unexpected) != 1 || dv.Unexpected[0] != "Jersey City" {
		t.Fatalf("unexpected extra set: %v", dv.Unexpected)
	}
}

// ---- geo bounds ----

func geoTable(t *testing.T, coords [][2]string) *dataset.Table {
	rows := make([][]string, len(coords))
	for i, c := range coords {
		rows[i] = []string{c[0], c[1]}
	}
	return mkTable(t, []string{"longitude", "latitude"}, rows)
}

func TestGeoBounds(t *testing.T) {
	ok := geoTable(t, [][2]string{
		{"-74.25", "40.5"}, // inclusive corners
		{"-73.50", "41.2"},
		{"-73.98", "40.75"},
	})
	if err := check.GeoBounds(ok); err != nil {
		t.Fatalf("expected pass: %v", err)
	}

	bad := geoTable(t, [][2]string{
		{"-73.98", "40.75"},
		{"-74.26", "40.75"}, // just west of the box
		{"-73.98", "41.21"},
	})
	err := check.GeoBounds(bad)
	var bv *check.BoundaryViolationError
	if !errors.As(err, &bv) {
		t.Fatalf("expected BoundaryViolationError, got %v", err)
	}
	if bv.Rows != 2 {
		t.Fatalf("expected 2 violating rows, got %d", bv.Rows)
	}
}

// ---- borough drift ----

func TestBoroughDrift_IdenticalDistributions(t *testing.T) {
	vals := []string{"Bronx", "Bronx", "Brooklyn", "Queens"}
	cur := boroughTable(t, vals)
	ref := boroughTable(t, vals)

	// P = Q gives KL divergence 0, which passes any positive threshold.
	if err := check.BoroughDrift(cur, ref, 1e-9); err != nil {
		t.Fatalf("expected pass for identical distributions: %v", err)
	}
}

func TestBoroughDrift_ShapeMismatch(t *testing.T) {
	cur := boroughTable(t, []string{"Bronx", "Brooklyn"})
	ref := boroughTable(t, []string{"Bronx", "Queens", "Brooklyn"})

	err := check.BoroughDrift(cur, ref, 0.5)
	var sm *check.ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
}

func TestBoroughDrift_Degenerate(t *testing.T) {
	// Same label sets cannot produce q=0 with empirical frequencies, so a
	// degenerate divergence surfaces through the distribution math alone.
	p := dataset.Distribution{Labels: []string{"a", "b"}, Probs: []float64{0.5, 0.5}}
	q := dataset.Distribution{Labels: []string{"a", "b"}, Probs: []float64{1.0, 0.0}}
	if _, finite := p.KLDivergence(q); finite {
		t.Fatalf("expected infinite divergence when q has zero mass under p")
	}
}

func TestBoroughDrift_Exceeded(t *testing.T) {
	cur := boroughTable(t, []string{"Bronx", "Bronx", "Bronx", "Brooklyn"})
	ref := boroughTable(t, []string{"Bronx", "Brooklyn", "Brooklyn", "Brooklyn"})

	err := check.BoroughDrift(cur, ref, 0.01)
	var de *check.DriftExceededError
	if !errors.As(err, &de) {
		t.Fatalf("expected DriftExceededError, got %v", err)
	}
	if de.Divergence <= 0 || de.Threshold != 0.01 {
		t.Fatalf("unexpected drift error: %+v", de)
	}

	// Same skew with a generous threshold passes.
	if err := check.BoroughDrift(cur, ref, 2.0); err != nil {
		t.Fatalf("expected pass under loose threshold: %v", err)
	}
}

// ---- row count ----

func rowCountTable(t *testing.T, n int) *dataset.Table {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i)}
	}
	return mkTable(t, []string{"id"}, rows)
}

func TestRowCount_DefaultLowerBoundInclusive(t *testing.T) {
	if err := check.RowCount(rowCountTable(t, check.DefaultMinRows), check.DefaultMinRows, check.DefaultMaxRows); err != nil {
		t.Fatalf("expected pass at exactly %d rows: %v", check.DefaultMinRows, err)
	}

	err := check.RowCount(rowCountTable(t, check.DefaultMinRows-1), check.DefaultMinRows, check.DefaultMaxRows)
	var rc *check.RowCountError
	if !errors.As(err, &rc) {
		t.Fatalf("expected RowCountError for 14999 rows, got %v", err)
	}
	if rc.Count != check.DefaultMinRows-1 {
		t.Fatalf("error should carry actual count: %+v", rc)
	}
}

func TestRowCount_UpperBoundInclusive(t *testing.T) {
	if err := check.RowCount(rowCountTable(t, 20), 1, 20); err != nil {
		t.Fatalf("expected pass at the upper bound: %v", err)
	}

	err := check.RowCount(rowCountTable(t, 21), 1, 20)
	var rc *check.RowCountError
	if !errors.As(err, &rc) {
		t.Fatalf("expected RowCountError above the upper bound, got %v", err)
	}
	if !strings.Contains(err.Error(), "at most 20") {
		t.Fatalf("message should name the violated bound: %s", err)
	}
}

func TestRowCount_Defaults(t *testing.T) {
	if check.DefaultMinRows != 15000 || check.DefaultMaxRows != 1_000_000 {
		t.Fatalf("unexpected default bounds: %d, %d", check.DefaultMinRows, check.DefaultMaxRows)
	}
}

// ---- price range ----

func priceTable(t *testing.T, prices []string) *dataset.Table {
	rows := make([][]string, len(prices))
	for i, p := range prices {
		rows[i] = []string{p}
	}
	return mkTable(t, []string{"price"}, rows)
}

func TestPriceRange_InclusiveBounds(t *testing.T) {
	tbl := priceTable(t, []string{"50.0", "100.0", "200.0"})
	if err := check.PriceRange(tbl, 50.0, 200.0); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
}

func TestPriceRange_ListsOffenders(t *testing.T) {
	tbl := priceTable(t, []string{"50.0", "100.0", "200.0", "49.99", "250"})
	err := check.PriceRange(tbl, 50.0, 200.0)
	var pr *check.PriceRangeError
	if !errors.As(err, &pr) {
		t.Fatalf("expected PriceRangeError, got %v", err)
	}
	if len(pr.Invalid) != 2 || pr.Invalid[0] != 49.99 || pr.Invalid[1] != 250 {
		t.Fatalf("unexpected offenders: %v", pr.Invalid)
	}
	if !strings.Contains(err.Error(), "49.99") {
		t.Fatalf("message should list 49.99: %s", err)
	}
}

// ---- registry ----

func TestRules_FixedSet(t *testing.T) {
	rules := check.Rules()
	want := []string{"column_names", "borough_domain", "geo_bounds", "borough_drift", "row_count", "price_range"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Fatalf("rule %d: got %s, want %s", i, r.Name, want[i])
		}
	}
}

func TestRules_RunAgainstValidSnapshot(t *testing.T) {
	cur := listingTable(t, 20)
	ref := listingTable(t, 20)
	p := check.Params{KLThreshold: 0.2, MinRows: 1, MaxRows: 100, MinPrice: 10, MaxPrice: 350}

	for _, r := range check.Rules() {
		if err := r.Run(cur, ref, p); err != nil {
			t.Fatalf("rule %s: %v", r.Name, err)
		}
	}
}
