package check

import "listing_gate/internal/dataset"

// Params carries the caller-supplied scalar bounds for the parameterized
// rules. The gate only enforces the contract given whatever values it
// receives; sourcing them is the caller's business.
type Params struct {
	KLThreshold float64
	MinRows     int
	MaxRows     int
	MinPrice    float64
	MaxPrice    float64
}

// Rule is one named entry of the fixed rule set.
type Rule struct {
	Name string
	Run  func(cur, ref *dataset.Table, p Params) error
}

// Rules returns the full battery in its canonical order. The set is fixed
// at build time; runners just iterate.
func Rules() []Rule {
	return []Rule{
		{Name: "column_names", Run: func(cur, _ *dataset.Table, _ Params) error {
			return ColumnNames(cur)
		}},
		{Name: "borough_domain", Run: func(cur, _ *dataset.Table, _ Params) error {
			return BoroughDomain(cur)
		}},
		{Name: "geo_bounds", Run: func(cur, _ *dataset.Table, _ Params) error {
			return GeoBounds(cur)
		}},
		{Name: "borough_drift", Run: func(cur, ref *dataset.Table, p Params) error {
			return BoroughDrift(cur, ref, p.KLThreshold)
		}},
		{Name: "row_count", Run: func(cur, _ *dataset.Table, p Params) error {
			return RowCount(cur, p.MinRows, p.MaxRows)
		}},
		{Name: "price_range", Run: func(cur, _ *dataset.Table, p Params) error {
			return PriceRange(cur, p.MinPrice, p.MaxPrice)
		}},
	}
}
