package domain

import (
	"context"
	"errors"

	"listing_gate/internal/dataset"
)

var ErrNotFound = errors.New("not found")

type ReportRepository interface {
	// Write paths
	InsertReport(ctx context.Context, r *Report) (int64, error)

	// Read paths
	GetReport(ctx context.Context, id int64) (Report, error)
	ListReports(ctx context.Context, q ReportsQuery) (ReportsPage, error)
}

// DatasetSource fetches a named snapshot into memory. Implementations:
// local CSV files, the artifact store client.
type DatasetSource interface {
	Fetch(ctx context.Context, name, version string) (*dataset.Table, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ReportsQuery struct {
	Limit  int
	Cursor *int64 // report ID to page back from, exclusive
}

type ReportsPage struct {
	Items      []Report
	NextCursor *int64
}
