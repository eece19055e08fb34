package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listing_gate/internal/domain"
)

type QueryService struct {
	repo     domain.ReportRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReportRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetReport(ctx context.Context, id int64) (domain.Report, error) {
	key := fmt.Sprintf("report:%d", id)
	var rep domain.Report
	if ok, _ := s.cache.Get(ctx, key, &rep); ok {
		return rep, nil
	}
	rep, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	_ = s.cache.Set(ctx, key, rep, int(s.cacheTTL.Seconds()))
	return rep, nil
}

func (s *QueryService) ListReports(ctx context.Context, q domain.ReportsQuery) (domain.ReportsPage, error) {
	// Cursor pages are not cached; only the first page is hot.
	if q.Cursor != nil {
		return s.repo.ListReports(ctx, q)
	}

	key := fmt.Sprintf("reports:%d", q.Limit)
	var out domain.ReportsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	page, err := s.repo.ListReports(ctx, q)
	if err != nil {
		return domain.ReportsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array (prevents callers from mutating cached value)
	copyPage := deepCopyReportsPage(page)

	// optional size guard
	if b, _ := json.Marshal(copyPage); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyPage, int(s.cacheTTL.Seconds()))
	}
	return copyPage, nil
}

func deepCopyReportsPage(in domain.ReportsPage) domain.ReportsPage {
	out := domain.ReportsPage{NextCursor: in.NextCursor}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Report, n)
		copy(out.Items, in.Items)
	}
	return out
}
