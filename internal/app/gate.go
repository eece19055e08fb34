package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"listing_gate/internal/adapters/observability"
	"listing_gate/internal/check"
	"listing_gate/internal/dataset"
	"listing_gate/internal/domain"
)

// GateService runs the full rule battery over a dataset snapshot and its
// reference, persists the per-rule report, and invalidates read caches.
type GateService struct {
	source  domain.DatasetSource
	repo    domain.ReportRepository
	cache   domain.Cache
	workers int64
}

func NewGateService(src domain.DatasetSource, repo domain.ReportRepository, cache domain.Cache, workers int) *GateService {
	if workers <= 0 {
		workers = 4
	}
	return &GateService{source: src, repo: repo, cache: cache, workers: int64(workers)}
}

// RunSpec names the two snapshots to compare and the rule parameters.
type RunSpec struct {
	Dataset    string
	DatasetVer string
	Reference  string
	RefVer     string
	Params     check.Params
}

// Run fetches both tables, executes every registered rule, and stores the
// aggregated report. Rules are independent and read-only, so they run on
// a bounded worker pool; results keep registry order regardless. The
// returned report is populated even when rules fail — only fetch or
// persistence problems produce an error.
func (s *GateService) Run(ctx context.Context, spec RunSpec) (domain.Report, error) {
	cur, err := s.source.Fetch(ctx, spec.Dataset, spec.DatasetVer)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch dataset %s: %w", spec.Dataset, err)
	}
	ref, err := s.source.Fetch(ctx, spec.Reference, spec.RefVer)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch reference %s: %w", spec.Reference, err)
	}
	observability.ObserveDatasetRows(spec.Dataset, cur.NumRows())
	observability.ObserveDatasetRows(spec.Reference, ref.NumRows())

	report := domain.Report{
		Dataset:    spec.Dataset,
		DatasetVer: spec.DatasetVer,
		Reference:  spec.Reference,
		RefVer:     spec.RefVer,
		StartedAt:  time.Now().UTC(),
	}

	rules := check.Rules()
	results := make([]domain.RuleResult, len(rules))

	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	for i, rule := range rules {
		if err := sem.Acquire(ctx, 1); err != nil {
			return domain.Report{}, err
		}
		wg.Add(1)
		go func(i int, rule check.Rule) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = runRule(rule, cur, ref, spec.Params)
		}(i, rule)
	}
	wg.Wait()

	report.Results = results
	report.Passed = true
	for _, r := range results {
		if !r.Passed {
			report.Passed = false
			log.Warn().Str("rule", r.Rule).Str("detail", deref(r.Detail)).Msg("rule failed")
			continue
		}
		log.Info().Str("rule", r.Rule).Dur("took", r.Duration).Msg("rule passed")
	}
	report.FinishedAt = time.Now().UTC()

	id, err := s.repo.InsertReport(ctx, &report)
	if err != nil {
		return domain.Report{}, fmt.Errorf("store report: %w", err)
	}
	report.ID = id

	// New report invalidates the recent-reports listing.
	if s.cache != nil {
		s.invalidateListings(ctx)
	}
	return report, nil
}

// runRule executes one rule, timing it and containing panics so a bad
// cell in one check cannot take the whole run down.
func runRule(rule check.Rule, cur, ref *dataset.Table, p check.Params) (res domain.RuleResult) {
	res.Rule = rule.Name
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if rec := recover(); rec != nil {
			detail := fmt.Sprintf("rule panicked: %v", rec)
			res.Passed = false
			res.Detail = &detail
		}
		outcome := "pass"
		if !res.Passed {
			outcome = "fail"
		}
		observability.ObserveCheck(rule.Name, outcome, res.Duration)
	}()

	if err := rule.Run(cur, ref, p); err != nil {
		msg := err.Error()
		res.Detail = &msg
		return res
	}
	res.Passed = true
	return res
}

func (s *GateService) invalidateListings(ctx context.Context) {
	// API default page size first, then other common limits.
	for _, lim := range []int{20, 50, 100} {
		_ = s.cache.Del(ctx, fmt.Sprintf("reports:%d", lim))
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
