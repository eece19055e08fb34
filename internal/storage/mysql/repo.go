package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"listing_gate/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertReport stores the run and its per-rule results in one
// transaction and returns the new report id.
func (r *Repo) InsertReport(ctx context.Context, rep *domain.Report) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertReportSQL,
		rep.Dataset,
		rep.DatasetVer,
		rep.Reference,
		rep.RefVer,
		rep.Passed,
		rep.StartedAt,
		rep.FinishedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, rr := range rep.Results {
		if _, err := tx.ExecContext(ctx, insertResultSQL,
			id,
			rr.Rule,
			rr.Passed,
			valStr(rr.Detail),
			rr.Duration.Microseconds(),
		); err != nil {
			return 0, fmt.Errorf("insert result %s: %w", rr.Rule, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) GetReport(ctx context.Context, id int64) (domain.Report, error) {
	row := r.db.QueryRowContext(ctx, getReportSQL, id)

	rep, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Report{}, domain.ErrNotFound
		}
		return domain.Report{}, err
	}

	rows, err := r.db.QueryContext(ctx, getResultsSQL, id)
	if err != nil {
		return domain.Report{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var rr domain.RuleResult
		var detail sql.NullString
		var durUS int64
		if err := rows.Scan(&rr.Rule, &rr.Passed, &detail, &durUS); err != nil {
			return domain.Report{}, err
		}
		if detail.Valid {
			d := detail.String
			rr.Detail = &d
		}
		rr.Duration = time.Duration(durUS) * time.Microsecond
		rep.Results = append(rep.Results, rr)
	}
	if err := rows.Err(); err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}

func (r *Repo) ListReports(ctx context.Context, q domain.ReportsQuery) (domain.ReportsPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	var cursor any
	if q.Cursor != nil {
		cursor = *q.Cursor
	}

	rows, err := r.db.QueryContext(ctx, listReportsSQL, cursor, cursor, limit)
	if err != nil {
		return domain.ReportsPage{}, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return domain.ReportsPage{}, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return domain.ReportsPage{}, err
	}

	page := domain.ReportsPage{Items: out}
	if len(out) == limit {
		last := out[len(out)-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

type rowScanner interface {
	Scan(dst ...any) error
}

func scanReport(row rowScanner) (domain.Report, error) {
	var rep domain.Report
	var started, finished sql.NullTime
	if err := row.Scan(
		&rep.ID,
		&rep.Dataset,
		&rep.DatasetVer,
		&rep.Reference,
		&rep.RefVer,
		&rep.Passed,
		&started,
		&finished,
	); err != nil {
		return domain.Report{}, err
	}
	if started.Valid {
		rep.StartedAt = started.Time
	}
	if finished.Valid {
		rep.FinishedAt = finished.Time
	}
	return rep, nil
}
