package mysql

const insertReportSQL = `
INSERT INTO reports
  (dataset, dataset_ver, reference, ref_ver, passed, started_at, finished_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const insertResultSQL = `
INSERT INTO report_results
  (report_id, rule, passed, detail, duration_us)
VALUES
  (?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getReportSQL = `
SELECT
  id,
  dataset,
  dataset_ver,
  reference,
  ref_ver,
  passed,
  started_at,
  finished_at
FROM reports
WHERE id = ?
`

// Results come back in insertion order, which is registry order.
const getResultsSQL = `
SELECT rule, passed, detail, duration_us
FROM report_results
WHERE report_id = ?
ORDER BY id
`

// Newest first; cursor pages back by report id.
const listReportsSQL = `
SELECT id, dataset, dataset_ver, reference, ref_ver, passed, started_at, finished_at
FROM reports
WHERE (? IS NULL OR id < ?)
ORDER BY id DESC
LIMIT ?
`
