package domain

import "time"

// Report is the outcome of one gate run over a dataset snapshot.
type Report struct {
	ID         int64
	Dataset    string // name of the validated snapshot, e.g. "sample.csv"
	DatasetVer string
	Reference  string // trusted prior snapshot used for drift comparison
	RefVer     string
	Passed     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []RuleResult
}

// RuleResult is one rule's verdict within a run.
type RuleResult struct {
	Rule     string
	Passed   bool
	Detail   *string // failure diagnostic, nil when passed
	Duration time.Duration
}
