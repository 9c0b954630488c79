package kbase

import (
	"context"
	"time"
)

// Severity classifies a validation violation.
type Severity string

// Severity levels. Any SeverityError violation prevents publication.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Validation rule names.
const (
	RuleMalformedMetadata = "malformed-metadata"
	RuleDuplicateID       = "duplicate-id"
	RuleDanglingReference = "dangling-reference"
	RuleSelfReference     = "self-reference"
	RuleMissingSection    = "missing-section"
	RuleMissingMetadata   = "missing-metadata"
	RuleInvalidSourceURL  = "invalid-source-url"
	RuleIndexConsistency  = "index-consistency"
)

// Violation is a single validation finding.
type Violation struct {
	Rule      string   `json:"ruleName"`
	ArticleID string   `json:"articleId"`
	Severity  Severity `json:"severity"`
	Detail    string   `json:"detail"`
}

// Report is the outcome of a build or validation pass.
// A report is produced even when the build fails.
type Report struct {
	ID         string      `json:"id"`
	Articles   int         `json:"articles"`  // Articles in the corpus after the build
	Indexed    int         `json:"indexed"`   // Articles (re)indexed by this build
	Unchanged  int         `json:"unchanged"` // Articles skipped by the content-hash gate
	Excluded   int         `json:"excluded"`  // Documents dropped by the loader
	Published  bool        `json:"published"`
	Violations []Violation `json:"violations"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
}

// HasErrors reports whether any violation has error severity.
func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Count returns the number of violations with the given severity.
func (r *Report) Count(severity Severity) int {
	var n int
	for _, v := range r.Violations {
		if v.Severity == severity {
			n++
		}
	}
	return n
}

// ByRule returns the violations reported under rule.
func (r *Report) ByRule(rule string) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

// BuildService records build reports.
type BuildService interface {
	// CreateBuild stores a finished build report.
	CreateBuild(ctx context.Context, report *Report) error

	// FindBuilds returns recorded builds, newest first.
	FindBuilds(ctx context.Context, filter BuildFilter) ([]*Report, error)
}

// BuildFilter represents a filter for FindBuilds.
type BuildFilter struct {
	ID        *string `json:"id"`
	Published *bool   `json:"published"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
