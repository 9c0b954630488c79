// Package validate checks a built corpus for consistency problems.
// Validation never mutates its input and reports every violation found in
// a single pass.
package validate

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/graph"
	"github.com/fwojciec/kbase/index"
)

// DefaultMandatorySections lists the sections every article must have.
var DefaultMandatorySections = []string{
	kbase.SectionOverview,
	kbase.SectionRelated,
	kbase.SectionSources,
}

// Failure is a document the loader excluded from the corpus.
type Failure struct {
	Origin string
	Err    error
}

// Input is the state to validate. Articles may contain several articles
// with the same ID; Index may be nil when no index was built.
type Input struct {
	Articles []*kbase.Article
	Graph    *graph.Graph
	Index    *index.Index
	Failures []Failure
}

// Validator runs the consistency rules.
type Validator struct {
	// MandatorySections overrides DefaultMandatorySections when non-nil.
	MandatorySections []string

	// Strict reports dangling references as errors instead of warnings.
	Strict bool
}

// Validate runs every rule and returns the violations sorted by article ID,
// rule and detail.
func (v *Validator) Validate(in Input) []kbase.Violation {
	var out []kbase.Violation
	report := func(rule, id string, sev kbase.Severity, format string, args ...any) {
		out = append(out, kbase.Violation{
			Rule:      rule,
			ArticleID: id,
			Severity:  sev,
			Detail:    fmt.Sprintf(format, args...),
		})
	}

	for _, f := range in.Failures {
		report(kbase.RuleMalformedMetadata, "", kbase.SeverityError, "%s", kbase.ErrorMessage(f.Err))
	}

	v.checkDuplicates(in.Articles, report)

	if in.Graph != nil {
		sev := kbase.SeverityWarning
		if v.Strict {
			sev = kbase.SeverityError
		}
		for _, e := range in.Graph.Unresolved() {
			report(kbase.RuleDanglingReference, e.From, sev, "%s -> %s: referenced article not found", e.From, e.To)
		}
	}

	mandatory := v.MandatorySections
	if mandatory == nil {
		mandatory = DefaultMandatorySections
	}

	for _, a := range in.Articles {
		for _, r := range a.Related {
			if r.TargetID == a.ID {
				report(kbase.RuleSelfReference, a.ID, kbase.SeverityWarning, "article lists itself in %s", kbase.SectionRelated)
				break
			}
		}

		for _, heading := range mandatory {
			if _, ok := a.Section(heading); !ok {
				report(kbase.RuleMissingSection, a.ID, kbase.SeverityError, "missing section %q", kbase.CanonicalHeading(heading))
			}
		}

		for _, field := range missingMetadata(a) {
			report(kbase.RuleMissingMetadata, a.ID, kbase.SeverityWarning, "%s missing or unrecognised", field)
		}

		for _, c := range a.Sources {
			if detail := checkURL(c); detail != "" {
				report(kbase.RuleInvalidSourceURL, a.ID, kbase.SeverityError, "%s", detail)
			}
		}
	}

	if in.Index != nil {
		v.checkIndex(in, report)
	}

	slices.SortStableFunc(out, func(a, b kbase.Violation) int {
		if c := cmp.Compare(a.ArticleID, b.ArticleID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Rule, b.Rule); c != 0 {
			return c
		}
		return cmp.Compare(a.Detail, b.Detail)
	})
	return out
}

type reportFunc func(rule, id string, sev kbase.Severity, format string, args ...any)

func (v *Validator) checkDuplicates(articles []*kbase.Article, report reportFunc) {
	origins := make(map[string][]string)
	var order []string
	for _, a := range articles {
		if _, ok := origins[a.ID]; !ok {
			order = append(order, a.ID)
		}
		origin := a.Origin
		if origin == "" {
			origin = "(unknown)"
		}
		origins[a.ID] = append(origins[a.ID], origin)
	}

	for _, id := range order {
		if n := len(origins[id]); n > 1 {
			report(kbase.RuleDuplicateID, id, kbase.SeverityError, "defined %d times: %s", n, strings.Join(origins[id], ", "))
		}
	}
}

func (v *Validator) checkIndex(in Input, report reportFunc) {
	if err := in.Index.Check(); err != nil {
		report(kbase.RuleIndexConsistency, "", kbase.SeverityError, "%s", kbase.ErrorMessage(err))
	}
	for _, a := range in.Articles {
		hash, ok := in.Index.ContentHash(a.ID)
		switch {
		case !ok:
			report(kbase.RuleIndexConsistency, a.ID, kbase.SeverityError, "article is not indexed")
		case hash != a.ContentHash:
			report(kbase.RuleIndexConsistency, a.ID, kbase.SeverityError, "index entry is stale (hash %s, article %s)", hash, a.ContentHash)
		}
	}
}

func missingMetadata(a *kbase.Article) []string {
	var fields []string
	if strings.TrimSpace(a.Title) == "" {
		fields = append(fields, "title")
	}
	if a.Difficulty == kbase.DifficultyUnknown {
		fields = append(fields, "difficulty")
	}
	if strings.TrimSpace(a.LastUpdated) == "" {
		fields = append(fields, "last updated")
	}
	if strings.TrimSpace(a.EstimatedTime) == "" {
		fields = append(fields, "estimated time")
	}
	return fields
}

// checkURL returns a description of what is wrong with the citation URL,
// or "" when it is an absolute http(s) URL with a host.
func checkURL(c kbase.SourceCitation) string {
	if c.URL == "" {
		return fmt.Sprintf("citation %q has no URL", c.Title)
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Sprintf("citation URL %q does not parse", c.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("citation URL %q is not an http(s) URL", c.URL)
	}
	if u.Host == "" {
		return fmt.Sprintf("citation URL %q has no host", c.URL)
	}
	return ""
}
