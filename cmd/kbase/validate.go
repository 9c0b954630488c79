package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/report"
)

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	v := *deps.Validator
	if c.Strict {
		v.Strict = true
	}

	started := time.Now().UTC()
	rep := &kbase.Report{
		Articles:   deps.Corpus.Len(),
		Violations: deps.Corpus.Validate(&v),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if err := report.Write(deps.Stdout, rep, format); err != nil {
		return err
	}

	if rep.HasErrors() {
		err := kbase.Errorf(kbase.EINVALID, "validation failed with %d error(s)", rep.Count(kbase.SeverityError))
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}
	return nil
}
