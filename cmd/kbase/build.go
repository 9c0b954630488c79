package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/corpus"
	"github.com/fwojciec/kbase/report"
	"github.com/fwojciec/kbase/validate"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	var blobs []*kbase.Blob
	for _, loc := range c.Locations {
		got, err := deps.Sources.Read(deps.Ctx, loc)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", loc, kbase.ErrorMessage(err))
			return err
		}
		blobs = append(blobs, got...)
	}
	if len(blobs) == 0 {
		err := kbase.Errorf(kbase.EINVALID, "no articles found in %v", c.Locations)
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	builder := c.builder(deps)
	rep, buildErr := builder.Build(deps.Ctx, blobs, progressPrinter(deps.Stderr))
	if rep != nil {
		if err := report.Write(deps.Stdout, rep, format); err != nil {
			return err
		}
	}
	if buildErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(buildErr))
		return buildErr
	}

	if rep.HasErrors() {
		err := kbase.Errorf(kbase.EINVALID, "validation failed with %d error(s); nothing published", rep.Count(kbase.SeverityError))
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}
	return nil
}

// builder applies the command's flags over the configured builder.
func (c *BuildCmd) builder(deps *Dependencies) *corpus.Builder {
	b := *deps.Builder
	if c.Strict {
		var v validate.Validator
		if b.Validator != nil {
			v = *b.Validator
		}
		v.Strict = true
		b.Validator = &v
	}
	if c.Output != "" {
		b.Snapshots = newSnapshotStore(c.Output)
	}
	if c.NoPublish {
		b.Snapshots = nil
	}
	if c.Concurrency > 0 {
		b.Concurrency = c.Concurrency
	}
	return &b
}

// progressPrinter reports documents the loader had to exclude.
func progressPrinter(w io.Writer) corpus.ProgressFunc {
	return func(event corpus.ProgressEvent) {
		if event.Type == corpus.ProgressFailed {
			fmt.Fprintf(w, "skip %s: %s\n", event.Origin, kbase.ErrorMessage(event.Error))
		}
	}
}
