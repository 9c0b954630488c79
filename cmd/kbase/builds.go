package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/report"
)

// Run executes the builds command.
func (c *BuildsCmd) Run(deps *Dependencies) error {
	filter := kbase.BuildFilter{Limit: c.Limit}
	if c.ID != "" {
		filter = kbase.BuildFilter{ID: &c.ID}
	}

	builds, err := deps.Builds.FindBuilds(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	if c.ID != "" {
		if len(builds) == 0 {
			err := kbase.Errorf(kbase.ENOTFOUND, "build %s not found", c.ID)
			fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
			return err
		}
		return report.Write(deps.Stdout, builds[0], report.FormatText)
	}

	if len(builds) == 0 {
		fmt.Fprintln(deps.Stdout, "No builds recorded yet.")
		return nil
	}

	for _, b := range builds {
		status := "not published"
		if b.Published {
			status = "published"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d articles  %d errors  %d warnings  %s\n",
			b.ID,
			b.StartedAt.Local().Format(time.DateTime),
			b.Articles,
			b.Count(kbase.SeverityError),
			b.Count(kbase.SeverityWarning),
			status,
		)
	}
	return nil
}
