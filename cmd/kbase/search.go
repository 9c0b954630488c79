package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/kbase"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")
	results, err := deps.Query.Search(deps.Ctx, query, kbase.SearchOptions{
		Limit:             c.Limit,
		IncludeDeprecated: c.IncludeDeprecated,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No articles match %q.\n", query)
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%s  %s  (%.2f)\n", r.ID, r.Title, r.Score)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", r.Snippet)
		}
	}
	return nil
}
