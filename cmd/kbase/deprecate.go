package main

import (
	"fmt"

	"github.com/fwojciec/kbase"
)

// Run executes the deprecate command.
func (c *DeprecateCmd) Run(deps *Dependencies) error {
	id := kbase.NormalizeID(c.ID)
	if err := deps.Articles.DeprecateArticle(deps.Ctx, id); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deprecated %s\n", id)
	return nil
}
