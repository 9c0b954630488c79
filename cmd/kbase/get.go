package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/kbase"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	article, err := deps.Query.GetArticle(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	}

	if article.Deprecated {
		fmt.Fprintf(deps.Stdout, "<!-- %s is deprecated -->\n\n", article.ID)
	}
	fmt.Fprint(deps.Stdout, kbase.FormatArticle(article))
	return nil
}
