package main

import (
	"fmt"

	"github.com/fwojciec/kbase"
)

// Run executes the related command. Targets missing from the corpus are
// listed with a marker instead of a title.
func (c *RelatedCmd) Run(deps *Dependencies) error {
	var ids []string
	var err error
	if c.Backlinks {
		ids, err = deps.Corpus.Backlinks(deps.Ctx, c.ID)
	} else {
		ids, err = deps.Query.GetRelated(deps.Ctx, c.ID)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	if len(ids) == 0 {
		fmt.Fprintf(deps.Stdout, "No related articles for %s.\n", kbase.NormalizeID(c.ID))
		return nil
	}

	for _, id := range ids {
		a, err := deps.Query.GetArticle(deps.Ctx, id)
		switch {
		case kbase.ErrorCode(err) == kbase.ENOTFOUND:
			fmt.Fprintf(deps.Stdout, "%s  (not in corpus)\n", id)
		case err != nil:
			fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
			return err
		default:
			fmt.Fprintf(deps.Stdout, "%s  %s\n", a.ID, a.Title)
		}
	}
	return nil
}
