package main

import (
	"fmt"

	"github.com/fwojciec/kbase"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := kbase.ArticleFilter{}
	if c.Difficulty != "" {
		d := kbase.ParseDifficulty(c.Difficulty)
		if d == kbase.DifficultyUnknown {
			err := kbase.Errorf(kbase.EINVALID, "unknown difficulty %q", c.Difficulty)
			fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
			return err
		}
		filter.Difficulty = &d
	}
	if c.Deprecated {
		deprecated := true
		filter.Deprecated = &deprecated
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'kbase build' to load some.")
		return nil
	}

	if c.Full {
		fmt.Fprintln(deps.Stdout, kbase.FormatArticles(articles))
		return nil
	}

	for _, a := range articles {
		line := fmt.Sprintf("%s  %s  %s", a.ID, a.Title, a.Difficulty)
		if a.Deprecated {
			line += "  [deprecated]"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}
