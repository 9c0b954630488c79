package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/mcp"
)

// Run executes the serve command. It blocks until stdin closes or the
// context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	deps.Logger.Info("serving MCP over stdio", "articles", deps.Corpus.Len(), "version", version)

	s := mcp.NewServer(deps.Query, version)
	err := mcp.ServeStdio(deps.Ctx, s, deps.Stdin, deps.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}
	return nil
}
