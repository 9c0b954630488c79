package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/config"
	"github.com/fwojciec/kbase/corpus"
	"github.com/fwojciec/kbase/validate"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *config.Config
	Articles  kbase.ArticleService
	Builds    kbase.BuildService
	Sources   kbase.SourceReader
	Corpus    *corpus.Corpus
	Query     kbase.CorpusService
	Builder   *corpus.Builder
	Validator *validate.Validator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" type:"path" help:"Config file (default $KBASE_CONFIG or ~/.kbase/config.yaml)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Build     BuildCmd     `cmd:"" help:"Load, index, validate and publish articles"`
	Validate  ValidateCmd  `cmd:"" help:"Validate the stored corpus"`
	Get       GetCmd       `cmd:"" help:"Show an article"`
	Search    SearchCmd    `cmd:"" help:"Full-text search over articles"`
	Related   RelatedCmd   `cmd:"" help:"List related articles"`
	List      ListCmd      `cmd:"" help:"List stored articles"`
	Deprecate DeprecateCmd `cmd:"" help:"Mark an article as deprecated"`
	Builds    BuildsCmd    `cmd:"" help:"Show build history"`
	Serve     ServeCmd     `cmd:"" help:"Serve the corpus as MCP tools over stdio"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Locations   []string `arg:"" help:"Files, directories or URLs to load"`
	Strict      bool     `help:"Treat dangling references as errors"`
	Output      string   `short:"o" help:"Publish directory (default from config)"`
	NoPublish   bool     `help:"Validate without writing a snapshot"`
	Format      string   `short:"f" default:"text" enum:"text,markdown,json" help:"Report format"`
	Concurrency int      `short:"c" help:"Documents parsed in parallel (default from config)"`
	Render      bool     `help:"Load remote HTML pages in headless Chrome (for JavaScript-built help centers)"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Strict bool   `help:"Treat dangling references as errors"`
	Format string `short:"f" default:"text" enum:"text,markdown,json" help:"Report format"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	ID   string `arg:"" help:"Article ID (e.g. KB-020)"`
	JSON bool   `help:"Print the article as JSON"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query             []string `arg:"" help:"Search terms; quote for a phrase"`
	Limit             int      `short:"n" default:"10" help:"Maximum results (0 for all)"`
	IncludeDeprecated bool     `help:"Include deprecated articles"`
}

// RelatedCmd is the "related" subcommand.
type RelatedCmd struct {
	ID        string `arg:"" help:"Article ID"`
	Backlinks bool   `help:"List articles linking to this one instead"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Difficulty string `help:"Filter by difficulty (beginner, intermediate, advanced)"`
	Deprecated bool   `help:"Only deprecated articles"`
	Full       bool   `help:"Print each article in full"`
}

// DeprecateCmd is the "deprecate" subcommand.
type DeprecateCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// BuildsCmd is the "builds" subcommand.
type BuildsCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of builds to show"`
	ID    string `help:"Show the full report of one build"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
