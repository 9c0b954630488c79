package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/config"
	"github.com/fwojciec/kbase/corpus"
	"github.com/fwojciec/kbase/fs"
	"github.com/fwojciec/kbase/goquery"
	"github.com/fwojciec/kbase/htmltomarkdown"
	kbhttp "github.com/fwojciec/kbase/http"
	"github.com/fwojciec/kbase/index"
	"github.com/fwojciec/kbase/readability"
	"github.com/fwojciec/kbase/rod"
	kbslog "github.com/fwojciec/kbase/slog"
	"github.com/fwojciec/kbase/sqlite"
	"github.com/fwojciec/kbase/trafilatura"
	"github.com/fwojciec/kbase/validate"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Home directory used to resolve default paths. Set before calling Run().
	Home string

	// Stdin is read by the serve command.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Main{
		Home:  home,
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kbase"),
		kong.Description("Build, validate and query a knowledge-base article corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'kbase --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := config.Load(config.Path(cli.Config, m.Home), m.Home, cli.Config != "")
	if err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Config = cfg
	deps.Logger = logger

	if dir := filepath.Dir(cfg.Database); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(cfg.Database)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", config.EnvDatabase)
		return fmt.Errorf("failed to open database at %q: %w", cfg.Database, err)
	}
	defer m.Close()

	articles := sqlite.NewArticleService(m.DB)
	fragments := sqlite.NewFragmentService(m.DB)
	builds := sqlite.NewBuildService(m.DB)
	deps.Articles = articles
	deps.Builds = builds

	switch cmd {
	case "list", "deprecate", "builds":
		return kongCtx.Run(deps)
	}

	c := corpus.New(index.NewTokenizer(cfg.Stopwords...))
	if err := restore(ctx, c, articles, fragments, logger); err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	deps.Corpus = c
	deps.Query = kbslog.NewLoggingCorpusService(c, logger)
	deps.Validator = &validate.Validator{
		MandatorySections: cfg.MandatorySections,
		Strict:            cfg.Strict,
	}

	if cmd == "build" {
		var renderer kbase.Renderer
		if cli.Build.Render {
			r, err := rod.NewRenderer()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer r.Close()
			renderer = kbslog.NewLoggingRenderer(r, logger)
		}

		deps.Sources = newSources(cfg, renderer, logger)
		deps.Builder = &corpus.Builder{
			Corpus:      c,
			Validator:   deps.Validator,
			Articles:    articles,
			Fragments:   fragments,
			Builds:      builds,
			Snapshots:   newSnapshotStore(cfg.Output),
			Logger:      logger,
			Concurrency: cfg.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}

// restore loads the stored corpus and persists the index again when the
// stored one had to be rebuilt.
func restore(ctx context.Context, c *corpus.Corpus, articles kbase.ArticleService, fragments *sqlite.FragmentService, logger *slog.Logger) error {
	rebuilt, err := c.Restore(ctx, articles, fragments)
	if err != nil {
		return err
	}
	if rebuilt == nil {
		return nil
	}

	logger.Warn("stored index inconsistent, re-indexed from articles", "articles", len(rebuilt))
	if err := fragments.DeleteFragments(ctx); err != nil {
		return err
	}
	for _, frag := range rebuilt {
		if err := fragments.SaveFragment(ctx, frag); err != nil {
			return err
		}
	}
	return nil
}

// newSources returns a reader that fetches http(s) locations over the
// network and reads everything else from disk. Both convert HTML exports:
// known documentation containers first, then readability scoring, then
// trafilatura. A non-nil renderer loads remote pages in a browser.
func newSources(cfg *config.Config, renderer kbase.Renderer, logger *slog.Logger) kbase.SourceReader {
	extractor := kbase.ExtractorChain{
		&goquery.Extractor{RequireContainer: true},
		readability.NewExtractor(),
		trafilatura.NewExtractor(),
	}
	converter := htmltomarkdown.NewConverter()

	local := fs.NewSource()
	local.Extractor = extractor
	local.Converter = converter

	opts := []kbhttp.Option{
		kbhttp.WithHTML(extractor, converter),
		kbhttp.WithLogger(logger),
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, kbhttp.WithConcurrency(cfg.Concurrency))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, kbhttp.WithRateLimit(cfg.RateLimit))
	}
	if cfg.FetchTimeout > 0 {
		opts = append(opts, kbhttp.WithTimeout(cfg.FetchTimeout))
	}
	if renderer != nil {
		opts = append(opts, kbhttp.WithRenderer(renderer))
	}

	return &sourceRouter{
		Local:  kbslog.NewLoggingSourceReader(local, logger),
		Remote: kbslog.NewLoggingSourceReader(kbhttp.NewSource(opts...), logger),
	}
}

// newSnapshotStore publishes to the output directory.
func newSnapshotStore(output string) *fs.SnapshotStore {
	output = filepath.Clean(output)
	return fs.NewSnapshotStore(filepath.Dir(output), filepath.Base(output))
}
