package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/graph"
	"github.com/fwojciec/kbase/validate"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents parsed in parallel.
const DefaultConcurrency = 8

// Builder loads batches of articles into a Corpus. Per-document parsing
// and fragment building run in parallel; merging into the shared index and
// graph happens in a single goroutine.
type Builder struct {
	Corpus      *Corpus
	Validator   *validate.Validator
	Articles    kbase.ArticleService  // Optional persistence for changed articles
	Fragments   kbase.FragmentService // Optional persistence for changed fragments
	Builds      kbase.BuildService    // Optional build history
	Snapshots   kbase.SnapshotStore   // Optional publication target
	Logger      *slog.Logger
	Concurrency int
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Origin    string
	ArticleID string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressParsed
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

// parseResult holds the outcome of processing a single document.
type parseResult struct {
	position int
	origin   string
	article  *kbase.Article
	fragment *kbase.Fragment // nil when the content-hash gate skipped the article
	err      error
}

// Build parses, indexes, validates and (when clean) publishes a batch.
//
// A malformed document is excluded and reported; the rest of the batch
// continues. Duplicate KB-IDs within the batch abort it before anything is
// merged, returning EDUPLICATE together with the report. A merge that
// corrupts the index triggers a full re-index; ECORRUPT is returned if that
// does not repair it. Validation errors leave the merged state in place
// but the batch is not published.
//
// The report is always returned, finished and recorded, including when Build
// fails; it lists every violation known at the point of failure.
func (b *Builder) Build(ctx context.Context, blobs []*kbase.Blob, progress ProgressFunc) (*kbase.Report, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	validator := b.Validator
	if validator == nil {
		validator = &validate.Validator{}
	}

	report := &kbase.Report{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	var docs []kbase.RawDocument
	for _, blob := range blobs {
		docs = append(docs, kbase.SplitBundle(blob)...)
	}

	results := b.parseAll(ctx, docs, progress)

	// Reduce: everything below runs on this goroutine only.
	var batch []*kbase.Article
	var failures []validate.Failure
	for _, r := range results {
		if r.err != nil {
			logger.Warn("excluded document", "origin", r.origin, "err", kbase.ErrorMessage(r.err))
			failures = append(failures, validate.Failure{Origin: r.origin, Err: r.err})
			continue
		}
		batch = append(batch, r.article)
	}
	report.Excluded = len(failures)

	if err := ctx.Err(); err != nil {
		report.Violations = validator.Validate(validate.Input{Failures: failures})
		report.Articles = b.Corpus.Len()
		b.finish(ctx, report, progress, len(docs), logger)
		return report, err
	}

	if dups := duplicateIDs(batch); len(dups) > 0 {
		b.Corpus.mu.RLock()
		scratch := scratchGraph(b.Corpus.sortedArticles(false), batch)
		report.Articles = len(b.Corpus.articles)
		b.Corpus.mu.RUnlock()

		report.Violations = validator.Validate(validate.Input{
			Articles: batch,
			Graph:    scratch,
			Failures: failures,
		})
		b.finish(ctx, report, progress, len(docs), logger)
		return report, kbase.Errorf(kbase.EDUPLICATE, "duplicate article IDs in batch: %s", strings.Join(dups, ", "))
	}

	var changed []*kbase.Fragment
	var changedArticles []*kbase.Article
	b.Corpus.mu.Lock()
	for _, r := range results {
		if r.err != nil {
			continue
		}
		if r.fragment == nil {
			report.Unchanged++
			continue
		}
		b.Corpus.put(r.article, r.fragment)
		changed = append(changed, r.fragment)
		changedArticles = append(changedArticles, r.article)
	}
	var corruptErr error
	if err := b.Corpus.index.Check(); err != nil {
		logger.Error("index corrupted by merge, re-indexing", "err", kbase.ErrorMessage(err))
		changed = b.Corpus.reindex()
		changedArticles = b.Corpus.sortedArticles(false)
		corruptErr = b.Corpus.index.Check()
	}
	report.Indexed = len(changed)
	b.Corpus.mu.Unlock()

	if corruptErr != nil {
		report.Violations = b.validate(validator, failures, report)
		b.finish(ctx, report, progress, len(docs), logger)
		return report, corruptErr
	}

	if err := b.persist(ctx, changedArticles, changed); err != nil {
		report.Violations = b.validate(validator, failures, report)
		b.finish(ctx, report, progress, len(docs), logger)
		return report, fmt.Errorf("persist: %w", err)
	}

	report.Violations = b.validate(validator, failures, report)

	var publishErr error
	if !report.HasErrors() {
		report.Published = true
		report.FinishedAt = time.Now().UTC()
		if err := b.publish(ctx, report); err != nil {
			report.Published = false
			publishErr = fmt.Errorf("publish: %w", err)
		}
	}

	b.finish(ctx, report, progress, len(docs), logger)
	return report, publishErr
}

// validate runs the validator over the whole corpus and stamps the article
// count on report.
func (b *Builder) validate(v *validate.Validator, failures []validate.Failure, report *kbase.Report) []kbase.Violation {
	b.Corpus.mu.RLock()
	defer b.Corpus.mu.RUnlock()
	report.Articles = len(b.Corpus.articles)
	return v.Validate(validate.Input{
		Articles: b.Corpus.sortedArticles(false),
		Graph:    b.Corpus.graph,
		Index:    b.Corpus.index,
		Failures: failures,
	})
}

// parseAll parses documents concurrently and returns results in input order.
func (b *Builder) parseAll(ctx context.Context, docs []kbase.RawDocument, progress ProgressFunc) []parseResult {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan parseResult, len(docs))
	var completed atomic.Int64
	total := len(docs)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, doc := range docs {
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				resultCh <- b.parseOne(i, doc)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]parseResult, 0, len(docs))
	for result := range resultCh {
		completed.Add(1)
		results = append(results, result)

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressParsed,
			Completed: int(completed.Load()),
			Total:     total,
			Origin:    result.origin,
		}
		if result.err != nil {
			event.Type = ProgressFailed
			event.Error = result.err
		} else {
			event.ArticleID = result.article.ID
		}
		progress(event)
	}

	slices.SortFunc(results, func(x, y parseResult) int {
		return x.position - y.position
	})
	return results
}

// parseOne parses one document and, unless the corpus already indexes the
// same content, builds its index fragment.
func (b *Builder) parseOne(position int, doc kbase.RawDocument) parseResult {
	result := parseResult{position: position, origin: doc.Origin}

	article, err := kbase.ParseArticle(doc)
	if err != nil {
		result.err = err
		return result
	}
	result.article = article

	if !b.Corpus.unchanged(article) {
		result.fragment = b.Corpus.tokenizer.Fragment(article)
	}
	return result
}

func (b *Builder) persist(ctx context.Context, articles []*kbase.Article, frags []*kbase.Fragment) error {
	if b.Articles != nil {
		for _, a := range articles {
			if err := b.Articles.SaveArticle(ctx, a); err != nil {
				return err
			}
		}
	}
	if b.Fragments != nil {
		for _, frag := range frags {
			if err := b.Fragments.SaveFragment(ctx, frag); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) publish(ctx context.Context, report *kbase.Report) error {
	if b.Snapshots == nil {
		return nil
	}
	if err := b.Snapshots.Save(ctx, b.Corpus.Snapshot(report)); err != nil {
		_ = b.Snapshots.Abort()
		return err
	}
	return b.Snapshots.Commit()
}

// finish stamps the report, records it and emits the final progress event.
// Recording outlives cancellation of ctx so failed builds stay in history.
func (b *Builder) finish(ctx context.Context, report *kbase.Report, progress ProgressFunc, total int, logger *slog.Logger) {
	if report.FinishedAt.IsZero() {
		report.FinishedAt = time.Now().UTC()
	}

	if b.Builds != nil {
		if err := b.Builds.CreateBuild(context.WithoutCancel(ctx), report); err != nil {
			logger.Error("record build", "build", report.ID, "err", err)
		}
	}

	logger.Info("build finished",
		"build", report.ID,
		"articles", report.Articles,
		"indexed", report.Indexed,
		"unchanged", report.Unchanged,
		"excluded", report.Excluded,
		"errors", report.Count(kbase.SeverityError),
		"warnings", report.Count(kbase.SeverityWarning),
		"published", report.Published,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
}

// duplicateIDs returns the sorted IDs that occur more than once.
func duplicateIDs(articles []*kbase.Article) []string {
	counts := make(map[string]int, len(articles))
	var dups []string
	for _, a := range articles {
		counts[a.ID]++
		if counts[a.ID] == 2 {
			dups = append(dups, a.ID)
		}
	}
	slices.Sort(dups)
	return dups
}

// scratchGraph links the batch against the existing corpus without
// touching the corpus graph. The first article with a given ID wins.
func scratchGraph(existing, batch []*kbase.Article) *graph.Graph {
	g := graph.New()
	for _, a := range existing {
		g.SetArticle(a.ID, a.Related)
	}
	placed := make(map[string]bool)
	for _, a := range batch {
		if placed[a.ID] {
			continue
		}
		placed[a.ID] = true
		g.SetArticle(a.ID, a.Related)
	}
	return g
}
