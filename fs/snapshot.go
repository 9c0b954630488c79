package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/kbase"
)

// Ensure SnapshotStore implements kbase.SnapshotStore at compile time.
var _ kbase.SnapshotStore = (*SnapshotStore)(nil)

// Files written to a snapshot directory.
const (
	ArticlesDir = "articles"
	IndexFile   = "index.json"
	GraphFile   = "graph.json"
	ReportFile  = "report.json"
)

// SnapshotStore implements kbase.SnapshotStore with atomic update semantics.
// Snapshots are saved to a temporary directory, then moved atomically on Commit.
type SnapshotStore struct {
	baseDir string
	name    string
}

// NewSnapshotStore creates a new SnapshotStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewSnapshotStore(baseDir, name string) *SnapshotStore {
	return &SnapshotStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *SnapshotStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *SnapshotStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the snapshot to the temporary directory, replacing anything
// left there by an earlier aborted run.
func (s *SnapshotStore) Save(ctx context.Context, snap *kbase.Snapshot) error {
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return err
	}
	articlesDir := filepath.Join(s.tempDir(), ArticlesDir)
	if err := os.MkdirAll(articlesDir, 0755); err != nil {
		return err
	}

	for _, a := range snap.Articles {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(articlesDir, a.ID+".md")
		if err := os.WriteFile(path, []byte(kbase.FormatArticle(a)), 0644); err != nil {
			return err
		}
	}

	terms := snap.Terms
	if terms == nil {
		terms = []kbase.TermEntry{}
	}
	edges := snap.Edges
	if edges == nil {
		edges = []kbase.Edge{}
	}

	if err := writeJSON(filepath.Join(s.tempDir(), IndexFile), terms); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(s.tempDir(), GraphFile), edges); err != nil {
		return err
	}
	if snap.Report != nil {
		if err := writeJSON(filepath.Join(s.tempDir(), ReportFile), snap.Report); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Commit replaces the published directory with the saved snapshot.
func (s *SnapshotStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved snapshot.
func (s *SnapshotStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
