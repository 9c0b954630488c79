package kbase

import "context"

// SourceReader reads raw article blobs from a location.
type SourceReader interface {
	// Read returns the blobs found at location. A directory location yields
	// one blob per article file beneath it.
	Read(ctx context.Context, location string) ([]*Blob, error)
}

// Snapshot is the published state of a corpus.
type Snapshot struct {
	Articles []*Article
	Terms    []TermEntry
	Edges    []Edge
	Report   *Report
}

// SnapshotStore persists published snapshots with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Commit() error
	Abort() error
}
