package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var (
	_ kbase.SourceReader  = (*SourceReader)(nil)
	_ kbase.SnapshotStore = (*SnapshotStore)(nil)
)

// SourceReader is a mock implementation of kbase.SourceReader.
type SourceReader struct {
	ReadFn func(ctx context.Context, location string) ([]*kbase.Blob, error)
}

func (r *SourceReader) Read(ctx context.Context, location string) ([]*kbase.Blob, error) {
	return r.ReadFn(ctx, location)
}

// SnapshotStore is a mock implementation of kbase.SnapshotStore.
type SnapshotStore struct {
	SaveFn   func(ctx context.Context, snap *kbase.Snapshot) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *SnapshotStore) Save(ctx context.Context, snap *kbase.Snapshot) error {
	return s.SaveFn(ctx, snap)
}

func (s *SnapshotStore) Commit() error {
	return s.CommitFn()
}

func (s *SnapshotStore) Abort() error {
	return s.AbortFn()
}
