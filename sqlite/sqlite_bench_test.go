package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkSaveFragment measures persisting index fragments, the dominant
// write during a full rebuild.
func BenchmarkSaveFragment(b *testing.B) {
	b.Run("memory", func(b *testing.B) {
		benchmarkSaveFragment(b, ":memory:")
	})

	b.Run("wal_file", func(b *testing.B) {
		benchmarkSaveFragment(b, filepath.Join(b.TempDir(), "bench.db"))
	})
}

func benchmarkSaveFragment(b *testing.B, path string) {
	b.Helper()

	db := sqlite.NewDB(path)
	require.NoError(b, db.Open())
	defer func() {
		db.Close()
		os.Remove(path + "-wal")
		os.Remove(path + "-shm")
	}()

	ctx := context.Background()
	svc := sqlite.NewFragmentService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("KB-%03d", i%1000)
		frag := &kbase.Fragment{
			ArticleID:   id,
			ContentHash: fmt.Sprintf("%016x", i),
			Terms:       make(map[string][]kbase.Posting),
		}
		for j := 0; j < 50; j++ {
			term := fmt.Sprintf("term%d", j)
			frag.Terms[term] = []kbase.Posting{{ArticleID: id, Section: j % 5, Field: kbase.FieldBody, Offset: j}}
		}
		if err := svc.SaveFragment(ctx, frag); err != nil {
			b.Fatal(err)
		}
	}
}
