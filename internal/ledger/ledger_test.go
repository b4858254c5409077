// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubimport/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, types.SourceSemanticScholar, "12345")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	rec := s.Recorder(run)
	require.NoError(t, rec.Record(ctx, "/site/_publications/2023/2023-a.md",
		types.Publication{Title: "A", Year: 2023, Source: types.SourceSemanticScholar}))
	require.NoError(t, s.FinishRun(ctx, run, 1))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "12345", runs[0].Identifier)
	assert.Equal(t, 1, runs[0].Written)
	assert.True(t, runs[0].FinishedAt.After(runs[0].StartedAt))

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Title)
	assert.Equal(t, 2023, entries[0].Year)
	assert.Equal(t, run.ID, entries[0].RunID)
}

func TestRecordUpsertsLatestState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	path := "/site/_publications/2021/2021-graph-nets.md"

	first, err := s.BeginRun(ctx, types.SourceGoogleScholar, "u1")
	require.NoError(t, err)
	require.NoError(t, s.Recorder(first).Record(ctx, path, types.Publication{Title: "Graph Nets!", Year: 2021}))

	second, err := s.BeginRun(ctx, types.SourceGoogleScholar, "u1")
	require.NoError(t, err)
	require.NoError(t, s.Recorder(second).Record(ctx, path, types.Publication{Title: "Graph Nets?", Year: 2021}))

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Graph Nets?", entries[0].Title)
	assert.Equal(t, second.ID, entries[0].RunID)

	collisions, err := s.Collisions(ctx)
	require.NoError(t, err)
	require.Len(t, collisions, 1)
	assert.Equal(t, path, collisions[0].Path)
	assert.Equal(t, []string{"Graph Nets!", "Graph Nets?"}, collisions[0].Titles)
}

func TestRewritingSameTitleIsNotACollision(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run, err := s.BeginRun(ctx, types.SourceGoogleScholar, "u1")
		require.NoError(t, err)
		require.NoError(t, s.Recorder(run).Record(ctx, "/p.md", types.Publication{Title: "Same", Year: 2020}))
	}

	collisions, err := s.Collisions(ctx)
	require.NoError(t, err)
	assert.Empty(t, collisions)
}

func TestRunsMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.BeginRun(ctx, types.SourceGoogleScholar, "a")
	require.NoError(t, err)
	b, err := s.BeginRun(ctx, types.SourceSemanticScholar, "b")
	require.NoError(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, b.ID, runs[0].ID)
	assert.Equal(t, a.ID, runs[1].ID)
	assert.True(t, runs[0].FinishedAt.IsZero(), "unfinished run has no finish time")
}
