// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/learning-chatbot/internal/brain"
	"github.com/pdiddy/learning-chatbot/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Path: filepath.Join(t.TempDir(), "data", "brains.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot(t *testing.T, lines ...string) types.BrainSnapshot {
	t.Helper()
	e, err := brain.New(types.DefaultEngineConfig(), brain.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	for _, line := range lines {
		e.Decay()
		e.Ingest(line)
	}
	return e.Snapshot()
}

// --- store ---

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore(types.StoreConfig{}, nil)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	snap := testSnapshot(t, "Hello there, friend!", "What? Who said that?", "So,bob left. Bob left!")

	require.NoError(t, s.Save(ctx, "greeter", snap))

	got, err := s.Load(ctx, "greeter")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	restored, err := brain.Restore(got, types.DefaultEngineConfig())
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
}

func TestSaveReplacesBrain(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "b", testSnapshot(t, "first version here")))
	before, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	s.now = func() time.Time { return before[0].UpdatedAt.Add(time.Hour) }
	second := testSnapshot(t, "second version", "with more words")
	require.NoError(t, s.Save(ctx, "b", second))

	got, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	after, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID, "id survives a save")
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt)
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt))
	assert.Equal(t, 5, after[0].Words)
}

func TestLoadMissingBrain(t *testing.T) {
	s := testStore(t)
	_, err := s.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrBrainNotFound)
}

func TestSaveRejectsEmptyName(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.Save(context.Background(), "", testSnapshot(t, "words")))
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, s.Save(ctx, "zeta", testSnapshot(t, "one two three")))
	require.NoError(t, s.Save(ctx, "alpha", testSnapshot(t, "four five", "four six")))

	infos, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, 3, infos[0].Words, "markers are not counted")
	assert.Equal(t, 4, infos[0].WordCount)
	assert.Equal(t, "zeta", infos[1].Name)
	assert.Equal(t, 3, infos[1].Words)
	assert.NotEqual(t, infos[0].ID, infos[1].ID)
	assert.False(t, infos[0].CreatedAt.IsZero())
}

func TestListRejectsCorruptTimestamps(t *testing.T) {
	tests := []struct {
		name   string
		column string
	}{
		{"created", "created_at"},
		{"updated", "updated_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "b", testSnapshot(t, "some words")))

			_, err := s.db.ExecContext(ctx, `UPDATE brains SET `+tt.column+` = 'yesterday'`)
			require.NoError(t, err)

			_, err = s.List(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.column)
			var perr *time.ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "gone", testSnapshot(t, "short lived brain")))

	require.NoError(t, s.Delete(ctx, "gone"))
	_, err := s.Load(ctx, "gone")
	assert.ErrorIs(t, err, ErrBrainNotFound)

	var rows int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM words`).Scan(&rows))
	assert.Zero(t, rows, "words cascade with their brain")

	assert.ErrorIs(t, s.Delete(ctx, "gone"), ErrBrainNotFound)
}

// --- export and import ---

func TestExportImportRoundTrip(t *testing.T) {
	snap := testSnapshot(t, "Is it? Yes: it is!", "well-known words, don't they?")

	tests := []struct {
		name   string
		file   string
		export func(path string, snap types.BrainSnapshot, force bool) error
	}{
		{"yaml", "brain.yaml", ExportYAML},
		{"json", "brain.json", ExportJSON},
		{"by extension yaml", "brain.yml", Export},
		{"by extension json", "brain.JSON", Export},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", tt.file)
			require.NoError(t, tt.export(path, snap, false))

			got, err := ImportFile(path)
			require.NoError(t, err)
			assert.Equal(t, snap, got)
		})
	}
}

func TestExportRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brain.yaml")
	first := testSnapshot(t, "first")
	second := testSnapshot(t, "second words")

	require.NoError(t, ExportYAML(path, first, false))
	assert.ErrorIs(t, ExportYAML(path, second, false), ErrExists)

	got, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, got, "refused export leaves the file alone")

	require.NoError(t, ExportYAML(path, second, true))
	got, err = ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestImportFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = ImportFile(bad)
	assert.Error(t, err)
}
