// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/learning-chatbot/pkg/types"
)

func trainedEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t, 5)
	for _, line := range []string{
		"Hello there, friend!",
		"Well, hello again.",
		"So,bob left. Bob left!",
	} {
		e.Decay()
		e.Ingest(line)
	}
	return e
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := trainedEngine(t)
	snap := e.Snapshot()

	restored, err := Restore(snap, types.DefaultEngineConfig())
	require.NoError(t, err)

	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, e.Vocabulary(), restored.Vocabulary())
	assert.Equal(t, e.WordCount(), restored.WordCount())
	assert.Equal(t, successorRank(t, e, "left", "Bob"), successorRank(t, restored, "left", "Bob"))
	assert.Same(t, restored.Start(), mustWord(t, restored, StartWord))
}

func TestSnapshotContents(t *testing.T) {
	e := trainedEngine(t)
	snap := e.Snapshot()

	assert.Equal(t, e.Config().DecayRate, snap.DecayRate)
	assert.Equal(t, e.WordCount(), snap.WordCount)
	require.Len(t, snap.Words, e.Vocabulary()+2)
	assert.Equal(t, StartWord, snap.Words[0].Word, "words are sorted, start marker first")

	var hello types.WordRecord
	for _, rec := range snap.Words {
		if rec.Word == "Hello" {
			hello = rec
		}
	}
	require.NotNil(t, hello.TopicScore)
	assert.Nil(t, hello.LastScore, "Hello is not in the last utterance")
	assert.Equal(t, map[string]int{"there": 1}, hello.Successors)
	assert.Nil(t, hello.Punctuation)
}

func TestRestoreUsesSnapshotDecayRate(t *testing.T) {
	snap := trainedEngine(t).Snapshot()
	snap.DecayRate = 0.5

	cfg := types.DefaultEngineConfig()
	cfg.DecayRate = 0.2
	e, err := Restore(snap, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.Config().DecayRate)
}

func TestRestoreIsDeterministic(t *testing.T) {
	snap := trainedEngine(t).Snapshot()

	generate := func() []string {
		e, err := Restore(snap, types.DefaultEngineConfig(),
			WithRand(rand.New(rand.NewPCG(9, 10))),
			WithClock(func() time.Time { return fixedNow }),
		)
		require.NoError(t, err)
		var out []string
		for range 20 {
			out = append(out, e.Generate())
		}
		return out
	}
	assert.Equal(t, generate(), generate())
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	tests := []struct {
		name   string
		mutate func(s *types.BrainSnapshot)
	}{
		{"negative word count", func(s *types.BrainSnapshot) { s.WordCount = -1 }},
		{"NaN word value", func(s *types.BrainSnapshot) { s.WordValue = nan }},
		{"infinite word value", func(s *types.BrainSnapshot) { s.WordValue = math.Inf(-1) }},
		{"duplicate word", func(s *types.BrainSnapshot) { s.Words = append(s.Words, s.Words[1]) }},
		{"unknown successor", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", Successors: map[string]int{"missing": 1}})
		}},
		{"zero rank", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", Successors: map[string]int{"Hello": 0}})
		}},
		{"multi-character punctuation", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", Punctuation: map[string]int{"?!": 1}})
		}},
		{"negative count", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", SuccessorCount: -2})
		}},
		{"NaN topic score", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", TopicScore: &nan})
		}},
		{"infinite topic score", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", TopicScore: &inf})
		}},
		{"infinite last score", func(s *types.BrainSnapshot) {
			s.Words = append(s.Words, types.WordRecord{Word: "orphan", LastScore: &inf})
		}},
		{"end marker with successors", func(s *types.BrainSnapshot) {
			for i := range s.Words {
				if s.Words[i].Word == EndWord {
					s.Words[i].Successors = map[string]int{"Hello": 1}
				}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := trainedEngine(t).Snapshot()
			tt.mutate(&snap)
			_, err := Restore(snap, types.DefaultEngineConfig())
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestRestoreRejectsBadDecayRate(t *testing.T) {
	snap := trainedEngine(t).Snapshot()
	snap.DecayRate = 1.5
	_, err := Restore(snap, types.DefaultEngineConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func mustWord(t *testing.T, e *Engine, word string) *WordNode {
	t.Helper()
	n, ok := e.Word(word)
	require.True(t, ok)
	return n
}
