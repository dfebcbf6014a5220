// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/pdiddy/learning-chatbot/pkg/types"
)

// ErrCorruptSnapshot is returned by Restore when a snapshot cannot describe
// a valid brain.
var ErrCorruptSnapshot = errors.New("brain: corrupt snapshot")

// Snapshot captures the full learned state. Words are sorted by surface text.
func (e *Engine) Snapshot() types.BrainSnapshot {
	snap := types.BrainSnapshot{
		DecayRate: e.cfg.DecayRate,
		WordCount: e.wordCount,
		WordValue: e.wordValue,
		Words:     make([]types.WordRecord, 0, len(e.words)),
	}

	for _, word := range slices.Sorted(maps.Keys(e.words)) {
		n := e.words[word]
		rec := types.WordRecord{
			Word:             word,
			SuccessorCount:   n.successorCount,
			PunctuationCount: n.punctuationCount,
		}
		if s, ok := e.topics.Score(word); ok {
			rec.TopicScore = &s
		}
		if s, ok := e.last.Score(word); ok {
			rec.LastScore = &s
		}
		if n.successors.Len() > 0 {
			rec.Successors = make(map[string]int, n.successors.Len())
			for next, rank := range n.successors.All() {
				rec.Successors[next] = rank
			}
		}
		if n.punctuation.Len() > 0 {
			rec.Punctuation = make(map[string]int, n.punctuation.Len())
			for mark, rank := range n.punctuation.All() {
				rec.Punctuation[string(mark)] = rank
			}
		}
		snap.Words = append(snap.Words, rec)
	}
	return snap
}

// Restore rebuilds an engine from a snapshot. Rank buckets are reconstructed
// from the per-word lookups in sorted order, so a given snapshot always
// restores to the same engine. The snapshot's decay rate replaces the one in
// cfg.
func Restore(snap types.BrainSnapshot, cfg types.EngineConfig, opts ...Option) (*Engine, error) {
	cfg.DecayRate = snap.DecayRate
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if snap.WordCount < 0 || !finite(snap.WordValue) {
		return nil, fmt.Errorf("%w: bad totals", ErrCorruptSnapshot)
	}
	e.wordCount = snap.WordCount
	e.wordValue = snap.WordValue

	seen := make(map[string]bool, len(snap.Words))
	for _, rec := range snap.Words {
		if seen[rec.Word] {
			return nil, fmt.Errorf("%w: duplicate word %q", ErrCorruptSnapshot, rec.Word)
		}
		seen[rec.Word] = true
		e.lookupOrCreate(rec.Word)
	}

	for _, rec := range snap.Words {
		if err := e.restoreWord(rec); err != nil {
			return nil, fmt.Errorf("%w: word %q: %v", ErrCorruptSnapshot, rec.Word, err)
		}
	}
	return e, nil
}

func (e *Engine) restoreWord(rec types.WordRecord) error {
	n := e.words[rec.Word]
	if n.IsEnd() && len(rec.Successors) > 0 {
		return errors.New("end marker has successors")
	}
	if rec.SuccessorCount < 0 || rec.PunctuationCount < 0 {
		return errors.New("negative observation count")
	}

	for _, next := range slices.Sorted(maps.Keys(rec.Successors)) {
		rank := rec.Successors[next]
		if rank < 1 {
			return fmt.Errorf("successor %q has rank %d", next, rank)
		}
		if _, ok := e.words[next]; !ok {
			return fmt.Errorf("unknown successor %q", next)
		}
		n.successors.Put(rank, next)
	}

	for _, mark := range slices.Sorted(maps.Keys(rec.Punctuation)) {
		rank := rec.Punctuation[mark]
		if utf8.RuneCountInString(mark) != 1 {
			return fmt.Errorf("punctuation %q is not a single character", mark)
		}
		if rank < 1 {
			return fmt.Errorf("punctuation %q has rank %d", mark, rank)
		}
		r, _ := utf8.DecodeRuneInString(mark)
		n.punctuation.Put(rank, r)
	}

	n.successorCount = rec.SuccessorCount
	n.punctuationCount = rec.PunctuationCount

	if rec.TopicScore != nil {
		if !finite(*rec.TopicScore) {
			return fmt.Errorf("topic score is %v", *rec.TopicScore)
		}
		e.topics.Put(*rec.TopicScore, rec.Word)
	}
	if rec.LastScore != nil {
		if !finite(*rec.LastScore) {
			return fmt.Errorf("last score is %v", *rec.LastScore)
		}
		e.last.Put(*rec.LastScore, rec.Word)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
