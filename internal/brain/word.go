// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"iter"

	"github.com/pdiddy/learning-chatbot/internal/rankmap"
)

const (
	// StartWord is the surface text of the synthetic node that precedes the
	// first word of every utterance.
	StartWord = ""

	// EndWord is the surface text of the synthetic node that follows the last
	// word of every utterance. It never gains successors.
	EndWord = "\n"
)

// RankView is a read-only view of a rank multimap.
type RankView[V comparable] interface {
	Score(item V) (int, bool)
	ValuesAt(rank int) []V
	Max() (int, bool)
	Len() int
	Descending() iter.Seq[V]
	All() iter.Seq2[V, int]
}

// WordNode is one distinct surface word and the transitions observed out of
// it. Successors are referenced by surface text; the owning Engine resolves
// them. Two nodes are the same word iff their surface text is equal.
type WordNode struct {
	word string

	successorCount int
	successors     *rankmap.Map[int, string]

	punctuationCount int
	punctuation      *rankmap.Map[int, rune]
}

// NewWordNode returns a node with no recorded transitions.
func NewWordNode(word string) *WordNode {
	return &WordNode{
		word:        word,
		successors:  rankmap.New[int, string](),
		punctuation: rankmap.New[int, rune](),
	}
}

// Word returns the surface text.
func (n *WordNode) Word() string { return n.word }

// IsEnd reports whether n is the end marker.
func (n *WordNode) IsEnd() bool { return n.word == EndWord }

// RecordSuccessor notes one more observation of next directly after n.
// A successor seen before climbs one rank; a new successor enters at rank 1.
// A nil next is ignored, as is any successor of the end marker.
func (n *WordNode) RecordSuccessor(next *WordNode) {
	if next == nil || n.IsEnd() {
		return
	}
	n.successorCount++
	n.successors.Put(nextRank(n.successors, next.word), next.word)
}

// RecordPunctuation notes one more observation of mark trailing n.
// The zero rune is ignored.
func (n *WordNode) RecordPunctuation(mark rune) {
	if mark == 0 {
		return
	}
	n.punctuationCount++
	n.punctuation.Put(nextRank(n.punctuation, mark), mark)
}

func nextRank[V comparable](m *rankmap.Map[int, V], v V) int {
	if r, ok := m.Score(v); ok {
		return r + 1
	}
	return 1
}

// Successors returns the ranked successor words.
func (n *WordNode) Successors() RankView[string] { return n.successors }

// Punctuation returns the ranked trailing punctuation marks.
func (n *WordNode) Punctuation() RankView[rune] { return n.punctuation }

// SuccessorCount returns the total number of successor observations.
func (n *WordNode) SuccessorCount() int { return n.successorCount }

// PunctuationCount returns the total number of punctuation observations.
func (n *WordNode) PunctuationCount() int { return n.punctuationCount }
