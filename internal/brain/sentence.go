// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"errors"
	"strings"
)

var (
	// ErrNilWord is returned when a nil node is used as a sentence word.
	ErrNilWord = errors.New("brain: nil word")

	// ErrNoPunctuation is returned when the zero rune is appended as punctuation.
	ErrNoPunctuation = errors.New("brain: zero punctuation mark")
)

// element is either a word or a punctuation mark.
type element struct {
	word *WordNode
	mark rune
}

// Sentence is an ordered run of words with interleaved punctuation.
// Membership of words is tracked for constant-time loop checks.
type Sentence struct {
	elems   []element
	members map[string]struct{}
}

// NewSentence starts a sentence anchored on a single word.
func NewSentence(anchor *WordNode) (*Sentence, error) {
	if anchor == nil {
		return nil, ErrNilWord
	}
	return newSentence(anchor), nil
}

func newSentence(anchor *WordNode) *Sentence {
	s := &Sentence{members: make(map[string]struct{})}
	s.appendWord(anchor)
	return s
}

// AppendWord adds a word to the end of the sentence.
func (s *Sentence) AppendWord(w *WordNode) error {
	if w == nil {
		return ErrNilWord
	}
	s.appendWord(w)
	return nil
}

// AppendPunctuation adds a punctuation mark to the end of the sentence.
func (s *Sentence) AppendPunctuation(mark rune) error {
	if mark == 0 {
		return ErrNoPunctuation
	}
	s.appendMark(mark)
	return nil
}

func (s *Sentence) appendWord(w *WordNode) {
	s.elems = append(s.elems, element{word: w})
	s.members[w.word] = struct{}{}
}

func (s *Sentence) appendMark(mark rune) {
	s.elems = append(s.elems, element{mark: mark})
}

func (s *Sentence) endsWithMark() bool {
	return len(s.elems) > 0 && s.elems[len(s.elems)-1].word == nil
}

// Clone returns an independent copy.
func (s *Sentence) Clone() *Sentence {
	c := &Sentence{
		elems:   make([]element, len(s.elems), cap(s.elems)+1),
		members: make(map[string]struct{}, len(s.members)),
	}
	copy(c.elems, s.elems)
	for w := range s.members {
		c.members[w] = struct{}{}
	}
	return c
}

// ReplaceWith overwrites the contents of s with those of other, so every
// holder of s sees the replacement.
func (s *Sentence) ReplaceWith(other *Sentence) {
	if other == s {
		return
	}
	s.elems = append(s.elems[:0], other.elems...)
	clear(s.members)
	for w := range other.members {
		s.members[w] = struct{}{}
	}
}

// LastWord returns the most recent word. It panics if the sentence holds no
// word, which cannot happen for a sentence built with NewSentence.
func (s *Sentence) LastWord() *WordNode {
	for i := len(s.elems) - 1; i >= 0; i-- {
		if s.elems[i].word != nil {
			return s.elems[i].word
		}
	}
	panic("brain: sentence has no words")
}

// ContainsWord reports whether word already appears in the sentence.
func (s *Sentence) ContainsWord(word string) bool {
	_, ok := s.members[word]
	return ok
}

// WordCount returns the number of word elements, anchor included.
func (s *Sentence) WordCount() int {
	n := 0
	for _, e := range s.elems {
		if e.word != nil {
			n++
		}
	}
	return n
}

// Words returns the surface text of each word element in order.
func (s *Sentence) Words() []string {
	words := make([]string, 0, len(s.elems))
	for _, e := range s.elems {
		if e.word != nil {
			words = append(words, e.word.word)
		}
	}
	return words
}

// String renders the sentence: words separated by single spaces, punctuation
// glued to the preceding word. The end marker renders as nothing.
func (s *Sentence) String() string {
	var b strings.Builder
	for _, e := range s.elems {
		switch {
		case e.word == nil:
			b.WriteRune(e.mark)
		case e.word.IsEnd():
		default:
			b.WriteByte(' ')
			b.WriteString(e.word.word)
		}
	}
	return strings.TrimSpace(b.String())
}
