// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSentenceRejectsNil(t *testing.T) {
	s, err := NewSentence(nil)
	assert.ErrorIs(t, err, ErrNilWord)
	assert.Nil(t, s)
}

func TestSentenceAppendRejectsBadInput(t *testing.T) {
	s, err := NewSentence(NewWordNode(StartWord))
	require.NoError(t, err)

	assert.ErrorIs(t, s.AppendWord(nil), ErrNilWord)
	assert.ErrorIs(t, s.AppendPunctuation(0), ErrNoPunctuation)
	assert.Equal(t, 1, s.WordCount())
}

func TestSentenceString(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *Sentence)
		want  string
	}{
		{"anchor only", func(s *Sentence) {}, ""},
		{
			"words and punctuation",
			func(s *Sentence) {
				s.AppendWord(NewWordNode("So"))
				s.AppendPunctuation(',')
				s.AppendWord(NewWordNode("bob"))
				s.AppendWord(NewWordNode("left"))
				s.AppendPunctuation('.')
			},
			"So, bob left.",
		},
		{
			"end marker renders as nothing",
			func(s *Sentence) {
				s.AppendWord(NewWordNode("done"))
				s.AppendPunctuation('!')
				s.AppendWord(NewWordNode(EndWord))
			},
			"done!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSentence(NewWordNode(StartWord))
			require.NoError(t, err)
			tt.build(s)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSentenceCloneIsIndependent(t *testing.T) {
	s := newSentence(NewWordNode(StartWord))
	s.appendWord(NewWordNode("one"))

	c := s.Clone()
	c.appendWord(NewWordNode("two"))
	c.appendMark('?')

	assert.Equal(t, "one", s.String())
	assert.False(t, s.ContainsWord("two"))
	assert.Equal(t, "one two?", c.String())
	assert.True(t, c.ContainsWord("two"))
}

func TestSentenceReplaceWith(t *testing.T) {
	s := newSentence(NewWordNode(StartWord))
	s.appendWord(NewWordNode("old"))
	alias := s

	other := newSentence(NewWordNode(StartWord))
	other.appendWord(NewWordNode("new"))
	other.appendWord(NewWordNode("words"))

	s.ReplaceWith(other)
	assert.Equal(t, "new words", alias.String())
	assert.False(t, alias.ContainsWord("old"))
	assert.True(t, alias.ContainsWord("words"))

	other.appendWord(NewWordNode("later"))
	assert.Equal(t, "new words", s.String(), "replacement copies, it does not alias")

	s.ReplaceWith(s)
	assert.Equal(t, "new words", s.String())
}

func TestSentenceLastWord(t *testing.T) {
	s := newSentence(NewWordNode(StartWord))
	s.appendWord(NewWordNode("last"))
	s.appendMark('.')
	assert.Equal(t, "last", s.LastWord().Word())

	assert.Panics(t, func() { (&Sentence{}).LastWord() })
}

func TestSentenceWords(t *testing.T) {
	s := newSentence(NewWordNode(StartWord))
	s.appendWord(NewWordNode("a1"))
	s.appendMark(',')
	s.appendWord(NewWordNode("b2"))

	assert.Equal(t, []string{StartWord, "a1", "b2"}, s.Words())
	assert.Equal(t, 3, s.WordCount())
	assert.True(t, s.ContainsWord(StartWord))
}
