// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n ", nil},
		{
			"plain words",
			"This is a test",
			[]Token{{Word: "This"}, {Word: "is"}, {Word: "a"}, {Word: "test"}},
		},
		{
			"trailing punctuation",
			"Hello, world!",
			[]Token{{Word: "Hello", Punct: ','}, {Word: "world", Punct: '!'}},
		},
		{
			"missing space after punctuation",
			"So,bob left.",
			[]Token{{Word: "So", Punct: ','}, {Word: "bob"}, {Word: "left", Punct: '.'}},
		},
		{
			"only the first mark is kept",
			"what?!",
			[]Token{{Word: "what", Punct: '?'}},
		},
		{
			"hyphens apostrophes digits underscores",
			"don't re-run x_1 42",
			[]Token{{Word: "don't"}, {Word: "re-run"}, {Word: "x_1"}, {Word: "42"}},
		},
		{
			"leading punctuation is dropped",
			"...well",
			[]Token{{Word: "well"}},
		},
		{
			"unicode letters",
			"café déjà-vu…",
			[]Token{{Word: "café"}, {Word: "déjà-vu", Punct: '…'}},
		},
		{"punctuation only", "?! ...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}
