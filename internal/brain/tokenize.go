// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordPattern matches a run of word characters and the single character
// following it, if that character is not itself a word character. Matching
// repeatedly within one field splits typos such as "So,bob".
var wordPattern = regexp.MustCompile(`([\p{L}\p{N}_'-]+)([^\p{L}\p{N}_'-]?)`)

// Token is a word with the punctuation mark that immediately followed it.
type Token struct {
	Word string

	// Punct is the trailing mark, or zero if none.
	Punct rune
}

// Tokenize splits text on whitespace and extracts (word, punctuation) pairs
// from each field, left to right.
func Tokenize(text string) []Token {
	var tokens []Token
	for _, field := range strings.Fields(text) {
		for _, m := range wordPattern.FindAllStringSubmatch(field, -1) {
			tok := Token{Word: m[1]}
			if m[2] != "" {
				tok.Punct, _ = utf8.DecodeRuneInString(m[2])
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
