// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"fmt"
	"io"
	"strings"
)

// WriteDump prints the brain's totals and its words in topic order with
// their ranked successors. A positive limit caps the number of words shown.
func (e *Engine) WriteDump(w io.Writer, limit int) {
	fmt.Fprintf(w, "%d words known, %d observed, word value %.2f\n\n",
		e.Vocabulary(), e.WordCount(), e.WordValue())

	fmt.Fprintf(w, "%-4s  %-8s  %-20s  %s\n", "Rank", "Score", "Word", "Successors")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	i := 0
	for word, score := range e.topics.All() {
		if limit > 0 && i == limit {
			break
		}
		i++

		var next []string
		for succ, rank := range e.words[word].successors.All() {
			next = append(next, fmt.Sprintf("%s(%d)", displayWord(succ), rank))
		}
		fmt.Fprintf(w, "%-4d  %-8.3f  %-20s  %s\n", i, score, word, strings.Join(next, " "))
	}
	fmt.Fprintf(w, "\n%d of %d words shown\n", i, e.topics.Len())
}

func displayWord(word string) string {
	switch word {
	case StartWord:
		return "<start>"
	case EndWord:
		return "<end>"
	}
	return word
}
