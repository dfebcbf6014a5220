// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/learning-chatbot/internal/brain"
)

// LearnResult holds the outcome of a batch learning run.
type LearnResult struct {
	Files  int
	Lines  int
	Words  int
	Failed int
}

// Total returns the number of files processed.
func (r LearnResult) Total() int {
	return r.Files + r.Failed
}

// HasFailures reports whether any file failed.
func (r LearnResult) HasFailures() bool {
	return r.Failed > 0
}

// Learn feeds every non-blank line of r to e as a conversational turn: the
// topics decay, then the line is learned. It returns the lines and words
// learned.
func Learn(ctx context.Context, e *brain.Engine, r io.Reader) (lines, words int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return lines, words, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e.Decay()
		words += e.Ingest(line)
		lines++
	}
	return lines, words, scanner.Err()
}

// LearnFile learns from the lines of the file at path.
func LearnFile(ctx context.Context, e *brain.Engine, path string) (lines, words int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Learn(ctx, e, f)
}

// LearnBatch learns from each file in turn, printing per-file status and a
// summary. It continues after individual failures and stops early only when
// ctx is done.
func LearnBatch(ctx context.Context, e *brain.Engine, paths []string, w io.Writer) LearnResult {
	var result LearnResult
	for _, path := range paths {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "stopped: %v\n", ctx.Err())
			break
		}
		lines, words, err := LearnFile(ctx, e, path)
		result.Lines += lines
		result.Words += words
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "learned: %s (%d lines, %d words)\n", path, lines, words)
		result.Files++
	}
	fmt.Fprintf(w, "\nLearn summary: %d files, %d lines, %d words, %d failed (total: %d)\n",
		result.Files, result.Lines, result.Words, result.Failed, result.Total())
	return result
}
