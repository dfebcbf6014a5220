// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BrainSnapshot is the durable state of a learned brain. Rank buckets are not
// stored; they are rebuilt from the per-word lookups on restore.
type BrainSnapshot struct {
	// DecayRate is the topic decay fraction in effect when the snapshot was taken.
	DecayRate float64 `json:"decay_rate" yaml:"decay_rate"`

	// WordCount is the number of words ingested over the brain's lifetime.
	WordCount int `json:"word_count" yaml:"word_count"`

	// WordValue is the running sum of topic scores.
	WordValue float64 `json:"word_value" yaml:"word_value"`

	// Words lists every node, including the start ("") and end ("\n") markers,
	// sorted by surface text.
	Words []WordRecord `json:"words" yaml:"words"`
}

// WordRecord is one word node with its outgoing transitions.
type WordRecord struct {
	// Word is the surface text. Identity is case-sensitive.
	Word string `json:"word" yaml:"word"`

	// TopicScore is the global topic score; nil when the word is not scored
	// (the start and end markers).
	TopicScore *float64 `json:"topic_score,omitempty" yaml:"topic_score,omitempty"`

	// LastScore is the word's value in the most recent utterance, if it appeared there.
	LastScore *float64 `json:"last_score,omitempty" yaml:"last_score,omitempty"`

	// SuccessorCount is the number of transitions recorded out of this word.
	SuccessorCount int `json:"successor_count" yaml:"successor_count"`

	// Successors maps each following word to its rank.
	Successors map[string]int `json:"successors,omitempty" yaml:"successors,omitempty"`

	// PunctuationCount is the number of punctuation marks recorded after this word.
	PunctuationCount int `json:"punctuation_count" yaml:"punctuation_count"`

	// Punctuation maps each trailing mark (one character) to its rank.
	Punctuation map[string]int `json:"punctuation,omitempty" yaml:"punctuation,omitempty"`
}

// BrainInfo summarizes a stored brain.
type BrainInfo struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Words     int       `json:"words" yaml:"words"`
	WordCount int       `json:"word_count" yaml:"word_count"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
