// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EngineConfig tunes learning and sentence construction.
// Chance fields are integer percentages in [0, 100].
type EngineConfig struct {
	// DecayRate is the fraction of every topic score removed on each decay (default 0.10).
	DecayRate float64 `json:"decay_rate" yaml:"decay_rate" mapstructure:"decay_rate"`

	// NominalLength is the target sentence length in words (default 10).
	NominalLength int `json:"nominal_length" yaml:"nominal_length" mapstructure:"nominal_length"`

	// MaxLength bounds the randomly chosen search depth (default 25, exclusive).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`

	// Timeout is the wall-clock budget for building one sentence (default 5s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Topics is the number of topic words matched against during generation (default 7).
	Topics int `json:"topics" yaml:"topics" mapstructure:"topics"`

	// TopicSplit is the share of topic words drawn from global frequency;
	// the remainder comes from the last utterance (default 0.48).
	TopicSplit float64 `json:"topic_split" yaml:"topic_split" mapstructure:"topic_split"`

	// MinBranches and MaxBranches bound the continuations evaluated per word;
	// the cap is drawn from [MinBranches, MaxBranches) (defaults 2 and 6).
	MinBranches int `json:"min_branches" yaml:"min_branches" mapstructure:"min_branches"`
	MaxBranches int `json:"max_branches" yaml:"max_branches" mapstructure:"max_branches"`

	// SkipChance is the chance to pass over a candidate word or the end marker (default 30).
	SkipChance int `json:"skip_chance" yaml:"skip_chance" mapstructure:"skip_chance"`

	// LoopChance is the chance to accept a word already in the sentence (default 5).
	LoopChance int `json:"loop_chance" yaml:"loop_chance" mapstructure:"loop_chance"`

	// PunctuationChance is the chance that punctuation is attempted at all (default 40).
	PunctuationChance int `json:"punctuation_chance" yaml:"punctuation_chance" mapstructure:"punctuation_chance"`

	// PunctuationSkipChance is the chance a given mark is passed over (default 50).
	PunctuationSkipChance int `json:"punctuation_skip_chance" yaml:"punctuation_skip_chance" mapstructure:"punctuation_skip_chance"`

	// TopicSkipPercent is the percentage of observed words whose count sizes
	// the skip quota of dominant global words (default 1).
	TopicSkipPercent float64 `json:"topic_skip_percent" yaml:"topic_skip_percent" mapstructure:"topic_skip_percent"`

	// BreadthAssuranceChance is the chance to stop rescanning successors when
	// fewer than MinBranches were tried (default 50).
	BreadthAssuranceChance int `json:"breadth_assurance_chance" yaml:"breadth_assurance_chance" mapstructure:"breadth_assurance_chance"`

	// Seed fixes the random source. Zero seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// DefaultEngineConfig returns the stock tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DecayRate:              0.10,
		NominalLength:          10,
		MaxLength:              25,
		Timeout:                5 * time.Second,
		Topics:                 7,
		TopicSplit:             0.48,
		MinBranches:            2,
		MaxBranches:            6,
		SkipChance:             30,
		LoopChance:             5,
		PunctuationChance:      40,
		PunctuationSkipChance:  50,
		TopicSkipPercent:       1,
		BreadthAssuranceChance: 50,
	}
}

// StoreConfig locates the brain database.
type StoreConfig struct {
	// Path is the SQLite database file (default "brains.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Brain is the name of the brain loaded and saved by default (default "default").
	Brain string `json:"brain" yaml:"brain" mapstructure:"brain"`
}

// ChatConfig holds the conversation prompts.
type ChatConfig struct {
	Prompt      string `json:"prompt" yaml:"prompt" mapstructure:"prompt"`
	ReplyPrefix string `json:"reply_prefix" yaml:"reply_prefix" mapstructure:"reply_prefix"`
}

// Config groups all settings read from the config file and environment.
type Config struct {
	Engine EngineConfig `json:"engine" yaml:"engine" mapstructure:"engine"`
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Chat   ChatConfig   `json:"chat" yaml:"chat" mapstructure:"chat"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Engine: DefaultEngineConfig(),
		Store: StoreConfig{
			Path:  "brains.db",
			Brain: "default",
		},
		Chat: ChatConfig{
			Prompt:      "    You? ",
			ReplyPrefix: "Chatbot? ",
		},
	}
}
