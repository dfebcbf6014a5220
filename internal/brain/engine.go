// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package brain learns a directed word-transition graph from utterances and
// builds new sentences by a randomized, depth- and time-bounded search over
// it, favoring words that are currently on topic.
//
// An Engine is not safe for concurrent use. Each conversation owns its own.
package brain

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/learning-chatbot/internal/rankmap"
	"github.com/pdiddy/learning-chatbot/pkg/types"
)

// ErrInvalidConfig is returned by New and Restore for out-of-range tuning.
var ErrInvalidConfig = errors.New("brain: invalid config")

// offTopicWeight scales the value of words that are not topic words.
const offTopicWeight = 0.25

// Engine owns every word node, the topic rankings, and the random source.
type Engine struct {
	cfg types.EngineConfig

	words map[string]*WordNode
	start *WordNode
	end   *WordNode

	// topics holds each word's global score, decayed over time.
	topics *rankmap.Map[float64, string]
	// last holds the words of the most recent utterance only.
	last *rankmap.Map[float64, string]

	wordCount int
	wordValue float64

	rng    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand sets the random source. It overrides EngineConfig.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock sets the clock used for the generation time budget.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an engine that knows only the start and end markers.
func New(cfg types.EngineConfig, opts ...Option) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		words:  make(map[string]*WordNode),
		topics: rankmap.New[float64, string](),
		last:   rankmap.New[float64, string](),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	e.start = e.lookupOrCreate(StartWord)
	e.end = e.lookupOrCreate(EndWord)

	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newRand(cfg.Seed)
	}
	return e, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func validateConfig(cfg types.EngineConfig) error {
	chances := []struct {
		name  string
		value int
	}{
		{"skip_chance", cfg.SkipChance},
		{"loop_chance", cfg.LoopChance},
		{"punctuation_chance", cfg.PunctuationChance},
		{"punctuation_skip_chance", cfg.PunctuationSkipChance},
		{"breadth_assurance_chance", cfg.BreadthAssuranceChance},
	}
	for _, c := range chances {
		if c.value < 0 || c.value > 100 {
			return fmt.Errorf("%w: %s %d outside [0, 100]", ErrInvalidConfig, c.name, c.value)
		}
	}

	switch {
	case math.IsNaN(cfg.DecayRate) || cfg.DecayRate < 0 || cfg.DecayRate >= 1:
		return fmt.Errorf("%w: decay_rate %v outside [0, 1)", ErrInvalidConfig, cfg.DecayRate)
	case cfg.NominalLength < 1:
		return fmt.Errorf("%w: nominal_length must be at least 1", ErrInvalidConfig)
	case cfg.MaxLength <= cfg.NominalLength:
		return fmt.Errorf("%w: max_length %d must exceed nominal_length %d", ErrInvalidConfig, cfg.MaxLength, cfg.NominalLength)
	case cfg.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case cfg.Topics < 0:
		return fmt.Errorf("%w: topics must not be negative", ErrInvalidConfig)
	case math.IsNaN(cfg.TopicSplit) || cfg.TopicSplit < 0 || cfg.TopicSplit > 1:
		return fmt.Errorf("%w: topic_split %v outside [0, 1]", ErrInvalidConfig, cfg.TopicSplit)
	case cfg.MinBranches < 1:
		return fmt.Errorf("%w: min_branches must be at least 1", ErrInvalidConfig)
	case cfg.MaxBranches <= cfg.MinBranches:
		return fmt.Errorf("%w: max_branches %d must exceed min_branches %d", ErrInvalidConfig, cfg.MaxBranches, cfg.MinBranches)
	case math.IsNaN(cfg.TopicSkipPercent) || cfg.TopicSkipPercent < 0 || cfg.TopicSkipPercent > 100:
		return fmt.Errorf("%w: topic_skip_percent %v outside [0, 100]", ErrInvalidConfig, cfg.TopicSkipPercent)
	}
	return nil
}

func (e *Engine) lookupOrCreate(word string) *WordNode {
	if n, ok := e.words[word]; ok {
		return n
	}
	n := NewWordNode(word)
	e.words[word] = n
	return n
}

// wordValue weighs a word by its length: log base 4 of its rune count.
// The empty start word is worth nothing.
func wordValue(word string) float64 {
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return 0
	}
	return math.Log(float64(n)) / math.Log(4)
}

// Ingest learns one utterance: every word is linked to the word before it
// (or to the start marker), its trailing punctuation is recorded, its topic
// score grows, and the final word is linked to the end marker. The ranking
// of the previous utterance is replaced. It returns the number of words
// learned; whitespace-only input learns nothing.
func (e *Engine) Ingest(utterance string) int {
	e.last.Clear()

	tokens := Tokenize(utterance)
	var prior *WordNode
	for _, tok := range tokens {
		node := e.lookupOrCreate(tok.Word)
		v := wordValue(tok.Word)

		e.last.Put(v, node.word)
		e.increment(node.word, v)

		if tok.Punct != 0 {
			node.RecordPunctuation(tok.Punct)
		}
		if prior != nil {
			prior.RecordSuccessor(node)
		} else {
			e.start.RecordSuccessor(node)
		}
		prior = node
	}
	if prior != nil {
		prior.RecordSuccessor(e.end)
	}

	e.logger.Debug("ingested utterance",
		zap.Int("tokens", len(tokens)),
		zap.Int("vocabulary", len(e.words)-2))
	return len(tokens)
}

func (e *Engine) increment(word string, v float64) {
	cur, _ := e.topics.Score(word)
	e.topics.Put(cur+v, word)
	e.wordCount++
	e.wordValue += v
}

// Decay shrinks every topic score by the decay rate so that recent input
// dominates topic selection. Call it once per conversational turn.
func (e *Engine) Decay() {
	keep := 1 - e.cfg.DecayRate
	for word, score := range e.topics.All() {
		next := score * keep
		e.wordValue += next - score
		e.topics.Put(next, word)
	}
	e.logger.Debug("decayed topics",
		zap.Int("words", e.topics.Len()),
		zap.Float64("word_value", e.wordValue))
}

// TopicWords picks up to maxTopics words to steer generation. Part of the
// budget goes to the globally highest scored words, after skipping the most
// dominant ones; the rest goes to the highest valued words of the last
// utterance. Words picked by both passes count once in the result.
func (e *Engine) TopicWords(maxTopics int) map[string]struct{} {
	topics := make(map[string]struct{})
	maxGlobal := int(float64(maxTopics) * e.cfg.TopicSplit)
	skip := int(float64(e.wordCount) * e.cfg.TopicSkipPercent / 100)

	n := 0
	if maxGlobal > 0 {
		for word := range e.topics.Descending() {
			if skip > 0 {
				skip--
				continue
			}
			topics[word] = struct{}{}
			n++
			if n >= maxGlobal {
				break
			}
		}
	}
	for word := range e.last.Descending() {
		if n >= maxTopics {
			break
		}
		topics[word] = struct{}{}
		n++
	}
	return topics
}

// Word returns the node for a surface word.
func (e *Engine) Word(word string) (*WordNode, bool) {
	n, ok := e.words[word]
	return n, ok
}

// Start returns the start marker node.
func (e *Engine) Start() *WordNode { return e.start }

// End returns the end marker node.
func (e *Engine) End() *WordNode { return e.end }

// Vocabulary returns the number of learned words, markers excluded.
func (e *Engine) Vocabulary() int { return len(e.words) - 2 }

// WordCount returns the number of words ingested so far.
func (e *Engine) WordCount() int { return e.wordCount }

// WordValue returns the running sum of topic scores.
func (e *Engine) WordValue() float64 { return e.wordValue }

// TopicScore returns a word's global topic score.
func (e *Engine) TopicScore(word string) (float64, bool) {
	return e.topics.Score(word)
}

// TopicRanking yields scored words from highest to lowest topic score.
func (e *Engine) TopicRanking() iter.Seq2[string, float64] {
	return e.topics.All()
}

// Config returns the tuning in effect.
func (e *Engine) Config() types.EngineConfig { return e.cfg }
