// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brain

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Generate builds one sentence from the start marker. The search stops at a
// randomly chosen depth or when the time budget runs out, whichever comes
// first. An engine that has learned nothing returns the empty string.
func (e *Engine) Generate() string {
	maxDepth := e.cfg.NominalLength + e.rng.IntN(e.cfg.MaxLength-e.cfg.NominalLength)
	deadline := e.now().Add(e.cfg.Timeout)

	s := newSentence(e.start)
	value := e.search(s, e.TopicWords(e.cfg.Topics), 0, 0, maxDepth, deadline)

	out := s.String()
	e.logger.Debug("generated sentence",
		zap.Int("max_depth", maxDepth),
		zap.Int("words", s.WordCount()-1),
		zap.Float64("value", value))
	return out
}

// suppression shrinks word values as the sentence grows past half of the
// nominal-to-maximum span. It falls from near 1 toward 0 along a logistic curve.
func (e *Engine) suppression(depth, maxDepth int) float64 {
	half := float64(e.cfg.NominalLength+maxDepth) / 2
	return 1 / (1 + math.Exp(math.E*(float64(depth)-half)/half))
}

// search extends s from its last word and returns the value of the best
// continuation found. The first continuation tried is kept, and a later one
// replaces it only with a strictly higher value, so a graph of zero valued
// words still yields a sentence. s is overwritten with the kept continuation
// in place.
func (e *Engine) search(s *Sentence, topics map[string]struct{}, curValue float64, curDepth, maxDepth int, deadline time.Time) float64 {
	if curDepth == maxDepth || e.now().After(deadline) {
		return curValue
	}

	roots := s.LastWord().successors
	if roots.Len() == 0 {
		return curValue
	}

	maxBranches := e.cfg.MinBranches + e.rng.IntN(e.cfg.MaxBranches-e.cfg.MinBranches)
	suppress := e.suppression(curDepth, maxDepth)

	bestValue := curValue
	var best *Sentence
	branches := 0

	for branches < e.cfg.MinBranches {
		for word := range roots.Descending() {
			chance := e.rng.IntN(100)

			if word == EndWord {
				if chance >= e.cfg.SkipChance {
					top, _ := e.topics.Max()
					endValue := e.rng.Float64() * top * suppress
					if best == nil || curValue+endValue > bestValue {
						bestValue = curValue + endValue
						best = s.Clone()
						e.attachPunctuation(best)
						best.appendWord(e.end)
					}
					branches++
				}
			} else {
				loop := s.ContainsWord(word)
				if (!loop && chance >= e.cfg.SkipChance) || (loop && chance < e.cfg.LoopChance) {
					score, _ := e.topics.Score(word)
					weight := offTopicWeight
					if _, ok := topics[word]; ok {
						weight = 1
					}

					branch := s.Clone()
					branch.appendWord(e.words[word])
					e.attachPunctuation(branch)

					v := e.search(branch, topics, curValue+suppress*score*weight, curDepth+1, maxDepth, deadline)
					if best == nil || v > bestValue {
						bestValue = v
						best = branch
					}
					branches++
				}
			}

			if branches == maxBranches {
				break
			}
		}

		// Fewer than MinBranches tried: rescan unless the breadth draw says stop.
		if e.rng.IntN(100) < e.cfg.BreadthAssuranceChance || e.now().After(deadline) {
			break
		}
	}

	if best != nil {
		s.ReplaceWith(best)
	}
	return bestValue
}

// attachPunctuation may append one of the marks observed after the
// sentence's last word. The attempt itself is gated, and each mark, best
// ranked first, is passed over with PunctuationSkipChance. A word carries at
// most one mark.
func (e *Engine) attachPunctuation(s *Sentence) {
	marks := s.LastWord().punctuation
	if marks.Len() == 0 || s.endsWithMark() || e.rng.IntN(100) >= e.cfg.PunctuationChance {
		return
	}
	for mark := range marks.Descending() {
		if e.rng.IntN(100) >= e.cfg.PunctuationSkipChance {
			s.appendMark(mark)
			return
		}
	}
}
