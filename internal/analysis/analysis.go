// Package analysis summarizes a book's vocabulary against a level
// configuration: per-level distributions, difficulty, learning value, and
// per-level suitability.
package analysis

import (
	"fmt"

	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

// Difficulty categories derived from the difficulty score. The thresholds are
// fixed so categories stay comparable across configurations.
const (
	CategoryBeginner     = "Beginner"
	CategoryIntermediate = "Intermediate"
	CategoryAdvanced     = "Advanced"
)

// RecommendationThreshold is the minimum suitability for a level to be
// recommended for a book.
const RecommendationThreshold = 0.6

// LevelStats holds the portion of a book's vocabulary that belongs to one
// level.
type LevelStats struct {
	Words         wordset.Set
	Count         int
	Ratio         float64
	WeightedValue float64
}

// BookAnalysis is the full vocabulary summary of one book. It is built once
// and treated as read-only afterwards.
type BookAnalysis struct {
	BookID             string
	TotalWords         int
	LevelDistributions map[string]LevelStats
	UnknownWords       wordset.Set
	UnknownCount       int
	UnknownRatio       float64
	DifficultyScore    float64
	LearningValue      float64
	SuitabilityScores  map[string]float64
	LearningWordsRatio float64
	// Recommended lists the levels with suitability at or above
	// RecommendationThreshold, in level order.
	Recommended []string
}

// DifficultyCategory buckets the difficulty score into a coarse label.
func (a BookAnalysis) DifficultyCategory() string {
	switch {
	case a.DifficultyScore < 2.0:
		return CategoryBeginner
	case a.DifficultyScore < 4.0:
		return CategoryIntermediate
	default:
		return CategoryAdvanced
	}
}

// Analyzer computes book analyses for a fixed level configuration and
// word-to-level mapping. The per-level vocabulary is grouped once and shared
// across all books.
type Analyzer struct {
	cfg        *levels.Config
	levelVocab map[string]wordset.Set
	known      wordset.Set
}

// NewAnalyzer groups the word-to-level mapping by level. Words mapped to a
// level absent from the configuration are rejected.
func NewAnalyzer(cfg *levels.Config, wordLevels map[string]string) (*Analyzer, error) {
	levelVocab := make(map[string]wordset.Set, cfg.Count())
	for _, level := range cfg.Levels() {
		levelVocab[level] = make(wordset.Set)
	}
	known := make(wordset.Set, len(wordLevels))
	for word, level := range wordLevels {
		if word == "" {
			continue
		}
		vocab, ok := levelVocab[level]
		if !ok {
			return nil, fmt.Errorf("word %q mapped to %w: %q", word, levels.ErrUnknownLevel, level)
		}
		vocab.Add(word)
		known.Add(word)
	}
	return &Analyzer{cfg: cfg, levelVocab: levelVocab, known: known}, nil
}

// TargetVocabulary returns the per-level word sets derived from the
// word-to-level mapping. The sets are shared and must not be mutated.
func (a *Analyzer) TargetVocabulary() map[string]wordset.Set {
	out := make(map[string]wordset.Set, len(a.levelVocab))
	for level, vocab := range a.levelVocab {
		out[level] = vocab
	}
	return out
}

// LevelVocabularyCounts returns the number of target words per level.
func (a *Analyzer) LevelVocabularyCounts() map[string]int {
	out := make(map[string]int, len(a.levelVocab))
	for level, vocab := range a.levelVocab {
		out[level] = vocab.Len()
	}
	return out
}

// AnalyzeBook builds the analysis for one book. A book with an empty
// vocabulary yields a zero analysis; it stays valid but is never selected.
func (a *Analyzer) AnalyzeBook(bookID string, vocab wordset.Set) BookAnalysis {
	total := vocab.Len()
	if total == 0 {
		return a.emptyAnalysis(bookID)
	}

	orderedLevels := a.cfg.Levels()
	distributions := make(map[string]LevelStats, len(orderedLevels)+1)
	learningWords := 0
	for _, level := range orderedLevels {
		words := wordset.Intersect(vocab, a.levelVocab[level])
		count := words.Len()
		weight, _ := a.cfg.Weight(level)
		distributions[level] = LevelStats{
			Words:         words,
			Count:         count,
			Ratio:         float64(count) / float64(total),
			WeightedValue: float64(count) * weight,
		}
		learningWords += count
	}

	unknown := wordset.Diff(vocab, a.known)
	unknownCount := unknown.Len()
	unknownRatio := float64(unknownCount) / float64(total)
	distributions[a.cfg.Beyond()] = LevelStats{
		Words: unknown,
		Count: unknownCount,
		Ratio: unknownRatio,
		// Out-of-syllabus words carry no learning value.
		WeightedValue: 0,
	}

	difficulty := 0.0
	learningValue := 0.0
	for _, level := range orderedLevels {
		mult, _ := a.cfg.DifficultyMultiplier(level)
		difficulty += float64(distributions[level].Count) * mult
		learningValue += distributions[level].WeightedValue
	}
	beyondMult, _ := a.cfg.DifficultyMultiplier(a.cfg.Beyond())
	difficulty += float64(unknownCount) * beyondMult

	suitability := make(map[string]float64, len(orderedLevels))
	recommended := make([]string, 0)
	understandable := 0
	for _, level := range orderedLevels {
		understandable += distributions[level].Count
		score := float64(understandable) / float64(total)
		suitability[level] = score
		if score >= RecommendationThreshold {
			recommended = append(recommended, level)
		}
	}

	return BookAnalysis{
		BookID:             bookID,
		TotalWords:         total,
		LevelDistributions: distributions,
		UnknownWords:       unknown,
		UnknownCount:       unknownCount,
		UnknownRatio:       unknownRatio,
		DifficultyScore:    difficulty / float64(total),
		LearningValue:      learningValue / float64(total),
		SuitabilityScores:  suitability,
		LearningWordsRatio: float64(learningWords) / float64(total),
		Recommended:        recommended,
	}
}

func (a *Analyzer) emptyAnalysis(bookID string) BookAnalysis {
	distributions := make(map[string]LevelStats, a.cfg.Count()+1)
	suitability := make(map[string]float64, a.cfg.Count())
	for _, level := range a.cfg.Levels() {
		distributions[level] = LevelStats{Words: make(wordset.Set)}
		suitability[level] = 0
	}
	distributions[a.cfg.Beyond()] = LevelStats{Words: make(wordset.Set)}
	return BookAnalysis{
		BookID:             bookID,
		LevelDistributions: distributions,
		UnknownWords:       make(wordset.Set),
		SuitabilityScores:  suitability,
		Recommended:        []string{},
	}
}
