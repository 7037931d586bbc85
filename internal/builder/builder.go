// Package builder is the entry point for reading-path construction. It owns
// the level configuration, the precomputed book analyses, and the path
// generator.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/benjaminwangfan/reading-path-builer/internal/analysis"
	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
	"github.com/benjaminwangfan/reading-path-builer/internal/pathgen"
	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

var (
	// ErrEmptyCorpus reports a builder constructed without any books.
	ErrEmptyCorpus = errors.New("corpus contains no books")
	// ErrUnknownBook reports a book ID absent from the corpus.
	ErrUnknownBook = errors.New("unknown book")
)

// Strategy names recognized by AlternativePaths.
const (
	StrategyConservative = "conservative"
	StrategyStandard     = "standard"
	StrategyFast         = "fast"
)

// Builder analyzes a corpus eagerly at construction so that every later call
// costs only a generation run.
type Builder struct {
	cfg         *levels.Config
	analyzer    *analysis.Analyzer
	generator   *pathgen.Generator
	analyses    map[string]analysis.BookAnalysis
	targetVocab map[string]wordset.Set
}

// New analyzes every book in the corpus against the word-to-level mapping.
func New(booksVocab map[string]wordset.Set, wordLevels map[string]string, cfg *levels.Config) (*Builder, error) {
	if len(booksVocab) == 0 {
		return nil, ErrEmptyCorpus
	}
	analyzer, err := analysis.NewAnalyzer(cfg, wordLevels)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer: %w", err)
	}
	analyses, err := analyzer.AnalyzeAll(context.Background(), booksVocab)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze corpus: %w", err)
	}
	return &Builder{
		cfg:         cfg,
		analyzer:    analyzer,
		generator:   pathgen.NewGenerator(cfg),
		analyses:    analyses,
		targetVocab: analyzer.TargetVocabulary(),
	}, nil
}

// SetTrace directs per-level generation progress to w. Pass nil to disable.
func (b *Builder) SetTrace(w io.Writer) {
	b.generator.Trace = w
}

// Config returns the level configuration.
func (b *Builder) Config() *levels.Config {
	return b.cfg
}

// Books returns every book ID in the corpus, sorted.
func (b *Builder) Books() []string {
	ids := make([]string, 0, len(b.analyses))
	for id := range b.analyses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Analyses exposes the precomputed analyses, keyed by book ID. The map and
// its values are shared and must not be mutated.
func (b *Builder) Analyses() map[string]analysis.BookAnalysis {
	return b.analyses
}

// CreateReadingPath generates a path. A nil params uses the defaults for the
// level configuration.
func (b *Builder) CreateReadingPath(params *pathgen.Parameters) (pathgen.Result, error) {
	var p pathgen.Parameters
	if params == nil {
		p = pathgen.DefaultParameters(b.cfg)
	} else {
		p = *params
	}
	return b.generator.CreateProgressiveReadingPath(b.analyses, b.targetVocab, p)
}

// StrategyPath pairs a requested strategy name with its generated path.
type StrategyPath struct {
	Strategy string
	Result   pathgen.Result
}

// ParametersForStrategy resolves a strategy name (including the accepted
// synonyms) to its generation parameters.
func (b *Builder) ParametersForStrategy(name string) (pathgen.Parameters, bool) {
	switch CanonicalStrategy(name) {
	case StrategyConservative:
		return pathgen.ConservativeParameters(b.cfg), true
	case StrategyStandard:
		return pathgen.StandardParameters(b.cfg), true
	case StrategyFast:
		return pathgen.FastParameters(b.cfg), true
	default:
		return pathgen.Parameters{}, false
	}
}

// CanonicalStrategy maps a strategy name or synonym to its canonical form.
// Unrecognized names return "".
func CanonicalStrategy(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyConservative:
		return StrategyConservative
	case StrategyStandard, "balanced":
		return StrategyStandard
	case StrategyFast, "aggressive":
		return StrategyFast
	default:
		return ""
	}
}

// AlternativePaths generates one path per requested strategy, in request
// order. Unrecognized strategy names are skipped. A nil request runs all
// three strategies.
func (b *Builder) AlternativePaths(strategies []string) ([]StrategyPath, error) {
	if strategies == nil {
		strategies = []string{StrategyConservative, StrategyStandard, StrategyFast}
	}
	paths := make([]StrategyPath, 0, len(strategies))
	for _, name := range strategies {
		params, ok := b.ParametersForStrategy(name)
		if !ok {
			continue
		}
		result, err := b.CreateReadingPath(&params)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s path: %w", name, err)
		}
		paths = append(paths, StrategyPath{Strategy: name, Result: result})
	}
	return paths, nil
}

// BookEvaluation summarizes how well one book fits one target level.
type BookEvaluation struct {
	BookID                string
	TargetLevel           string
	SuitabilityScore      float64
	TargetWordCount       int
	TargetWordRatio       float64
	UnknownRatio          float64
	DifficultyScore       float64
	LearningValue         float64
	DifficultyCategory    string
	BestLevel             string
	MeetsStandardCriteria bool
}

// EvaluateBookForLevel evaluates a single book against a target level using
// the standard selection criteria.
func (b *Builder) EvaluateBookForLevel(bookID, level string) (BookEvaluation, error) {
	book, ok := b.analyses[bookID]
	if !ok {
		return BookEvaluation{}, fmt.Errorf("%w: %q", ErrUnknownBook, bookID)
	}
	if !b.cfg.Contains(level) {
		return BookEvaluation{}, fmt.Errorf("%w: %q", levels.ErrUnknownLevel, level)
	}

	criteria := pathgen.StandardCriteria()
	stats := book.LevelDistributions[level]
	suitability := book.SuitabilityScores[level]
	meets := book.UnknownRatio <= criteria.MaxUnknownRatio &&
		suitability >= criteria.MinSuitabilityScore &&
		stats.Count >= criteria.MinTargetWords

	return BookEvaluation{
		BookID:                bookID,
		TargetLevel:           level,
		SuitabilityScore:      suitability,
		TargetWordCount:       stats.Count,
		TargetWordRatio:       stats.Ratio,
		UnknownRatio:          book.UnknownRatio,
		DifficultyScore:       book.DifficultyScore,
		LearningValue:         book.LearningValue,
		DifficultyCategory:    book.DifficultyCategory(),
		BestLevel:             b.bestLevel(book),
		MeetsStandardCriteria: meets,
	}, nil
}

// bestLevel returns the level with the highest suitability, preferring the
// easier level on a tie.
func (b *Builder) bestLevel(book analysis.BookAnalysis) string {
	best := ""
	bestScore := -1.0
	for _, level := range b.cfg.Levels() {
		if score := book.SuitabilityScores[level]; score > bestScore {
			best = level
			bestScore = score
		}
	}
	return best
}

// BookStatistics returns the precomputed analysis for one book.
func (b *Builder) BookStatistics(bookID string) (analysis.BookAnalysis, error) {
	book, ok := b.analyses[bookID]
	if !ok {
		return analysis.BookAnalysis{}, fmt.Errorf("%w: %q", ErrUnknownBook, bookID)
	}
	return book, nil
}

// LevelVocabularyStats returns the target vocabulary size per level.
func (b *Builder) LevelVocabularyStats() map[string]int {
	return b.analyzer.LevelVocabularyCounts()
}
