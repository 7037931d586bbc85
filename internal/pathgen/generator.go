package pathgen

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/benjaminwangfan/reading-path-builer/internal/analysis"
	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

// Scoring constants. They are part of the behavioral contract; changing them
// changes every generated path.
const (
	newWordScore       = 10.0
	reviewBonusPerWord = 0.5
	previewBonusRate   = 0.1
	previewWordCap     = 100
	unknownPenalty     = 0.8
	efficiencyBonus    = 50.0
	efficiencyMinIter  = 2
)

// Generator runs the layered greedy selection over precomputed book analyses.
type Generator struct {
	cfg *levels.Config
	// Trace receives per-level progress output when set.
	Trace io.Writer
}

// NewGenerator returns a generator for the given level configuration.
func NewGenerator(cfg *levels.Config) *Generator {
	return &Generator{cfg: cfg}
}

// CreateProgressiveReadingPath selects books level by level. For each level
// it filters candidates, greedily picks the highest-scoring book until the
// coverage target, book budget, or candidate pool is exhausted, then carries
// the accumulated coverage into the next level.
func (g *Generator) CreateProgressiveReadingPath(
	analyses map[string]analysis.BookAnalysis,
	targetVocabulary map[string]wordset.Set,
	params Parameters,
) (Result, error) {
	if err := params.Validate(g.cfg); err != nil {
		return Result{}, err
	}

	order := g.cfg.Levels()
	bookIDs := make([]string, 0, len(analyses))
	for id := range analyses {
		bookIDs = append(bookIDs, id)
	}
	sort.Strings(bookIDs)

	result := Result{
		LevelOrder:         order,
		Levels:             make(map[string]LevelResult, len(order)),
		TotalBooks:         make([]string, 0),
		CumulativeCoverage: make(map[string]map[string]CoverageSnapshot, len(order)),
	}

	cumulativeCovered := make(wordset.Set)
	alreadySelected := make(wordset.Set)

	for _, level := range order {
		g.tracef("selecting books for %s\n", level)

		levelResult := g.selectBooksForLevel(
			level,
			bookIDs,
			analyses,
			targetVocabulary[level],
			params.CriteriaForLevel(),
			cumulativeCovered,
			alreadySelected,
			params.MaxBooksPerLevel[level],
			params.TargetCoveragePerLevel[level],
		)
		result.Levels[level] = levelResult
		result.TotalBooks = append(result.TotalBooks, levelResult.SelectedBooks...)

		for _, bookID := range levelResult.SelectedBooks {
			alreadySelected.Add(bookID)
			// A selected book contributes its words at every configured
			// level, not just the level it was selected for.
			book := analyses[bookID]
			for _, vocabLevel := range order {
				cumulativeCovered.Merge(book.LevelDistributions[vocabLevel].Words)
			}
		}

		snapshot := g.coverageSnapshot(cumulativeCovered, targetVocabulary)
		result.CumulativeCoverage[level] = snapshot
		for _, vocabLevel := range order {
			g.tracef("  %s cumulative coverage: %.1f%%\n", vocabLevel, snapshot[vocabLevel].Ratio*100)
		}
	}

	result.Summary = g.buildSummary(result, analyses)
	return result, nil
}

func (g *Generator) selectBooksForLevel(
	targetLevel string,
	bookIDs []string,
	analyses map[string]analysis.BookAnalysis,
	targetVocab wordset.Set,
	criteria Criteria,
	alreadyCovered wordset.Set,
	alreadySelected wordset.Set,
	maxBooks int,
	targetCoverage float64,
) LevelResult {
	candidates := g.filterCandidates(targetLevel, bookIDs, analyses, criteria, alreadySelected)
	targetTotal := targetVocab.Len()

	if len(candidates) == 0 {
		g.tracef("  no suitable candidates for %s\n", targetLevel)
		return LevelResult{
			TargetLevel:     targetLevel,
			SelectedBooks:   []string{},
			NewWordsCovered: make(wordset.Set),
			TargetWords:     targetTotal,
		}
	}

	remaining := wordset.Diff(targetVocab, alreadyCovered)
	newlyCovered := make(wordset.Set)
	selected := make([]string, 0, maxBooks)

	g.tracef("  target words: %d, already covered: %d, remaining: %d\n",
		targetTotal, targetTotal-remaining.Len(), remaining.Len())

	iteration := 0
	for len(selected) < maxBooks &&
		float64(newlyCovered.Len())/float64(targetTotal) < targetCoverage &&
		remaining.Len() > 0 &&
		len(candidates) > 0 {
		iteration++
		best := g.selectBestBook(candidates, analyses, targetLevel, remaining, iteration)
		if best < 0 {
			break
		}

		bookID := candidates[best]
		selected = append(selected, bookID)
		candidates = append(candidates[:best], candidates[best+1:]...)

		newWords := wordset.Intersect(analyses[bookID].LevelDistributions[targetLevel].Words, remaining)
		newlyCovered.Merge(newWords)
		remaining.Remove(newWords)

		g.tracef("  picked %s (+%d %s words, coverage %.1f%%)\n",
			bookID, newWords.Len(), targetLevel,
			float64(newlyCovered.Len())/float64(targetTotal)*100)
	}

	coverage := 0.0
	if targetTotal > 0 {
		coverage = float64(newlyCovered.Len()) / float64(targetTotal)
	}
	return LevelResult{
		TargetLevel:     targetLevel,
		SelectedBooks:   selected,
		Coverage:        coverage,
		NewWordsCovered: newlyCovered,
		TargetWords:     targetTotal,
		CoveredWords:    newlyCovered.Len(),
		BooksCount:      len(selected),
	}
}

// filterCandidates keeps the books that pass every gate, ordered by learning
// value descending with book ID as the tie-break.
func (g *Generator) filterCandidates(
	targetLevel string,
	bookIDs []string,
	analyses map[string]analysis.BookAnalysis,
	criteria Criteria,
	alreadySelected wordset.Set,
) []string {
	filtered := make([]string, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		if alreadySelected.Contains(bookID) {
			continue
		}
		book := analyses[bookID]
		if book.UnknownRatio > criteria.MaxUnknownRatio {
			continue
		}
		if book.SuitabilityScores[targetLevel] < criteria.MinSuitabilityScore {
			continue
		}
		if book.LevelDistributions[targetLevel].Count < criteria.MinTargetWords {
			continue
		}
		filtered = append(filtered, bookID)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		vi := analyses[filtered[i]].LearningValue
		vj := analyses[filtered[j]].LearningValue
		if vi == vj {
			return filtered[i] < filtered[j]
		}
		return vi > vj
	})
	g.tracef("  %s candidates: %d\n", targetLevel, len(filtered))
	return filtered
}

// selectBestBook returns the index of the highest-scoring candidate, or -1
// when no candidate scores above zero. Ties break toward fewer unknown
// words, then higher learning value, then the lexicographically smaller ID.
func (g *Generator) selectBestBook(
	candidates []string,
	analyses map[string]analysis.BookAnalysis,
	targetLevel string,
	remaining wordset.Set,
	iteration int,
) int {
	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, bookID := range candidates {
		score := g.scoreBook(analyses[bookID], targetLevel, remaining, iteration)
		if score <= 0 {
			continue
		}
		if bestIdx < 0 || betterCandidate(score, bestScore, analyses[bookID], analyses[candidates[bestIdx]]) {
			bestIdx = i
			bestScore = score
		}
	}
	return bestIdx
}

func betterCandidate(score, bestScore float64, book, best analysis.BookAnalysis) bool {
	if score != bestScore {
		return score > bestScore
	}
	if book.UnknownCount != best.UnknownCount {
		return book.UnknownCount < best.UnknownCount
	}
	if book.LearningValue != best.LearningValue {
		return book.LearningValue > best.LearningValue
	}
	return book.BookID < best.BookID
}

// scoreBook values a candidate for the target level: new target-level words
// dominate, easier-level words add review value, next-level words add a small
// preview, unknown words subtract, and late iterations reward efficient
// coverage of whatever is left.
func (g *Generator) scoreBook(
	book analysis.BookAnalysis,
	targetLevel string,
	remaining wordset.Set,
	iteration int,
) float64 {
	targetStats, ok := book.LevelDistributions[targetLevel]
	if !ok || targetStats.Count == 0 {
		return -1
	}
	newCoverage := wordset.IntersectCount(targetStats.Words, remaining)
	if newCoverage == 0 {
		return -1
	}

	score := float64(newCoverage) * newWordScore

	order := g.cfg.Levels()
	targetIdx, err := g.cfg.Index(targetLevel)
	if err != nil {
		return -1
	}
	for i := 0; i < targetIdx; i++ {
		score += float64(book.LevelDistributions[order[i]].Count) * reviewBonusPerWord
	}
	if targetIdx < len(order)-1 {
		previewCount := book.LevelDistributions[order[targetIdx+1]].Count
		if previewCount > previewWordCap {
			previewCount = previewWordCap
		}
		score += float64(previewCount) * previewBonusRate
	}

	score -= float64(book.UnknownCount) * unknownPenalty

	if iteration > efficiencyMinIter && remaining.Len() > 0 {
		score += float64(newCoverage) / float64(remaining.Len()) * efficiencyBonus
	}
	return score
}

func (g *Generator) coverageSnapshot(
	covered wordset.Set,
	targetVocabulary map[string]wordset.Set,
) map[string]CoverageSnapshot {
	snapshot := make(map[string]CoverageSnapshot, g.cfg.Count())
	for _, level := range g.cfg.Levels() {
		vocab := targetVocabulary[level]
		total := vocab.Len()
		coveredCount := wordset.IntersectCount(covered, vocab)
		ratio := 0.0
		if total > 0 {
			ratio = float64(coveredCount) / float64(total)
		}
		snapshot[level] = CoverageSnapshot{Covered: coveredCount, Total: total, Ratio: ratio}
	}
	return snapshot
}

func (g *Generator) buildSummary(result Result, analyses map[string]analysis.BookAnalysis) Summary {
	order := result.LevelOrder
	booksPerLevel := make(map[string]int, len(order))
	progression := make([]LevelDifficulty, 0, len(order))
	for _, level := range order {
		levelResult := result.Levels[level]
		booksPerLevel[level] = len(levelResult.SelectedBooks)
		if len(levelResult.SelectedBooks) == 0 {
			continue
		}
		sum := 0.0
		for _, bookID := range levelResult.SelectedBooks {
			sum += analyses[bookID].DifficultyScore
		}
		avg := sum / float64(len(levelResult.SelectedBooks))
		progression = append(progression, LevelDifficulty{
			Level:         level,
			AvgDifficulty: math.Round(avg*100) / 100,
		})
	}

	finalLevel := order[len(order)-1]
	recommended := make([]string, len(result.TotalBooks))
	copy(recommended, result.TotalBooks)

	return Summary{
		TotalBooks:            len(result.TotalBooks),
		BooksPerLevel:         booksPerLevel,
		FinalCoverage:         result.CumulativeCoverage[finalLevel],
		DifficultyProgression: progression,
		RecommendedOrder:      recommended,
	}
}

func (g *Generator) tracef(format string, args ...any) {
	if g.Trace == nil {
		return
	}
	fmt.Fprintf(g.Trace, format, args...)
}
