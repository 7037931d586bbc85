package pathgen

import (
	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

// CoverageSnapshot is the covered/total state of one level's target
// vocabulary at some point in a run.
type CoverageSnapshot struct {
	Covered int
	Total   int
	Ratio   float64
}

// LevelResult records the selection outcome for one target level.
type LevelResult struct {
	TargetLevel     string
	SelectedBooks   []string
	Coverage        float64
	NewWordsCovered wordset.Set
	TargetWords     int
	CoveredWords    int
	BooksCount      int
}

// LevelDifficulty pairs a level with the average difficulty of the books
// selected for it.
type LevelDifficulty struct {
	Level         string
	AvgDifficulty float64
}

// Summary aggregates a finished run.
type Summary struct {
	TotalBooks            int
	BooksPerLevel         map[string]int
	FinalCoverage         map[string]CoverageSnapshot
	DifficultyProgression []LevelDifficulty
	RecommendedOrder      []string
}

// Result is the complete outcome of one generation run. Level-keyed maps are
// iterated through LevelOrder, the configured easiest-to-hardest order.
type Result struct {
	LevelOrder         []string
	Levels             map[string]LevelResult
	TotalBooks         []string
	CumulativeCoverage map[string]map[string]CoverageSnapshot
	Summary            Summary
}

// Level returns the selection result for one level.
func (r Result) Level(name string) (LevelResult, bool) {
	lr, ok := r.Levels[name]
	return lr, ok
}
