// Package pathgen selects an ordered, level-partitioned subset of books that
// covers each level's target vocabulary under quality constraints.
package pathgen

import (
	"errors"
	"fmt"

	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
)

// ErrInvalidParameters reports generation parameters that are incomplete or
// out of range for the level configuration.
var ErrInvalidParameters = errors.New("invalid path parameters")

// Parameters configures one path-generation run.
type Parameters struct {
	MaxBooksPerLevel       map[string]int
	TargetCoveragePerLevel map[string]float64
	MaxUnknownRatio        float64
	MinRelevantRatio       float64
	MinTargetLevelWords    int
}

// Validate checks the parameters against a level configuration. Every
// configured level needs an entry in both per-level maps.
func (p Parameters) Validate(cfg *levels.Config) error {
	for _, level := range cfg.Levels() {
		maxBooks, ok := p.MaxBooksPerLevel[level]
		if !ok {
			return fmt.Errorf("%w: no max books for level %q", ErrInvalidParameters, level)
		}
		if maxBooks <= 0 {
			return fmt.Errorf("%w: max books for level %q must be positive", ErrInvalidParameters, level)
		}
		coverage, ok := p.TargetCoveragePerLevel[level]
		if !ok {
			return fmt.Errorf("%w: no target coverage for level %q", ErrInvalidParameters, level)
		}
		if coverage < 0 || coverage > 1 {
			return fmt.Errorf("%w: target coverage for level %q must be within [0,1]", ErrInvalidParameters, level)
		}
	}
	if p.MaxUnknownRatio < 0 || p.MaxUnknownRatio > 1 {
		return fmt.Errorf("%w: max unknown ratio must be within [0,1]", ErrInvalidParameters)
	}
	if p.MinRelevantRatio < 0 || p.MinRelevantRatio > 1 {
		return fmt.Errorf("%w: min relevant ratio must be within [0,1]", ErrInvalidParameters)
	}
	if p.MaxUnknownRatio+p.MinRelevantRatio > 1 {
		return fmt.Errorf("%w: max unknown ratio plus min relevant ratio exceeds 1", ErrInvalidParameters)
	}
	if p.MinTargetLevelWords < 1 {
		return fmt.Errorf("%w: min target level words must be at least 1", ErrInvalidParameters)
	}
	return nil
}

// Criteria gates which books are selectable for one level.
type Criteria struct {
	MaxUnknownRatio     float64
	MinSuitabilityScore float64
	MinTargetWords      int
	PreferHighCoverage  bool
}

// CriteriaForLevel derives the per-level selection criteria from the run
// parameters.
func (p Parameters) CriteriaForLevel() Criteria {
	return Criteria{
		MaxUnknownRatio:     p.MaxUnknownRatio,
		MinSuitabilityScore: p.MinRelevantRatio,
		MinTargetWords:      p.MinTargetLevelWords,
		PreferHighCoverage:  true,
	}
}

// StandardCriteria are the default gates used when evaluating a single book
// outside a generation run.
func StandardCriteria() Criteria {
	return Criteria{
		MaxUnknownRatio:     0.15,
		MinSuitabilityScore: 0.5,
		MinTargetWords:      30,
		PreferHighCoverage:  true,
	}
}

// ConservativeParameters favor thorough coverage: more books on the early
// levels, strict unknown-word and relevance gates.
func ConservativeParameters(cfg *levels.Config) Parameters {
	maxBooks := make(map[string]int)
	coverage := make(map[string]float64)
	for i, level := range cfg.Levels() {
		switch {
		case i < 2:
			maxBooks[level] = 4
		case i < 4:
			maxBooks[level] = 3
		default:
			maxBooks[level] = 2
		}
		if i < 3 {
			coverage[level] = 0.9
		} else {
			coverage[level] = 0.8
		}
	}
	return Parameters{
		MaxBooksPerLevel:       maxBooks,
		TargetCoveragePerLevel: coverage,
		MaxUnknownRatio:        0.10,
		MinRelevantRatio:       0.60,
		MinTargetLevelWords:    50,
	}
}

// StandardParameters balance coverage against path length.
func StandardParameters(cfg *levels.Config) Parameters {
	maxBooks := make(map[string]int)
	coverage := make(map[string]float64)
	for i, level := range cfg.Levels() {
		switch {
		case i < 2:
			maxBooks[level] = 3
		case i == 2:
			maxBooks[level] = 4
		case i < 4:
			maxBooks[level] = 3
		default:
			maxBooks[level] = 2
		}
		if i == 0 {
			coverage[level] = 0.85
		} else {
			coverage[level] = 0.9
		}
	}
	return Parameters{
		MaxBooksPerLevel:       maxBooks,
		TargetCoveragePerLevel: coverage,
		MaxUnknownRatio:        0.15,
		MinRelevantRatio:       0.40,
		MinTargetLevelWords:    30,
	}
}

// FastParameters trade coverage for a short path with permissive gates.
func FastParameters(cfg *levels.Config) Parameters {
	maxBooks := make(map[string]int)
	coverage := make(map[string]float64)
	for i, level := range cfg.Levels() {
		if i < 1 {
			maxBooks[level] = 2
		} else {
			maxBooks[level] = 3
		}
		switch {
		case i < 2:
			coverage[level] = 0.75
		case i < 3:
			coverage[level] = 0.8
		default:
			coverage[level] = 0.85
		}
	}
	return Parameters{
		MaxBooksPerLevel:       maxBooks,
		TargetCoveragePerLevel: coverage,
		MaxUnknownRatio:        0.25,
		MinRelevantRatio:       0.30,
		MinTargetLevelWords:    10,
	}
}

var cefrLevels = []string{"A1", "A2", "B1", "B2", "C1"}

// DefaultParameters picks the parameters used when the caller supplies none:
// the CEFR defaults for the CEFR level set, conservative otherwise.
func DefaultParameters(cfg *levels.Config) Parameters {
	names := cfg.Levels()
	if len(names) == len(cefrLevels) {
		match := true
		for i, name := range names {
			if name != cefrLevels[i] {
				match = false
				break
			}
		}
		if match {
			return Parameters{
				MaxBooksPerLevel:       map[string]int{"A1": 3, "A2": 3, "B1": 4, "B2": 3, "C1": 2},
				TargetCoveragePerLevel: map[string]float64{"A1": 0.85, "A2": 0.9, "B1": 0.9, "B2": 0.9, "C1": 0.9},
				MaxUnknownRatio:        0.15,
				MinRelevantRatio:       0.40,
				MinTargetLevelWords:    30,
			}
		}
	}
	return ConservativeParameters(cfg)
}
