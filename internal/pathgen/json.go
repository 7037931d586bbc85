package pathgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// JSON export keeps level-keyed objects in the configured level order and
// emits word sets as sorted arrays so that identical runs serialize to
// identical bytes.

type orderedObject struct {
	buf   bytes.Buffer
	first bool
}

func newOrderedObject() *orderedObject {
	o := &orderedObject{first: true}
	o.buf.WriteByte('{')
	return o
}

func (o *orderedObject) field(name string, value any) error {
	if !o.first {
		o.buf.WriteByte(',')
	}
	o.first = false
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	o.buf.Write(key)
	o.buf.WriteByte(':')
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode field %s: %w", name, err)
	}
	o.buf.Write(raw)
	return nil
}

func (o *orderedObject) rawField(name string, raw []byte) {
	if !o.first {
		o.buf.WriteByte(',')
	}
	o.first = false
	key, _ := json.Marshal(name)
	o.buf.Write(key)
	o.buf.WriteByte(':')
	o.buf.Write(raw)
}

func (o *orderedObject) bytes() []byte {
	o.buf.WriteByte('}')
	return o.buf.Bytes()
}

type coverageJSON struct {
	Covered int     `json:"covered"`
	Total   int     `json:"total"`
	Ratio   float64 `json:"ratio"`
}

func coverageValue(s CoverageSnapshot) coverageJSON {
	return coverageJSON{Covered: s.Covered, Total: s.Total, Ratio: s.Ratio}
}

// MarshalJSON implements ordered serialization for a level result.
func (r LevelResult) MarshalJSON() ([]byte, error) {
	o := newOrderedObject()
	if err := o.field("target_level", r.TargetLevel); err != nil {
		return nil, err
	}
	if err := o.field("selected_books", r.SelectedBooks); err != nil {
		return nil, err
	}
	if err := o.field("coverage", r.Coverage); err != nil {
		return nil, err
	}
	if err := o.field("new_words_covered", r.NewWordsCovered.Sorted()); err != nil {
		return nil, err
	}
	stats := newOrderedObject()
	if err := stats.field("target_words", r.TargetWords); err != nil {
		return nil, err
	}
	if err := stats.field("covered_words", r.CoveredWords); err != nil {
		return nil, err
	}
	if err := stats.field("books_count", r.BooksCount); err != nil {
		return nil, err
	}
	o.rawField("level_stats", stats.bytes())
	return o.bytes(), nil
}

// MarshalJSON implements ordered serialization for a run result.
func (r Result) MarshalJSON() ([]byte, error) {
	o := newOrderedObject()

	levelsObj := newOrderedObject()
	for _, level := range r.LevelOrder {
		raw, err := json.Marshal(r.Levels[level])
		if err != nil {
			return nil, err
		}
		levelsObj.rawField(level, raw)
	}
	o.rawField("levels", levelsObj.bytes())

	if err := o.field("total_books", r.TotalBooks); err != nil {
		return nil, err
	}

	cumulative := newOrderedObject()
	for _, level := range r.LevelOrder {
		raw, err := marshalCoverageMap(r.CumulativeCoverage[level], r.LevelOrder)
		if err != nil {
			return nil, err
		}
		cumulative.rawField(level, raw)
	}
	o.rawField("cumulative_coverage", cumulative.bytes())

	summary, err := marshalSummary(r.Summary, r.LevelOrder)
	if err != nil {
		return nil, err
	}
	o.rawField("summary", summary)
	return o.bytes(), nil
}

func marshalCoverageMap(coverage map[string]CoverageSnapshot, order []string) ([]byte, error) {
	o := newOrderedObject()
	for _, level := range orderedKeys(coverage, order) {
		if err := o.field(level, coverageValue(coverage[level])); err != nil {
			return nil, err
		}
	}
	return o.bytes(), nil
}

func marshalSummary(s Summary, order []string) ([]byte, error) {
	o := newOrderedObject()
	if err := o.field("total_books", s.TotalBooks); err != nil {
		return nil, err
	}

	perLevel := newOrderedObject()
	for _, level := range orderedKeys(s.BooksPerLevel, order) {
		if err := perLevel.field(level, s.BooksPerLevel[level]); err != nil {
			return nil, err
		}
	}
	o.rawField("books_per_level", perLevel.bytes())

	finalCoverage, err := marshalCoverageMap(s.FinalCoverage, order)
	if err != nil {
		return nil, err
	}
	o.rawField("final_coverage", finalCoverage)

	progression := make([][2]any, 0, len(s.DifficultyProgression))
	for _, entry := range s.DifficultyProgression {
		progression = append(progression, [2]any{entry.Level, entry.AvgDifficulty})
	}
	if err := o.field("difficulty_progression", progression); err != nil {
		return nil, err
	}
	if err := o.field("recommended_order", s.RecommendedOrder); err != nil {
		return nil, err
	}
	return o.bytes(), nil
}

// orderedKeys returns the map keys in configured level order, with any keys
// outside the configuration appended lexicographically.
func orderedKeys[V any](m map[string]V, order []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, level := range order {
		if _, ok := m[level]; ok {
			keys = append(keys, level)
			seen[level] = true
		}
	}
	rest := make([]string, 0)
	for key := range m {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
