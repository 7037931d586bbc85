package render

import (
	"fmt"
	"io"

	"github.com/benjaminwangfan/reading-path-builer/internal/analysis"
	"github.com/benjaminwangfan/reading-path-builer/internal/builder"
	"github.com/benjaminwangfan/reading-path-builer/internal/pathgen"
)

const maxWordSample = 40

// RenderPath prints a generated reading path: the summary, the final
// per-level coverage, and the recommended order grouped by level.
func RenderPath(w io.Writer, title string, result pathgen.Result, analyses map[string]analysis.BookAnalysis) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total books: %d\n", result.Summary.TotalBooks); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nFinal coverage:"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(result.LevelOrder))
	for _, level := range result.LevelOrder {
		cov := result.Summary.FinalCoverage[level]
		rows = append(rows, []string{
			level,
			fmt.Sprintf("%d/%d", cov.Covered, cov.Total),
			coverageBar(cov.Ratio),
			fmt.Sprintf("%.1f%%", cov.Ratio*100),
		})
	}
	for _, line := range formatTable([]string{"Level", "Words", "", "Coverage"}, rows, map[int]bool{1: true, 3: true}) {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\nRecommended order:"); err != nil {
		return err
	}
	position := 0
	for _, level := range result.LevelOrder {
		levelResult := result.Levels[level]
		if len(levelResult.SelectedBooks) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n  === %s ===\n", level); err != nil {
			return err
		}
		for _, bookID := range levelResult.SelectedBooks {
			position++
			book := analyses[bookID]
			targetCount := book.LevelDistributions[level].Count
			if _, err := fmt.Fprintf(w, "  %2d. %s\n", position, bookID); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "      target words: %d, unknown: %d, difficulty: %.1f\n",
				targetCount, book.UnknownCount, book.DifficultyScore); err != nil {
				return err
			}
		}
	}

	width := terminalWidth()
	for _, level := range result.LevelOrder {
		levelResult := result.Levels[level]
		if levelResult.NewWordsCovered.Len() == 0 {
			continue
		}
		sample := levelResult.NewWordsCovered.Sorted()
		truncated := 0
		if len(sample) > maxWordSample {
			truncated = len(sample) - maxWordSample
			sample = sample[:maxWordSample]
		}
		if _, err := fmt.Fprintf(w, "\nNew %s words:\n", level); err != nil {
			return err
		}
		for _, line := range wrapWords(sample, "  ", width) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if truncated > 0 {
			if _, err := fmt.Fprintf(w, "  … and %d more\n", truncated); err != nil {
				return err
			}
		}
	}

	if len(result.Summary.DifficultyProgression) > 0 {
		if _, err := fmt.Fprintln(w, "\nDifficulty progression:"); err != nil {
			return err
		}
		for _, entry := range result.Summary.DifficultyProgression {
			if _, err := fmt.Fprintf(w, "  %s: %.2f\n", entry.Level, entry.AvgDifficulty); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderEvaluation prints a single-book evaluation.
func RenderEvaluation(w io.Writer, ev builder.BookEvaluation) error {
	if _, err := fmt.Fprintf(w, "Book %s at level %s\n", ev.BookID, ev.TargetLevel); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("Suitability: %.1f%%", ev.SuitabilityScore*100),
		fmt.Sprintf("Target-level words: %d (%.1f%% of book)", ev.TargetWordCount, ev.TargetWordRatio*100),
		fmt.Sprintf("Unknown ratio: %.1f%%", ev.UnknownRatio*100),
		fmt.Sprintf("Difficulty: %.2f (%s)", ev.DifficultyScore, ev.DifficultyCategory),
		fmt.Sprintf("Learning value: %.2f", ev.LearningValue),
		fmt.Sprintf("Best level: %s", ev.BestLevel),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	verdict := "does not meet"
	if ev.MeetsStandardCriteria {
		verdict = "meets"
	}
	if _, err := fmt.Fprintf(w, "  %s the standard criteria for %s\n", verdict, ev.TargetLevel); err != nil {
		return err
	}
	return nil
}

// RenderBookStatistics prints the full per-level distribution of one book.
func RenderBookStatistics(w io.Writer, book analysis.BookAnalysis, levelOrder []string, beyond string) error {
	if _, err := fmt.Fprintf(w, "Book %s: %d words, difficulty %.2f (%s), learning value %.2f\n",
		book.BookID, book.TotalWords, book.DifficultyScore, book.DifficultyCategory(), book.LearningValue); err != nil {
		return err
	}
	rows := make([][]string, 0, len(levelOrder)+1)
	for _, level := range append(append([]string{}, levelOrder...), beyond) {
		stats := book.LevelDistributions[level]
		suitability := "-"
		if level != beyond {
			suitability = fmt.Sprintf("%.1f%%", book.SuitabilityScores[level]*100)
		}
		rows = append(rows, []string{
			level,
			fmt.Sprintf("%d", stats.Count),
			fmt.Sprintf("%.1f%%", stats.Ratio*100),
			suitability,
		})
	}
	for _, line := range formatTable([]string{"Level", "Words", "Share", "Suitability"}, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	if len(book.Recommended) > 0 {
		if _, err := fmt.Fprintf(w, "  Recommended for: %v\n", book.Recommended); err != nil {
			return err
		}
	}
	return nil
}

// RenderLevelStats prints the target vocabulary size per level.
func RenderLevelStats(w io.Writer, counts map[string]int, levelOrder []string) error {
	rows := make([][]string, 0, len(levelOrder))
	for _, level := range levelOrder {
		rows = append(rows, []string{level, fmt.Sprintf("%d", counts[level])})
	}
	for _, line := range formatTable([]string{"Level", "Words"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
