// Package main provides the CLI entrypoint for readpath.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminwangfan/reading-path-builer/internal/builder"
	"github.com/benjaminwangfan/reading-path-builer/internal/config"
	"github.com/benjaminwangfan/reading-path-builer/internal/corpus"
	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
	"github.com/benjaminwangfan/reading-path-builer/internal/pathgen"
	"github.com/benjaminwangfan/reading-path-builer/internal/pathui"
	"github.com/benjaminwangfan/reading-path-builer/internal/render"
	"github.com/benjaminwangfan/reading-path-builer/internal/store"
	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

const (
	defaultPreset = "cefr"
	defaultGrades = 6
)

var (
	optCorpus      string
	optManifest    string
	optWordLevels  string
	optLevelConfig string
	optPreset      string
	optGrades      int

	pathStrategy    string
	pathJSON        bool
	pathSave        bool
	pathInteractive bool
	pathTrace       bool

	altStrategies string
	altJSON       bool

	historyShow int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "readpath",
		Short:         "Progressive reading path builder",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPathCmd,
	}

	rootCmd.PersistentFlags().StringVar(&optCorpus, "corpus", "", "directory of book vocabulary files (one word per line)")
	rootCmd.PersistentFlags().StringVar(&optManifest, "manifest", "", "corpus manifest file (YAML)")
	rootCmd.PersistentFlags().StringVar(&optWordLevels, "word-levels", "", "word,level CSV file")
	rootCmd.PersistentFlags().StringVar(&optLevelConfig, "level-config", "", "level configuration file (TOML)")
	rootCmd.PersistentFlags().StringVar(&optPreset, "preset", defaultPreset, "level preset: cefr, grade, or frequency")
	rootCmd.PersistentFlags().IntVar(&optGrades, "grades", defaultGrades, "number of grades for the grade preset")

	rootCmd.Flags().StringVar(&pathStrategy, "strategy", "", "parameter strategy: conservative, standard, or fast (default: per level config)")
	rootCmd.Flags().BoolVar(&pathJSON, "json", false, "emit the path as JSON")
	rootCmd.Flags().BoolVar(&pathSave, "save", false, "save the generated path to history")
	rootCmd.Flags().BoolVar(&pathInteractive, "interactive", false, "browse the path in a TUI")
	rootCmd.Flags().BoolVar(&pathTrace, "trace", false, "print selection progress to stderr")

	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newBookCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newAlternativesCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPathCmd(cmd *cobra.Command, _ []string) error {
	b, fileCfg, err := loadBuilder(cmd)
	if err != nil {
		return err
	}

	applyStringConfig(cmd, "strategy", &pathStrategy, fileCfg.Path.Strategy)
	applyBoolConfig(cmd, "save", &pathSave, fileCfg.Path.Save)

	if pathTrace {
		b.SetTrace(os.Stderr)
	}

	var params *pathgen.Parameters
	strategyLabel := "default"
	if pathStrategy != "" {
		p, ok := b.ParametersForStrategy(pathStrategy)
		if !ok {
			return fmt.Errorf("unknown strategy %q (conservative, standard, or fast)", pathStrategy)
		}
		params = &p
		strategyLabel = builder.CanonicalStrategy(pathStrategy)
	}

	result, err := b.CreateReadingPath(params)
	if err != nil {
		return fmt.Errorf("failed to generate path: %w", err)
	}

	if pathSave {
		id, err := savePath(strategyLabel, result)
		if err != nil {
			return err
		}
		logErrf("saved path %d\n", id)
	}

	if pathInteractive {
		return pathui.Run(result, b.Analyses())
	}
	if pathJSON {
		return writeJSON(cmd, result)
	}
	return render.RenderPath(cmd.OutOrStdout(), fmt.Sprintf("Reading path (%s)", strategyLabel), result, b.Analyses())
}

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <book> <level>",
		Short: "Evaluate a book for a target level",
		Args:  cobra.ExactArgs(2),
		RunE:  runEvaluateCmd,
	}
}

func runEvaluateCmd(cmd *cobra.Command, args []string) error {
	b, _, err := loadBuilder(cmd)
	if err != nil {
		return err
	}
	evaluation, err := b.EvaluateBookForLevel(args[0], args[1])
	if err != nil {
		return err
	}
	return render.RenderEvaluation(cmd.OutOrStdout(), evaluation)
}

func newBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book <book>",
		Short: "Show vocabulary statistics for a book",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookCmd,
	}
}

func runBookCmd(cmd *cobra.Command, args []string) error {
	b, _, err := loadBuilder(cmd)
	if err != nil {
		return err
	}
	book, err := b.BookStatistics(args[0])
	if err != nil {
		return err
	}
	cfg := b.Config()
	return render.RenderBookStatistics(cmd.OutOrStdout(), book, cfg.Levels(), cfg.Beyond())
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show target vocabulary size per level",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	b, _, err := loadBuilder(cmd)
	if err != nil {
		return err
	}
	return render.RenderLevelStats(cmd.OutOrStdout(), b.LevelVocabularyStats(), b.Config().Levels())
}

func newAlternativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alternatives",
		Short: "Generate paths for multiple strategies",
		Args:  cobra.NoArgs,
		RunE:  runAlternativesCmd,
	}
	cmd.Flags().StringVar(&altStrategies, "strategies", "", "comma-separated strategies (default: conservative,standard,fast)")
	cmd.Flags().BoolVar(&altJSON, "json", false, "emit the paths as JSON")
	return cmd
}

func runAlternativesCmd(cmd *cobra.Command, _ []string) error {
	b, _, err := loadBuilder(cmd)
	if err != nil {
		return err
	}
	var requested []string
	if altStrategies != "" {
		for _, name := range strings.Split(altStrategies, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if builder.CanonicalStrategy(name) == "" {
				return fmt.Errorf("unknown strategy %q (conservative, standard, or fast)", name)
			}
			requested = append(requested, name)
		}
	}
	paths, err := b.AlternativePaths(requested)
	if err != nil {
		return err
	}
	if altJSON {
		type namedPath struct {
			Strategy string         `json:"strategy"`
			Path     pathgen.Result `json:"path"`
		}
		out := make([]namedPath, 0, len(paths))
		for _, p := range paths {
			out = append(out, namedPath{Strategy: p.Strategy, Path: p.Result})
		}
		return writeJSON(cmd, out)
	}
	for _, p := range paths {
		if err := render.RenderPath(cmd.OutOrStdout(), fmt.Sprintf("Reading path (%s)", p.Strategy), p.Result, b.Analyses()); err != nil {
			return err
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved paths",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().Int64Var(&historyShow, "show", 0, "show the books of a saved path by ID")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if historyShow > 0 {
		pathLevels, err := st.PathLevels(ctx, historyShow)
		if err != nil {
			return fmt.Errorf("failed to load path %d: %w", historyShow, err)
		}
		books, err := st.PathBooks(ctx, historyShow)
		if err != nil {
			return fmt.Errorf("failed to load path %d: %w", historyShow, err)
		}
		for _, lvl := range pathLevels {
			if _, err := fmt.Fprintf(out, "%s: %d/%d (%.1f%%), %d books\n",
				lvl.Level, lvl.CoveredWords, lvl.TargetWords, lvl.Coverage*100, lvl.BooksCount); err != nil {
				return err
			}
		}
		for _, b := range books {
			if _, err := fmt.Fprintf(out, "%3d. [%s] %s\n", b.Position, b.Level, b.BookID); err != nil {
				return err
			}
		}
		return nil
	}

	paths, err := st.ListPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list paths: %w", err)
	}
	if len(paths) == 0 {
		_, err := fmt.Fprintln(out, "No saved paths.")
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintf(out, "%3d  %s  %-12s  %d books  (%s)\n",
			p.ID, p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Strategy,
			p.TotalBooks, strings.Join(p.Levels, ",")); err != nil {
			return err
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadBuilder resolves inputs from flags and the config file, loads the
// corpus, and constructs the facade.
func loadBuilder(cmd *cobra.Command) (*builder.Builder, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "corpus", &optCorpus, fileCfg.Path.Corpus)
	applyStringConfig(cmd, "manifest", &optManifest, fileCfg.Path.Manifest)
	applyStringConfig(cmd, "word-levels", &optWordLevels, fileCfg.Path.WordLevels)
	applyStringConfig(cmd, "level-config", &optLevelConfig, fileCfg.Path.LevelConfig)
	applyStringConfig(cmd, "preset", &optPreset, fileCfg.Path.Preset)
	applyIntConfig(cmd, "grades", &optGrades, fileCfg.Path.Grades)

	levelCfg, err := resolveLevelConfig()
	if err != nil {
		return nil, config.FileConfig{}, err
	}
	booksVocab, wordLevels, err := loadCorpus()
	if err != nil {
		return nil, config.FileConfig{}, err
	}
	b, err := builder.New(booksVocab, wordLevels, levelCfg)
	if err != nil {
		return nil, config.FileConfig{}, fmt.Errorf("failed to analyze corpus: %w", err)
	}
	return b, fileCfg, nil
}

func resolveLevelConfig() (*levels.Config, error) {
	if optLevelConfig != "" {
		cfg, err := config.LoadLevelConfig(optLevelConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load level config: %w", err)
		}
		return cfg, nil
	}
	switch strings.ToLower(optPreset) {
	case "cefr":
		return levels.NewCEFR(), nil
	case "grade":
		return levels.NewGrade(optGrades)
	case "frequency":
		return levels.NewFrequency(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (cefr, grade, or frequency)", optPreset)
	}
}

func loadCorpus() (map[string]wordset.Set, map[string]string, error) {
	if optManifest != "" {
		manifest, err := corpus.LoadManifest(optManifest)
		if err != nil {
			return nil, nil, err
		}
		return manifest.Load()
	}
	if optCorpus == "" || optWordLevels == "" {
		return nil, nil, fmt.Errorf("either --manifest or both --corpus and --word-levels are required")
	}
	booksVocab, err := corpus.LoadBooksDir(optCorpus)
	if err != nil {
		return nil, nil, err
	}
	wordLevels, err := corpus.LoadWordLevels(optWordLevels)
	if err != nil {
		return nil, nil, err
	}
	return booksVocab, wordLevels, nil
}

func savePath(strategy string, result pathgen.Result) (int64, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return 0, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	id, err := st.SavePath(context.Background(), strategy, result)
	if err != nil {
		return 0, fmt.Errorf("failed to save path: %w", err)
	}
	return id, nil
}

func writeJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

// flagChanged checks the command's own flags and the inherited persistent set.
func flagChanged(cmd *cobra.Command, name string) bool {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.InheritedFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}

func defaultConfigTemplate() string {
	return `# readpath configuration
# Uncomment a value to enable it. CLI flags override config values.

[path]
# corpus = "~/books/vocab"      # Directory of book vocabulary files
# manifest = "corpus.yaml"      # Corpus manifest (overrides corpus/word-levels)
# word-levels = "levels.csv"    # word,level CSV file
# level-config = "levels.toml"  # Custom level configuration
# preset = "cefr"               # Level preset: cefr, grade, or frequency
# grades = 6                    # Grade count for the grade preset
# strategy = "standard"         # conservative, standard, or fast
# save = false                  # Save generated paths to history
`
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
