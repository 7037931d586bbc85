package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

// Manifest describes a corpus explicitly: every book file and the word-level
// source. Relative paths resolve against the manifest's directory.
type Manifest struct {
	Books      []ManifestBook `yaml:"books"`
	WordLevels ManifestFile   `yaml:"word_levels"`

	dir string
}

// ManifestBook names one book and its vocabulary file.
type ManifestBook struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// ManifestFile points at a supporting data file.
type ManifestFile struct {
	Path string `yaml:"path"`
}

// LoadManifest parses and validates a corpus manifest.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Books) == 0 {
		return Manifest{}, fmt.Errorf("manifest lists no books")
	}
	seen := make(map[string]bool, len(m.Books))
	for i, book := range m.Books {
		if book.ID == "" {
			return Manifest{}, fmt.Errorf("manifest book %d has no id", i)
		}
		if book.Path == "" {
			return Manifest{}, fmt.Errorf("manifest book %q has no path", book.ID)
		}
		if seen[book.ID] {
			return Manifest{}, fmt.Errorf("manifest book %q is listed twice", book.ID)
		}
		seen[book.ID] = true
	}
	if m.WordLevels.Path == "" {
		return Manifest{}, fmt.Errorf("manifest has no word_levels path")
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Load reads every book file and the word-level source named by the manifest.
func (m Manifest) Load() (map[string]wordset.Set, map[string]string, error) {
	books := make(map[string]wordset.Set, len(m.Books))
	for _, book := range m.Books {
		vocab, err := LoadBookFile(m.resolve(book.Path))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load book %q: %w", book.ID, err)
		}
		books[book.ID] = vocab
	}
	wordLevels, err := LoadWordLevels(m.resolve(m.WordLevels.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load word levels: %w", err)
	}
	return books, wordLevels, nil
}

func (m Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}
