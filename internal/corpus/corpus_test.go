package corpus

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadBookFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")
	writeFile(t, path, "alpha\n\n  beta  \nalpha\ngamma\n")

	vocab, err := LoadBookFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := vocab.Sorted(); !reflect.DeepEqual(got, []string{"alpha", "beta", "gamma"}) {
		t.Fatalf("unexpected vocabulary: %v", got)
	}
}

func TestLoadBooksDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "first.txt"), "a\nb\n")
	writeFile(t, filepath.Join(dir, "second.txt"), "c\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored\n")

	books, err := LoadBooksDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if got := books["first"].Sorted(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected first book: %v", got)
	}
	if _, ok := books["notes"]; ok {
		t.Fatalf("non-txt file should be ignored")
	}

	if _, err := LoadBooksDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestLoadWordLevels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.csv")
	writeFile(t, path, "word,level\nalpha,A1\nbeta,A2\n,B1\n")

	mapping, err := LoadWordLevels(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"alpha": "A1", "beta": "A2"}
	if !reflect.DeepEqual(mapping, want) {
		t.Fatalf("unexpected mapping: %v", mapping)
	}
}

func TestLoadWordLevelsWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.csv")
	writeFile(t, path, "alpha,A1\nbeta,A2\n")

	mapping, err := LoadWordLevels(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mapping) != 2 || mapping["alpha"] != "A1" {
		t.Fatalf("unexpected mapping: %v", mapping)
	}
}

func TestLoadWordLevelsErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	writeFile(t, empty, "word,level\n")
	if _, err := LoadWordLevels(empty); err == nil {
		t.Fatalf("expected error for empty mapping")
	}

	short := filepath.Join(dir, "short.csv")
	writeFile(t, short, "alpha\n")
	if _, err := LoadWordLevels(short); err == nil {
		t.Fatalf("expected error for missing level column")
	}

	blankLevel := filepath.Join(dir, "blank.csv")
	writeFile(t, blankLevel, "alpha,\n")
	if _, err := LoadWordLevels(blankLevel); err == nil {
		t.Fatalf("expected error for empty level")
	}
}

func TestManifestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.txt"), "a\nb\n")
	writeFile(t, filepath.Join(dir, "two.txt"), "c\n")
	writeFile(t, filepath.Join(dir, "levels.csv"), "a,A1\nb,A1\nc,A2\n")
	manifestPath := filepath.Join(dir, "corpus.yaml")
	writeFile(t, manifestPath, `books:
  - id: one
    path: one.txt
  - id: two
    path: two.txt
word_levels:
  path: levels.csv
`)

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	books, wordLevels, err := manifest.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if got := books["one"].Sorted(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected book one: %v", got)
	}
	if wordLevels["c"] != "A2" {
		t.Fatalf("unexpected word levels: %v", wordLevels)
	}
}

func TestManifestValidation(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"no books":     "books: []\nword_levels:\n  path: levels.csv\n",
		"missing id":   "books:\n  - path: one.txt\nword_levels:\n  path: levels.csv\n",
		"missing path": "books:\n  - id: one\nword_levels:\n  path: levels.csv\n",
		"duplicate id": "books:\n  - id: one\n    path: a.txt\n  - id: one\n    path: b.txt\nword_levels:\n  path: levels.csv\n",
		"no levels":    "books:\n  - id: one\n    path: one.txt\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, "manifest.yaml")
		writeFile(t, path, content)
		if _, err := LoadManifest(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
