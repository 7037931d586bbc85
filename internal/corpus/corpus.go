// Package corpus loads book vocabularies and word-to-level mappings from
// disk.
package corpus

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

// LoadBookFile reads one word per line from the provided file path. Blank
// lines are skipped and duplicates collapse into the set.
func LoadBookFile(path string) (wordset.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only vocabulary file.
			_ = cerr
		}
	}()

	vocab := make(wordset.Set)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		vocab.Add(word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vocab, nil
}

// LoadBooksDir loads every .txt file in dir as a book; the book ID is the
// file name without the extension.
func LoadBooksDir(dir string) (map[string]wordset.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}
	books := make(map[string]wordset.Set)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		vocab, err := LoadBookFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load book %s: %w", name, err)
		}
		books[strings.TrimSuffix(name, ".txt")] = vocab
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("no book files found in %s", dir)
	}
	return books, nil
}

// LoadWordLevels reads a word,level CSV file. A header row naming the first
// column "word" is skipped. Rows with an empty word are ignored.
func LoadWordLevels(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	mapping := make(map[string]string)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse word levels: %w", err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("word levels line %d: expected word,level", line)
		}
		word := strings.TrimSpace(record[0])
		level := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(word, "word") {
			continue
		}
		if word == "" {
			continue
		}
		if level == "" {
			return nil, fmt.Errorf("word levels line %d: empty level for %q", line, word)
		}
		mapping[word] = level
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("word levels file is empty")
	}
	return mapping, nil
}
