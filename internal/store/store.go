// Package store handles SQLite persistence of generated reading paths.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benjaminwangfan/reading-path-builer/internal/pathgen"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for path history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS paths (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			strategy TEXT NOT NULL,
			levels TEXT NOT NULL,
			total_books INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS path_levels (
			path_id INTEGER NOT NULL,
			level TEXT NOT NULL,
			target_words INTEGER NOT NULL,
			covered_words INTEGER NOT NULL,
			coverage REAL NOT NULL,
			books_count INTEGER NOT NULL,
			PRIMARY KEY (path_id, level)
		);`,
		`CREATE TABLE IF NOT EXISTS path_books (
			path_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			level TEXT NOT NULL,
			book_id TEXT NOT NULL,
			PRIMARY KEY (path_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_paths_created_at ON paths(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SavedPath summarizes one stored path run.
type SavedPath struct {
	ID         int64
	CreatedAt  time.Time
	Strategy   string
	Levels     []string
	TotalBooks int
}

// SavedLevel is one stored per-level outcome.
type SavedLevel struct {
	Level        string
	TargetWords  int
	CoveredWords int
	Coverage     float64
	BooksCount   int
}

// SavedBook is one stored path entry in reading order.
type SavedBook struct {
	Position int
	Level    string
	BookID   string
}

// SavePath stores a generated path and returns its ID.
func (s *Store) SavePath(ctx context.Context, strategy string, result pathgen.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO paths (created_at, strategy, levels, total_books) VALUES (?, ?, ?, ?)`,
		// Fixed-width fraction so that text order matches time order.
		time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		strategy,
		strings.Join(result.LevelOrder, ","),
		result.Summary.TotalBooks,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, level := range result.LevelOrder {
		levelResult := result.Levels[level]
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO path_levels (path_id, level, target_words, covered_words, coverage, books_count)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, level, levelResult.TargetWords, levelResult.CoveredWords, levelResult.Coverage, levelResult.BooksCount,
		); err != nil {
			return 0, err
		}
	}

	position := 0
	for _, level := range result.LevelOrder {
		for _, bookID := range result.Levels[level].SelectedBooks {
			position++
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO path_books (path_id, position, level, book_id) VALUES (?, ?, ?, ?)`,
				id, position, level, bookID,
			); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListPaths returns stored paths, newest first.
func (s *Store) ListPaths(ctx context.Context) ([]SavedPath, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, strategy, levels, total_books FROM paths ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var paths []SavedPath
	for rows.Next() {
		var p SavedPath
		var createdAt, levelList string
		if err := rows.Scan(&p.ID, &createdAt, &p.Strategy, &levelList, &p.TotalBooks); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = parsed
		if levelList != "" {
			p.Levels = strings.Split(levelList, ",")
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// PathLevels returns the per-level outcomes of one stored path in level order.
func (s *Store) PathLevels(ctx context.Context, pathID int64) ([]SavedLevel, error) {
	levelOrder, err := s.pathLevelOrder(ctx, pathID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, target_words, covered_words, coverage, books_count FROM path_levels WHERE path_id = ?`,
		pathID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	byLevel := make(map[string]SavedLevel)
	for rows.Next() {
		var lvl SavedLevel
		if err := rows.Scan(&lvl.Level, &lvl.TargetWords, &lvl.CoveredWords, &lvl.Coverage, &lvl.BooksCount); err != nil {
			return nil, err
		}
		byLevel[lvl.Level] = lvl
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]SavedLevel, 0, len(byLevel))
	for _, level := range levelOrder {
		if lvl, ok := byLevel[level]; ok {
			out = append(out, lvl)
		}
	}
	return out, nil
}

// PathBooks returns the stored reading order of one path.
func (s *Store) PathBooks(ctx context.Context, pathID int64) ([]SavedBook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, level, book_id FROM path_books WHERE path_id = ? ORDER BY position`,
		pathID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var books []SavedBook
	for rows.Next() {
		var b SavedBook
		if err := rows.Scan(&b.Position, &b.Level, &b.BookID); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) pathLevelOrder(ctx context.Context, pathID int64) ([]string, error) {
	var levelList string
	if err := s.db.QueryRowContext(ctx, `SELECT levels FROM paths WHERE id = ?`, pathID).Scan(&levelList); err != nil {
		return nil, err
	}
	if levelList == "" {
		return nil, nil
	}
	return strings.Split(levelList, ","), nil
}
