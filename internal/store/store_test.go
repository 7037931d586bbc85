package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/benjaminwangfan/reading-path-builer/internal/pathgen"
	"github.com/benjaminwangfan/reading-path-builer/internal/wordset"
)

func sampleResult() pathgen.Result {
	return pathgen.Result{
		LevelOrder: []string{"A1", "A2"},
		Levels: map[string]pathgen.LevelResult{
			"A1": {
				TargetLevel:     "A1",
				SelectedBooks:   []string{"book1", "book2"},
				Coverage:        1.0,
				NewWordsCovered: wordset.New("a", "b"),
				TargetWords:     2,
				CoveredWords:    2,
				BooksCount:      2,
			},
			"A2": {
				TargetLevel:     "A2",
				SelectedBooks:   []string{"book3"},
				Coverage:        0.5,
				NewWordsCovered: wordset.New("c"),
				TargetWords:     2,
				CoveredWords:    1,
				BooksCount:      1,
			},
		},
		TotalBooks: []string{"book1", "book2", "book3"},
		Summary: pathgen.Summary{
			TotalBooks:    3,
			BooksPerLevel: map[string]int{"A1": 2, "A2": 1},
		},
	}
}

func TestSaveAndLoadPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "readpath.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	id, err := st.SavePath(ctx, "standard", sampleResult())
	if err != nil {
		t.Fatalf("save path: %v", err)
	}

	paths, err := st.ListPaths(ctx)
	if err != nil {
		t.Fatalf("list paths: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 saved path, got %d", len(paths))
	}
	saved := paths[0]
	if saved.ID != id || saved.Strategy != "standard" || saved.TotalBooks != 3 {
		t.Fatalf("unexpected saved path: %+v", saved)
	}
	if !reflect.DeepEqual(saved.Levels, []string{"A1", "A2"}) {
		t.Fatalf("unexpected level order: %v", saved.Levels)
	}

	pathLevels, err := st.PathLevels(ctx, id)
	if err != nil {
		t.Fatalf("path levels: %v", err)
	}
	if len(pathLevels) != 2 {
		t.Fatalf("expected 2 level rows, got %d", len(pathLevels))
	}
	if pathLevels[0].Level != "A1" || pathLevels[0].CoveredWords != 2 || pathLevels[0].Coverage != 1.0 {
		t.Fatalf("unexpected A1 row: %+v", pathLevels[0])
	}
	if pathLevels[1].Level != "A2" || pathLevels[1].Coverage != 0.5 {
		t.Fatalf("unexpected A2 row: %+v", pathLevels[1])
	}

	books, err := st.PathBooks(ctx, id)
	if err != nil {
		t.Fatalf("path books: %v", err)
	}
	wantBooks := []SavedBook{
		{Position: 1, Level: "A1", BookID: "book1"},
		{Position: 2, Level: "A1", BookID: "book2"},
		{Position: 3, Level: "A2", BookID: "book3"},
	}
	if !reflect.DeepEqual(books, wantBooks) {
		t.Fatalf("unexpected book rows: %+v", books)
	}
}

func TestListPathsNewestFirst(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "readpath.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	first, err := st.SavePath(ctx, "fast", sampleResult())
	if err != nil {
		t.Fatalf("save path: %v", err)
	}
	second, err := st.SavePath(ctx, "conservative", sampleResult())
	if err != nil {
		t.Fatalf("save path: %v", err)
	}

	paths, err := st.ListPaths(ctx)
	if err != nil {
		t.Fatalf("list paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 saved paths, got %d", len(paths))
	}
	if paths[0].ID != second || paths[1].ID != first {
		t.Fatalf("expected newest first, got %+v", paths)
	}
}
