package pathgen

import (
	"errors"
	"reflect"
	"testing"

	"github.com/benjaminwangfan/reading-path-builer/internal/levels"
)

func TestValidateParameters(t *testing.T) {
	cfg := levels.NewCEFR()
	valid := uniformParams(cfg, 2, 0.9, 0.2, 0.5, 10)
	if err := valid.Validate(cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	mutate := func(fn func(*Parameters)) Parameters {
		p := uniformParams(cfg, 2, 0.9, 0.2, 0.5, 10)
		fn(&p)
		return p
	}

	cases := []struct {
		name   string
		params Parameters
	}{
		{"missing max books", mutate(func(p *Parameters) { delete(p.MaxBooksPerLevel, "B1") })},
		{"zero max books", mutate(func(p *Parameters) { p.MaxBooksPerLevel["B1"] = 0 })},
		{"missing coverage", mutate(func(p *Parameters) { delete(p.TargetCoveragePerLevel, "C1") })},
		{"coverage above one", mutate(func(p *Parameters) { p.TargetCoveragePerLevel["A1"] = 1.5 })},
		{"negative unknown ratio", mutate(func(p *Parameters) { p.MaxUnknownRatio = -0.1 })},
		{"relevant ratio above one", mutate(func(p *Parameters) { p.MinRelevantRatio = 1.1 })},
		{"ratios exceed one", mutate(func(p *Parameters) { p.MaxUnknownRatio = 0.6; p.MinRelevantRatio = 0.6 })},
		{"zero min target words", mutate(func(p *Parameters) { p.MinTargetLevelWords = 0 })},
	}
	for _, tc := range cases {
		if err := tc.params.Validate(cfg); !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("%s: expected ErrInvalidParameters, got %v", tc.name, err)
		}
	}
}

func TestCriteriaForLevel(t *testing.T) {
	cfg := levels.NewCEFR()
	params := uniformParams(cfg, 2, 0.9, 0.12, 0.45, 25)
	criteria := params.CriteriaForLevel()
	want := Criteria{
		MaxUnknownRatio:     0.12,
		MinSuitabilityScore: 0.45,
		MinTargetWords:      25,
		PreferHighCoverage:  true,
	}
	if criteria != want {
		t.Fatalf("unexpected criteria: %+v", criteria)
	}
}

func TestStandardCriteria(t *testing.T) {
	criteria := StandardCriteria()
	if criteria.MaxUnknownRatio != 0.15 || criteria.MinSuitabilityScore != 0.5 || criteria.MinTargetWords != 30 {
		t.Fatalf("unexpected standard criteria: %+v", criteria)
	}
}

func TestPresetParameterShapes(t *testing.T) {
	cfg := levels.NewCEFR()

	conservative := ConservativeParameters(cfg)
	if !reflect.DeepEqual(conservative.MaxBooksPerLevel, map[string]int{"A1": 4, "A2": 4, "B1": 3, "B2": 3, "C1": 2}) {
		t.Fatalf("unexpected conservative max books: %v", conservative.MaxBooksPerLevel)
	}
	if !reflect.DeepEqual(conservative.TargetCoveragePerLevel, map[string]float64{"A1": 0.9, "A2": 0.9, "B1": 0.9, "B2": 0.8, "C1": 0.8}) {
		t.Fatalf("unexpected conservative coverage: %v", conservative.TargetCoveragePerLevel)
	}
	if conservative.MaxUnknownRatio != 0.10 || conservative.MinRelevantRatio != 0.60 || conservative.MinTargetLevelWords != 50 {
		t.Fatalf("unexpected conservative gates: %+v", conservative)
	}

	standard := StandardParameters(cfg)
	if !reflect.DeepEqual(standard.MaxBooksPerLevel, map[string]int{"A1": 3, "A2": 3, "B1": 4, "B2": 3, "C1": 2}) {
		t.Fatalf("unexpected standard max books: %v", standard.MaxBooksPerLevel)
	}
	if !reflect.DeepEqual(standard.TargetCoveragePerLevel, map[string]float64{"A1": 0.85, "A2": 0.9, "B1": 0.9, "B2": 0.9, "C1": 0.9}) {
		t.Fatalf("unexpected standard coverage: %v", standard.TargetCoveragePerLevel)
	}
	if standard.MaxUnknownRatio != 0.15 || standard.MinRelevantRatio != 0.40 || standard.MinTargetLevelWords != 30 {
		t.Fatalf("unexpected standard gates: %+v", standard)
	}

	fast := FastParameters(cfg)
	if !reflect.DeepEqual(fast.MaxBooksPerLevel, map[string]int{"A1": 2, "A2": 3, "B1": 3, "B2": 3, "C1": 3}) {
		t.Fatalf("unexpected fast max books: %v", fast.MaxBooksPerLevel)
	}
	if !reflect.DeepEqual(fast.TargetCoveragePerLevel, map[string]float64{"A1": 0.75, "A2": 0.75, "B1": 0.8, "B2": 0.85, "C1": 0.85}) {
		t.Fatalf("unexpected fast coverage: %v", fast.TargetCoveragePerLevel)
	}
	if fast.MaxUnknownRatio != 0.25 || fast.MinRelevantRatio != 0.30 || fast.MinTargetLevelWords != 10 {
		t.Fatalf("unexpected fast gates: %+v", fast)
	}
}

func TestDefaultParameters(t *testing.T) {
	cefr := levels.NewCEFR()
	params := DefaultParameters(cefr)
	if !reflect.DeepEqual(params.MaxBooksPerLevel, map[string]int{"A1": 3, "A2": 3, "B1": 4, "B2": 3, "C1": 2}) {
		t.Fatalf("unexpected CEFR default max books: %v", params.MaxBooksPerLevel)
	}
	if params.TargetCoveragePerLevel["A1"] != 0.85 || params.TargetCoveragePerLevel["C1"] != 0.9 {
		t.Fatalf("unexpected CEFR default coverage: %v", params.TargetCoveragePerLevel)
	}

	grade, err := levels.NewGrade(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gradeParams := DefaultParameters(grade)
	if !reflect.DeepEqual(gradeParams, ConservativeParameters(grade)) {
		t.Fatalf("non-CEFR defaults should be conservative")
	}
	if err := gradeParams.Validate(grade); err != nil {
		t.Fatalf("default parameters must validate: %v", err)
	}
}
