package levels

import "fmt"

// NewCEFR returns the CEFR configuration: A1..C1, linear progression,
// weights favoring the easier bands.
func NewCEFR() *Config {
	cfg, err := New(
		[]string{"A1", "A2", "B1", "B2", "C1"},
		map[string]float64{"A1": 1.5, "A2": 1.3, "B1": 1.1, "B2": 1.0, "C1": 0.9},
		Linear,
		"BEYOND",
	)
	if err != nil {
		panic(fmt.Sprintf("cefr preset: %v", err))
	}
	return cfg
}

// NewGrade returns a Grade1..GradeN configuration with an exponential
// progression. Weights start at 2.0 and decrease by 0.2 per grade with a
// floor of 0.8.
func NewGrade(maxGrade int) (*Config, error) {
	if maxGrade < 1 {
		return nil, fmt.Errorf("%w: grade count must be at least 1", ErrInvalidConfig)
	}
	names := make([]string, maxGrade)
	weights := make(map[string]float64, maxGrade)
	for i := 0; i < maxGrade; i++ {
		name := fmt.Sprintf("Grade%d", i+1)
		names[i] = name
		weight := 2.0 - float64(i)*0.2
		if weight < 0.8 {
			weight = 0.8
		}
		weights[name] = weight
	}
	return New(names, weights, Exponential, "ADVANCED")
}

// NewFrequency returns a frequency-tier configuration with a linear
// progression.
func NewFrequency() *Config {
	cfg, err := New(
		[]string{"HighFreq", "MidFreq", "LowFreq", "Rare"},
		map[string]float64{"HighFreq": 1.8, "MidFreq": 1.3, "LowFreq": 1.0, "Rare": 0.7},
		Linear,
		"UNKNOWN",
	)
	if err != nil {
		panic(fmt.Sprintf("frequency preset: %v", err))
	}
	return cfg
}
