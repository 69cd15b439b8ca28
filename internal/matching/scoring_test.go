package matching

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleFactorConfig(factor string) *MatchingConfig {
	return &MatchingConfig{Weights: map[string]int{factor: 100}}
}

func TestReligionFactor(t *testing.T) {
	cfg := singleFactorConfig(FactorReligion)

	tests := []struct {
		name      string
		requester string
		candidate string
		want      int
	}{
		{"exact match", "islam", "islam", 100},
		{"case insensitive", "Islam", "islam", 100},
		{"mismatch", "islam", "christianity", 0},
		{"requester other", "other", "islam", 50},
		{"candidate other", "islam", "Other", 50},
		{"both unset", "", "", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Profile{Religion: tt.requester}
			b := &Profile{Religion: tt.candidate}
			assert.Equal(t, tt.want, Score(a, b, cfg))
		})
	}
}

func TestPracticeLevelFactor(t *testing.T) {
	cfg := singleFactorConfig(FactorPracticeLevel)

	tests := []struct {
		name      string
		requester *int
		candidate *int
		want      int
	}{
		{"same level", ptrInt(4), ptrInt(4), 100},
		{"opposite ends", ptrInt(0), ptrInt(4), 0},
		{"one apart", ptrInt(2), ptrInt(3), 75},
		{"requester unset", nil, ptrInt(3), 50},
		{"candidate unset", ptrInt(3), nil, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Profile{PracticeLevel: tt.requester}
			b := &Profile{PracticeLevel: tt.candidate}
			assert.Equal(t, tt.want, Score(a, b, cfg))
		})
	}
}

func TestLanguagesFactor(t *testing.T) {
	cfg := singleFactorConfig(FactorLanguages)

	tests := []struct {
		name      string
		requester []string
		candidate []string
		want      int
	}{
		{"identical", []string{"english", "arabic"}, []string{"english", "arabic"}, 100},
		{"half overlap", []string{"english", "arabic"}, []string{"english"}, 50},
		{"one of three", []string{"english", "arabic"}, []string{"english", "urdu"}, 33},
		{"disjoint", []string{"english"}, []string{"urdu"}, 0},
		{"case insensitive", []string{"English"}, []string{"english"}, 100},
		{"both empty is neutral", nil, nil, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Profile{Languages: tt.requester}
			b := &Profile{Languages: tt.candidate}
			assert.Equal(t, tt.want, Score(a, b, cfg))
		})
	}
}

func TestLocationFactor(t *testing.T) {
	cfg := singleFactorConfig(FactorLocation)
	cfg.Thresholds = map[string]float64{ThresholdMaxDistanceKM: 150}

	london := Location{City: "London", Country: "UK", Lat: ptrFloat(51.5074), Lng: ptrFloat(-0.1278)}

	t.Run("zero distance", func(t *testing.T) {
		a := &Profile{Location: london}
		b := &Profile{Location: london}
		assert.Equal(t, 100, Score(a, b, cfg))
	})

	t.Run("beyond max radius", func(t *testing.T) {
		a := &Profile{Location: london}
		b := &Profile{Location: Location{Lat: ptrFloat(48.8566), Lng: ptrFloat(2.3522)}} // Paris, ~344km
		assert.Equal(t, 0, Score(a, b, cfg))
	})

	t.Run("linear decay inside radius", func(t *testing.T) {
		a := &Profile{Location: Location{Lat: ptrFloat(0), Lng: ptrFloat(0)}}
		// ~75km due north of the equator point: half the 150km radius.
		b := &Profile{Location: Location{Lat: ptrFloat(0.6745), Lng: ptrFloat(0)}}
		score := Score(a, b, cfg)
		assert.InDelta(t, 50, score, 2)
	})

	t.Run("fallback same city", func(t *testing.T) {
		a := &Profile{Location: Location{City: "Lagos", Country: "Nigeria"}}
		b := &Profile{Location: Location{City: "lagos", Country: "nigeria"}}
		assert.Equal(t, 100, Score(a, b, cfg))
	})

	t.Run("fallback same country only", func(t *testing.T) {
		a := &Profile{Location: Location{City: "Lagos", Country: "Nigeria"}}
		b := &Profile{Location: Location{City: "Abuja", Country: "Nigeria"}}
		assert.Equal(t, 60, Score(a, b, cfg))
	})

	t.Run("fallback different countries", func(t *testing.T) {
		a := &Profile{Location: Location{City: "Lagos", Country: "Nigeria"}}
		b := &Profile{Location: Location{City: "Cairo", Country: "Egypt"}}
		assert.Equal(t, 0, Score(a, b, cfg))
	})
}

func TestLifestyleFactor(t *testing.T) {
	cfg := singleFactorConfig(FactorLifestyle)

	tests := []struct {
		name string
		a, b *Profile
		want int
	}{
		{
			"full agreement",
			&Profile{Smoking: "never", Drinking: "never"},
			&Profile{Smoking: "never", Drinking: "never"},
			100,
		},
		{
			"half agreement",
			&Profile{Smoking: "never", Drinking: "never"},
			&Profile{Smoking: "never", Drinking: "socially"},
			50,
		},
		{
			"no agreement",
			&Profile{Smoking: "never", Drinking: "never"},
			&Profile{Smoking: "regularly", Drinking: "socially"},
			0,
		},
		{
			"undeclared habit is neutral",
			&Profile{Smoking: "never", Drinking: ""},
			&Profile{Smoking: "never", Drinking: "never"},
			75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.a, tt.b, cfg))
		})
	}
}

func TestMarriageIntentFactor(t *testing.T) {
	cfg := singleFactorConfig(FactorMarriageIntent)

	assert.Equal(t, 100, Score(&Profile{MarriageIntent: ptrInt(3)}, &Profile{MarriageIntent: ptrInt(3)}, cfg))
	assert.Equal(t, 0, Score(&Profile{MarriageIntent: ptrInt(0)}, &Profile{MarriageIntent: ptrInt(3)}, cfg))
	assert.Equal(t, 67, Score(&Profile{MarriageIntent: ptrInt(2)}, &Profile{MarriageIntent: ptrInt(3)}, cfg))
	assert.Equal(t, 50, Score(&Profile{MarriageIntent: nil}, &Profile{MarriageIntent: ptrInt(1)}, cfg))
}

func TestWeightedCombination(t *testing.T) {
	cfg := &MatchingConfig{Weights: map[string]int{
		FactorReligion:  50,
		FactorLanguages: 50,
	}}

	a := &Profile{Religion: "islam", Languages: []string{"english", "arabic"}}
	b := &Profile{Religion: "islam", Languages: []string{"english"}}

	// religion 100, languages 50 -> (50*100 + 50*50) / 100 = 75
	assert.Equal(t, 75, Score(a, b, cfg))
}

func TestDefensiveNormalization(t *testing.T) {
	// Weights sum to 150; the scorer must normalize rather than blow past 100.
	cfg := &MatchingConfig{Weights: map[string]int{
		FactorReligion:      50,
		FactorPracticeLevel: 50,
		FactorLanguages:     50,
	}}

	a := &Profile{Religion: "islam", PracticeLevel: ptrInt(3), Languages: []string{"english"}}
	b := &Profile{Religion: "islam", PracticeLevel: ptrInt(3), Languages: []string{"english"}}

	score := Score(a, b, cfg)
	assert.Equal(t, 100, score)

	mismatched := &Profile{Religion: "christianity", PracticeLevel: ptrInt(0), Languages: []string{"urdu"}}
	score = Score(a, mismatched, cfg)
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
}

func TestDegenerateWeights(t *testing.T) {
	a := &Profile{Religion: "islam"}
	b := &Profile{Religion: "islam"}

	t.Run("nil config", func(t *testing.T) {
		assert.Equal(t, 0, Score(a, b, nil))
	})

	t.Run("empty weights", func(t *testing.T) {
		assert.Equal(t, 0, Score(a, b, &MatchingConfig{Weights: map[string]int{}}))
	})

	t.Run("all zero weights", func(t *testing.T) {
		cfg := &MatchingConfig{Weights: map[string]int{FactorReligion: 0, FactorLanguages: 0}}
		assert.Equal(t, 0, Score(a, b, cfg))
	})

	t.Run("only unknown factors", func(t *testing.T) {
		cfg := &MatchingConfig{Weights: map[string]int{"astrology": 100}}
		assert.Equal(t, 0, Score(a, b, cfg))
	})

	t.Run("unknown factor alongside known", func(t *testing.T) {
		cfg := &MatchingConfig{Weights: map[string]int{"astrology": 60, FactorReligion: 40}}
		// The unknown key is skipped and the known factor renormalizes.
		assert.Equal(t, 100, Score(a, b, cfg))
	})
}

func TestScoreBoundsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	religions := []string{"islam", "christianity", "judaism", "other", ""}
	habits := []string{"never", "socially", "regularly", ""}
	languages := [][]string{nil, {"english"}, {"english", "arabic"}, {"urdu", "french", "arabic"}}

	randomProfile := func(id int) *Profile {
		p := &Profile{
			ID:        fmt.Sprintf("p%d", id),
			Religion:  religions[rng.Intn(len(religions))],
			Smoking:   habits[rng.Intn(len(habits))],
			Drinking:  habits[rng.Intn(len(habits))],
			Languages: languages[rng.Intn(len(languages))],
		}
		if rng.Intn(2) == 0 {
			p.PracticeLevel = ptrInt(rng.Intn(5))
		}
		if rng.Intn(2) == 0 {
			p.MarriageIntent = ptrInt(rng.Intn(4))
		}
		if rng.Intn(2) == 0 {
			p.Location = Location{Lat: ptrFloat(rng.Float64()*180 - 90), Lng: ptrFloat(rng.Float64()*360 - 180)}
		} else {
			p.Location = Location{City: "City", Country: "Country"}
		}
		return p
	}

	cfg := DefaultMatchingConfig()
	require.Equal(t, 100, weightSum(cfg.Weights))

	for i := 0; i < 500; i++ {
		a := randomProfile(i * 2)
		b := randomProfile(i*2 + 1)
		score := Score(a, b, cfg)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}
}

func TestScoreDeterministic(t *testing.T) {
	cfg := DefaultMatchingConfig()
	a := approvedProfile("a", "female", "male", 28)
	b := approvedProfile("b", "male", "female", 31)
	b.PracticeLevel = ptrInt(3)
	a.PracticeLevel = ptrInt(2)

	first := Score(a, b, cfg)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Score(a, b, cfg))
	}
}

func TestAgeDerivation(t *testing.T) {
	birthday := time.Date(1996, 9, 2, 0, 0, 0, 0, time.UTC)
	p := &Profile{BirthDate: &birthday}

	// The day before their birthday they are still 29.
	age, ok := p.AgeAt(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 29, age)

	age, ok = p.AgeAt(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 30, age)

	_, ok = (&Profile{}).AgeAt(testNow)
	assert.False(t, ok)
}
