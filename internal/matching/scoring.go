package matching

import (
	"log"
	"math"
	"strings"
)

// Factor names recognized by the scorer. The weight map in MatchingConfig is
// an open set: admins may carry keys the engine does not know yet, and those
// are skipped (logged as configuration drift) rather than breaking discovery.
const (
	FactorReligion       = "religion"
	FactorPracticeLevel  = "practice_level"
	FactorLanguages      = "languages"
	FactorLocation       = "location"
	FactorLifestyle      = "lifestyle"
	FactorMarriageIntent = "marriage_intent"
)

// subScoreFunc returns a per-factor sub-score in [0,100].
type subScoreFunc func(requester, candidate *Profile, cfg *MatchingConfig) float64

var factorRegistry = map[string]subScoreFunc{
	FactorReligion:       religionScore,
	FactorPracticeLevel:  practiceLevelScore,
	FactorLanguages:      languagesScore,
	FactorLocation:       locationScore,
	FactorLifestyle:      lifestyleScore,
	FactorMarriageIntent: marriageIntentScore,
}

const (
	neutralScore = 50.0

	// Ordinal ranges for proximity factors: practice level runs 0-4
	// (not_practicing..devout), marriage intent 0-3 (open..ready_now).
	practiceLevelRange  = 4.0
	marriageIntentRange = 3.0

	// Decay radius used by the location factor when the config carries no
	// max_distance_km threshold.
	defaultMaxDistanceKM = 150.0
)

// Score computes the weighted 0-100 compatibility score between two profiles.
//
// The weight map is normalized by the sum of the weights actually applied, so
// a map that sums to 150 (or one carrying unknown keys) still yields a sane
// score. An empty or all-zero map scores 0 for everyone instead of dividing
// by zero. Rounding happens exactly once, on the final value.
func Score(requester, candidate *Profile, cfg *MatchingConfig) int {
	if cfg == nil || len(cfg.Weights) == 0 {
		return 0
	}

	var weighted, weightSum float64
	for name, weight := range cfg.Weights {
		sub, ok := factorRegistry[name]
		if !ok {
			log.Printf("matching: ignoring unknown weight factor %q (configuration drift)", name)
			continue
		}
		if weight <= 0 {
			continue
		}
		weighted += float64(weight) * sub(requester, candidate, cfg)
		weightSum += float64(weight)
	}

	if weightSum <= 0 {
		return 0
	}

	score := int(math.Round(weighted / weightSum))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// religionScore: 100 on an exact (case-insensitive) match, 0 on a mismatch,
// neutral when either side is "other" or has not declared one.
func religionScore(requester, candidate *Profile, _ *MatchingConfig) float64 {
	a := strings.ToLower(strings.TrimSpace(requester.Religion))
	b := strings.ToLower(strings.TrimSpace(candidate.Religion))
	if a == "" || a == "other" || b == "" || b == "other" {
		return neutralScore
	}
	if a == b {
		return 100
	}
	return 0
}

func practiceLevelScore(requester, candidate *Profile, _ *MatchingConfig) float64 {
	return ordinalProximity(requester.PracticeLevel, candidate.PracticeLevel, practiceLevelRange)
}

func marriageIntentScore(requester, candidate *Profile, _ *MatchingConfig) float64 {
	return ordinalProximity(requester.MarriageIntent, candidate.MarriageIntent, marriageIntentRange)
}

// ordinalProximity maps the distance between two ordinal values onto a 0-100
// scale, closer meaning higher. Either side missing is neutral.
func ordinalProximity(a, b *int, scale float64) float64 {
	if a == nil || b == nil {
		return neutralScore
	}
	dist := math.Abs(float64(*a - *b))
	if dist > scale {
		dist = scale
	}
	return 100 * (1 - dist/scale)
}

// languagesScore is the Jaccard similarity of the two language sets, scaled
// to 0-100. Languages are compared case-insensitively.
func languagesScore(requester, candidate *Profile, _ *MatchingConfig) float64 {
	set := make(map[string]bool, len(requester.Languages))
	for _, lang := range requester.Languages {
		if l := strings.ToLower(strings.TrimSpace(lang)); l != "" {
			set[l] = true
		}
	}

	shared := 0
	candidateCount := 0
	seen := make(map[string]bool, len(candidate.Languages))
	for _, lang := range candidate.Languages {
		l := strings.ToLower(strings.TrimSpace(lang))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		candidateCount++
		if set[l] {
			shared++
		}
	}

	union := len(set) + candidateCount - shared
	if union == 0 {
		return neutralScore
	}
	return 100 * float64(shared) / float64(union)
}

// locationScore decays linearly from 100 at zero distance to 0 at the
// configured max radius. Without coordinates on both sides it falls back to
// a same-city / same-country boolean ladder.
func locationScore(requester, candidate *Profile, cfg *MatchingConfig) float64 {
	if d := distanceBetween(requester.Location, candidate.Location); d != nil {
		maxKM := defaultMaxDistanceKM
		if v, ok := cfg.Threshold(ThresholdMaxDistanceKM); ok && v > 0 {
			maxKM = v
		}
		if *d >= maxKM {
			return 0
		}
		return 100 * (1 - *d/maxKM)
	}

	if sameField(requester.Location.City, candidate.Location.City) &&
		sameField(requester.Location.Country, candidate.Location.Country) {
		return 100
	}
	if sameField(requester.Location.Country, candidate.Location.Country) {
		return 60
	}
	return 0
}

func sameField(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return a != "" && a == b
}

// lifestyleScore averages two equal-weight sub-factors: smoking agreement and
// drinking agreement. An undeclared habit on either side is neutral for that
// sub-factor.
func lifestyleScore(requester, candidate *Profile, _ *MatchingConfig) float64 {
	return (habitAgreement(requester.Smoking, candidate.Smoking) +
		habitAgreement(requester.Drinking, candidate.Drinking)) / 2
}

func habitAgreement(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return neutralScore
	}
	if a == b {
		return 100
	}
	return 0
}

// distanceBetween returns the haversine distance in km, or nil when either
// side has no coordinates.
func distanceBetween(a, b Location) *float64 {
	if a.Lat == nil || a.Lng == nil || b.Lat == nil || b.Lng == nil {
		return nil
	}
	d := haversineKM(*a.Lat, *a.Lng, *b.Lat, *b.Lng)
	return &d
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371 // km

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
