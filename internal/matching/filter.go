package matching

import (
	"math"
	"strings"
	"time"
)

// FilterAndScore reduces the candidate pool to profiles showable to the
// requester and attaches a compatibility score to each survivor. The result
// preserves pool order; ranking happens separately in RankAndPage.
//
// A candidate that fails any rule, or is missing a field a rule needs, is
// dropped silently. Discovery never errors because of one bad profile.
func FilterAndScore(requester *Profile, pool []*Profile, cfg *MatchingConfig, exclude ExclusionSet) []CandidateResult {
	now := time.Now()
	return filterAndScoreAt(requester, pool, cfg, exclude, now)
}

// filterAndScoreAt is the clock-injected form used by tests.
func filterAndScoreAt(requester *Profile, pool []*Profile, cfg *MatchingConfig, exclude ExclusionSet, now time.Time) []CandidateResult {
	if requester == nil {
		return nil
	}

	results := make([]CandidateResult, 0, len(pool))
	for _, candidate := range pool {
		if candidate == nil {
			continue
		}
		if !eligible(requester, candidate, cfg, exclude, now) {
			continue
		}
		results = append(results, CandidateResult{
			Profile:            candidate,
			CompatibilityScore: Score(requester, candidate, cfg),
			DistanceKM:         distanceBetween(requester.Location, candidate.Location),
		})
	}
	return results
}

func eligible(requester, candidate *Profile, cfg *MatchingConfig, exclude ExclusionSet, now time.Time) bool {
	// Rule 1: caller-supplied exclusions (liked, passed, matched, blocked).
	if exclude.Contains(candidate.ID) {
		return false
	}
	if candidate.ID == requester.ID {
		return false
	}

	// Rule 2: only approved accounts are ever shown.
	if candidate.Status != StatusApproved {
		return false
	}

	// Rule 3: mutual gender eligibility. Either side missing a gender or a
	// preference makes the candidate ineligible, not an error.
	if !genderEligible(requester, candidate) {
		return false
	}

	// Rule 4: symmetric age gap. A candidate without a birth date is
	// ineligible; a requester without one cannot be gap-checked, so the rule
	// fails open for them.
	if maxGap, ok := cfg.Threshold(ThresholdMaxAgeGapYears); ok {
		candidateAge, known := candidate.AgeAt(now)
		if !known {
			return false
		}
		if requesterAge, known := requester.AgeAt(now); known {
			if math.Abs(float64(requesterAge-candidateAge)) > maxGap {
				return false
			}
		}
	}

	// Rule 5: activity recency.
	if maxDays, ok := cfg.Threshold(ThresholdMaxDaysLastActive); ok {
		if candidate.LastActive.IsZero() {
			return false
		}
		if now.Sub(candidate.LastActive).Hours() > maxDays*24 {
			return false
		}
	}

	// Rule 6: minimum bio length (trimmed character count).
	if minChars, ok := cfg.Threshold(ThresholdMinAboutMeChars); ok {
		if float64(candidate.BioLength()) < minChars {
			return false
		}
	}

	// Rule 7: minimum photo count.
	if minPhotos, ok := cfg.Threshold(ThresholdMinPhotos); ok {
		if float64(len(candidate.Photos)) < minPhotos {
			return false
		}
	}

	return true
}

func genderEligible(requester, candidate *Profile) bool {
	if requester.Gender == "" || requester.SeekingGender == "" {
		return false
	}
	if candidate.Gender == "" || candidate.SeekingGender == "" {
		return false
	}
	return strings.EqualFold(candidate.Gender, requester.SeekingGender) &&
		strings.EqualFold(requester.Gender, candidate.SeekingGender)
}
