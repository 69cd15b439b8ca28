package matching

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func birthDateForAge(age int) *time.Time {
	d := testNow.AddDate(-age, 0, -30)
	return &d
}

func approvedProfile(id string, gender, seeking string, age int) *Profile {
	return &Profile{
		ID:            id,
		DisplayName:   "Test " + id,
		BirthDate:     birthDateForAge(age),
		Gender:        gender,
		SeekingGender: seeking,
		Religion:      "islam",
		Languages:     []string{"english"},
		Bio:           strings.Repeat("a", 120),
		Photos:        []string{"photo-1.jpg", "photo-2.jpg"},
		Status:        StatusApproved,
		LastActive:    testNow.Add(-24 * time.Hour),
		CreatedAt:     testNow.AddDate(0, -6, 0),
	}
}

func testConfig() *MatchingConfig {
	return &MatchingConfig{
		Weights: map[string]int{
			FactorReligion:  50,
			FactorLanguages: 50,
		},
		Thresholds: map[string]float64{
			ThresholdMaxDaysLastActive: 30,
			ThresholdMaxAgeGapYears:    10,
			ThresholdMinAboutMeChars:   50,
			ThresholdMinPhotos:         2,
		},
	}
}

func resultIDs(results []CandidateResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Profile.ID)
	}
	return ids
}

func TestFilterExclusionSet(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)
	pool := []*Profile{
		approvedProfile("c1", "male", "female", 30),
		approvedProfile("c2", "male", "female", 30),
	}

	results := filterAndScoreAt(requester, pool, testConfig(), NewExclusionSet("c1"), testNow)

	assert.Equal(t, []string{"c2"}, resultIDs(results))
}

func TestFilterAccountStatus(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	for _, status := range []AccountStatus{StatusPendingReview, StatusSuspended, StatusBanned} {
		t.Run(string(status), func(t *testing.T) {
			candidate := approvedProfile("c1", "male", "female", 30)
			candidate.Status = status

			results := filterAndScoreAt(requester, []*Profile{candidate}, testConfig(), NewExclusionSet(), testNow)
			assert.Empty(t, results)
		})
	}
}

func TestFilterMutualGenderEligibility(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	wrongGender := approvedProfile("c1", "female", "male", 30)

	// Matches what the requester seeks, but is not seeking the requester.
	oneWay := approvedProfile("c2", "male", "male", 30)

	mutual := approvedProfile("c3", "male", "female", 30)

	results := filterAndScoreAt(requester, []*Profile{wrongGender, oneWay, mutual}, testConfig(), NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c3"}, resultIDs(results))
}

func TestFilterAgeGap(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	atLimit := approvedProfile("c1", "male", "female", 40)   // gap 10, allowed
	overLimit := approvedProfile("c2", "male", "female", 41) // gap 11
	younger := approvedProfile("c3", "male", "female", 19)   // gap 11 the other way

	results := filterAndScoreAt(requester, []*Profile{atLimit, overLimit, younger}, testConfig(), NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c1"}, resultIDs(results))
}

func TestFilterMissingBirthDateExcluded(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)
	candidate := approvedProfile("c1", "male", "female", 30)
	candidate.BirthDate = nil

	results := filterAndScoreAt(requester, []*Profile{candidate}, testConfig(), NewExclusionSet(), testNow)

	assert.Empty(t, results)
}

func TestFilterInactivity(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	active := approvedProfile("c1", "male", "female", 30)
	active.LastActive = testNow.Add(-29 * 24 * time.Hour)

	stale := approvedProfile("c2", "male", "female", 30)
	stale.LastActive = testNow.Add(-31 * 24 * time.Hour)

	results := filterAndScoreAt(requester, []*Profile{active, stale}, testConfig(), NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c1"}, resultIDs(results))
}

func TestFilterBioLengthBoundary(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	justShort := approvedProfile("c1", "male", "female", 30)
	justShort.Bio = strings.Repeat("x", 49)

	exact := approvedProfile("c2", "male", "female", 30)
	exact.Bio = strings.Repeat("x", 50)

	// Whitespace padding must not count toward the minimum.
	padded := approvedProfile("c3", "male", "female", 30)
	padded.Bio = "  " + strings.Repeat("x", 49) + "  "

	results := filterAndScoreAt(requester, []*Profile{justShort, exact, padded}, testConfig(), NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c2"}, resultIDs(results))
}

func TestFilterPhotoCount(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	onePhoto := approvedProfile("c1", "male", "female", 30)
	onePhoto.Photos = []string{"only.jpg"}

	twoPhotos := approvedProfile("c2", "male", "female", 30)

	results := filterAndScoreAt(requester, []*Profile{onePhoto, twoPhotos}, testConfig(), NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c2"}, resultIDs(results))
}

func TestFilterMissingThresholdFailsOpen(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)

	stale := approvedProfile("c1", "male", "female", 30)
	stale.LastActive = testNow.AddDate(-1, 0, 0)
	stale.Bio = "short"
	stale.Photos = nil

	cfg := &MatchingConfig{
		Weights:    map[string]int{FactorReligion: 100},
		Thresholds: map[string]float64{},
	}

	results := filterAndScoreAt(requester, []*Profile{stale}, cfg, NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c1"}, resultIDs(results))
}

func TestFilterPreservesPoolOrder(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)
	pool := []*Profile{
		approvedProfile("c3", "male", "female", 32),
		approvedProfile("c1", "male", "female", 28),
		approvedProfile("c2", "male", "female", 35),
	}

	results := filterAndScoreAt(requester, pool, testConfig(), NewExclusionSet(), testNow)

	assert.Equal(t, []string{"c3", "c1", "c2"}, resultIDs(results))
}

func TestFilterAndScoreIdempotent(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)
	pool := []*Profile{
		approvedProfile("c1", "male", "female", 28),
		approvedProfile("c2", "male", "female", 35),
		approvedProfile("c3", "male", "female", 32),
	}
	exclude := NewExclusionSet("c2")

	first := filterAndScoreAt(requester, pool, testConfig(), exclude, testNow)
	second := filterAndScoreAt(requester, pool, testConfig(), exclude, testNow)

	require.Equal(t, first, second)
}

func TestFilterDistanceAttached(t *testing.T) {
	requester := approvedProfile("req", "female", "male", 30)
	requester.Location = Location{City: "London", Country: "UK", Lat: ptrFloat(51.5074), Lng: ptrFloat(-0.1278)}

	withCoords := approvedProfile("c1", "male", "female", 30)
	withCoords.Location = Location{City: "London", Country: "UK", Lat: ptrFloat(51.5074), Lng: ptrFloat(-0.1278)}

	withoutCoords := approvedProfile("c2", "male", "female", 30)
	withoutCoords.Location = Location{City: "London", Country: "UK"}

	results := filterAndScoreAt(requester, []*Profile{withCoords, withoutCoords}, testConfig(), NewExclusionSet(), testNow)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].DistanceKM)
	assert.InDelta(t, 0, *results[0].DistanceKM, 0.001)
	assert.Nil(t, results[1].DistanceKM)
}

func ptrFloat(f float64) *float64 { return &f }

func ptrInt(i int) *int { return &i }
