package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredCandidate(id string, score int) CandidateResult {
	return CandidateResult{
		Profile: &Profile{
			ID:         id,
			LastActive: testNow.Add(-time.Hour),
		},
		CompatibilityScore: score,
	}
}

func pageIDs(page *Page) []string {
	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		ids = append(ids, item.Profile.ID)
	}
	return ids
}

func TestRankByScoreDescending(t *testing.T) {
	results := []CandidateResult{
		scoredCandidate("low", 40),
		scoredCandidate("high", 90),
		scoredCandidate("mid", 65),
	}

	page, err := RankAndPage(results, 10, "", SortBestMatch)
	require.NoError(t, err)

	assert.Equal(t, []string{"high", "mid", "low"}, pageIDs(page))
	assert.Empty(t, page.NextPageToken)
}

func TestPremiumTieBreakOnly(t *testing.T) {
	nonPremium := scoredCandidate("a", 72)
	premium := scoredCandidate("b", 72)
	premium.Profile.IsPremium = true

	page, err := RankAndPage([]CandidateResult{nonPremium, premium}, 10, "", SortBestMatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, pageIDs(page))

	// A strictly higher score always beats premium.
	better := scoredCandidate("c", 73)
	page, err = RankAndPage([]CandidateResult{premium, better}, 10, "", SortBestMatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, pageIDs(page))
}

func TestVerificationTierTieBreak(t *testing.T) {
	unverified := scoredCandidate("a", 80)
	verified := scoredCandidate("b", 80)
	verified.Profile.Verification = TierMarriageVerified

	page, err := RankAndPage([]CandidateResult{unverified, verified}, 10, "", SortBestMatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, pageIDs(page))
}

func TestLastActiveTieBreak(t *testing.T) {
	older := scoredCandidate("a", 80)
	older.Profile.LastActive = testNow.Add(-48 * time.Hour)
	recent := scoredCandidate("b", 80)
	recent.Profile.LastActive = testNow.Add(-time.Hour)

	page, err := RankAndPage([]CandidateResult{older, recent}, 10, "", SortBestMatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, pageIDs(page))
}

func TestIDTieBreakIsFinal(t *testing.T) {
	c1 := scoredCandidate("zz", 80)
	c2 := scoredCandidate("aa", 80)

	page, err := RankAndPage([]CandidateResult{c1, c2}, 10, "", SortBestMatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "zz"}, pageIDs(page))
}

func TestPaginationChain(t *testing.T) {
	var results []CandidateResult
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		results = append(results, scoredCandidate(id, 50))
	}

	page1, err := RankAndPage(results, 2, "", SortBestMatch)
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	require.NotEmpty(t, page1.NextPageToken)

	page2, err := RankAndPage(results, 2, page1.NextPageToken, SortBestMatch)
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	require.NotEmpty(t, page2.NextPageToken)

	page3, err := RankAndPage(results, 2, page2.NextPageToken, SortBestMatch)
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Empty(t, page3.NextPageToken, "exhausted result set must end the chain")

	all := append(append(pageIDs(page1), pageIDs(page2)...), pageIDs(page3)...)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, all)
}

func TestPaginationDeterminism(t *testing.T) {
	var results []CandidateResult
	for _, id := range []string{"e", "b", "d", "a", "c"} {
		results = append(results, scoredCandidate(id, 50))
	}

	page1, err := RankAndPage(results, 2, "", SortBestMatch)
	require.NoError(t, err)

	first, err := RankAndPage(results, 2, page1.NextPageToken, SortBestMatch)
	require.NoError(t, err)
	second, err := RankAndPage(results, 2, page1.NextPageToken, SortBestMatch)
	require.NoError(t, err)

	assert.Equal(t, pageIDs(first), pageIDs(second))
}

func TestInvalidPageToken(t *testing.T) {
	results := []CandidateResult{scoredCandidate("a", 50)}

	for _, token := range []string{"not-base64!!", "bm9wZQ", "bzotNQ"} { // garbage, no prefix, negative offset
		_, err := RankAndPage(results, 10, token, SortBestMatch)
		assert.ErrorIs(t, err, ErrInvalidPageToken, "token %q", token)
	}
}

func TestOffsetPastEnd(t *testing.T) {
	results := []CandidateResult{scoredCandidate("a", 50)}

	page1, err := RankAndPage(results, 1, "", SortBestMatch)
	require.NoError(t, err)
	require.Empty(t, page1.NextPageToken)

	// A token from a previously larger pool lands past the end: empty page,
	// not an error.
	page, err := RankAndPage(results, 1, encodePageToken(10), SortBestMatch)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextPageToken)
}

func TestSortOverrideMostRecent(t *testing.T) {
	highScoreStale := scoredCandidate("a", 95)
	highScoreStale.Profile.LastActive = testNow.Add(-72 * time.Hour)

	lowScoreFresh := scoredCandidate("b", 10)
	lowScoreFresh.Profile.LastActive = testNow.Add(-time.Hour)

	page, err := RankAndPage([]CandidateResult{highScoreStale, lowScoreFresh}, 10, "", SortMostRecent)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, pageIDs(page))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	results := []CandidateResult{
		scoredCandidate("low", 10),
		scoredCandidate("high", 90),
	}

	_, err := RankAndPage(results, 10, "", SortBestMatch)
	require.NoError(t, err)

	assert.Equal(t, "low", results[0].Profile.ID)
	assert.Equal(t, "high", results[1].Profile.ID)
}

func TestPageSizeDefaults(t *testing.T) {
	var results []CandidateResult
	for i := 0; i < DefaultPageSize+5; i++ {
		results = append(results, scoredCandidate(string(rune('a'+i)), 50))
	}

	page, err := RankAndPage(results, 0, "", SortBestMatch)
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultPageSize)
}
