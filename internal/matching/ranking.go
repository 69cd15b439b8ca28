package matching

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SortOrder selects the discovery ordering.
type SortOrder string

const (
	SortBestMatch  SortOrder = "best_match"
	SortMostRecent SortOrder = "most_recent"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	pageTokenPrefix = "o:"
)

// ErrInvalidPageToken is returned for tokens the service never issued. A bad
// token is a caller contract violation, not degradable input.
var ErrInvalidPageToken = errors.New("invalid page token")

// Page is one bounded slice of ranked results. NextPageToken is empty once
// the result set is exhausted.
type Page struct {
	Items         []CandidateResult `json:"items"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

// RankAndPage orders scored candidates and returns one page.
//
// Best-match ordering: score desc, then premium (tie-break only, never
// rank-inverting), then verification tier desc, then last-active desc, then
// id asc. The trailing id tie-break makes the ordering total, so identical
// calls over an unchanged pool return identical pages.
func RankAndPage(results []CandidateResult, pageSize int, pageToken string, order SortOrder) (*Page, error) {
	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, err
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	ranked := make([]CandidateResult, len(results))
	copy(ranked, results)

	sort.Slice(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j], order)
	})

	if offset >= len(ranked) {
		return &Page{Items: []CandidateResult{}}, nil
	}

	end := offset + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}

	page := &Page{Items: ranked[offset:end]}
	if end < len(ranked) {
		page.NextPageToken = encodePageToken(end)
	}
	return page, nil
}

func rankLess(a, b CandidateResult, order SortOrder) bool {
	if order == SortMostRecent {
		if !a.Profile.LastActive.Equal(b.Profile.LastActive) {
			return a.Profile.LastActive.After(b.Profile.LastActive)
		}
		return tieBreakLess(a, b)
	}

	if a.CompatibilityScore != b.CompatibilityScore {
		return a.CompatibilityScore > b.CompatibilityScore
	}
	return tieBreakLess(a, b)
}

func tieBreakLess(a, b CandidateResult) bool {
	// Premium surfaces first among equals. This is a monetization rule, not
	// a compatibility signal, which is why it never outranks a higher score.
	if a.Profile.IsPremium != b.Profile.IsPremium {
		return a.Profile.IsPremium
	}
	if a.Profile.Verification != b.Profile.Verification {
		return a.Profile.Verification > b.Profile.Verification
	}
	if !a.Profile.LastActive.Equal(b.Profile.LastActive) {
		return a.Profile.LastActive.After(b.Profile.LastActive)
	}
	return a.Profile.ID < b.Profile.ID
}

func encodePageToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(pageTokenPrefix + strconv.Itoa(offset)))
}

func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageToken, token)
	}
	payload := string(raw)
	if !strings.HasPrefix(payload, pageTokenPrefix) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageToken, token)
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(payload, pageTokenPrefix))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageToken, token)
	}
	return offset, nil
}
