package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLikeMutual(t *testing.T) {
	existing := []Like{
		{UserID: "user-y", TargetID: "user-x", CreatedAt: time.Now()},
	}

	decision := EvaluateLike("user-x", "user-y", existing)

	require.True(t, decision.IsMutualMatch)
	assert.Equal(t, ConversationKey{UserA: "user-x", UserB: "user-y"}, decision.Conversation)
	assert.ElementsMatch(t, []string{"user-x", "user-y"}, decision.NotifyUserIDs)
}

func TestEvaluateLikeNotReciprocated(t *testing.T) {
	decision := EvaluateLike("user-x", "user-y", nil)

	assert.False(t, decision.IsMutualMatch)
	assert.Empty(t, decision.NotifyUserIDs)
}

func TestEvaluateLikeOwnLikeDoesNotCount(t *testing.T) {
	// Only the target's like toward the requester completes a match; the
	// requester's own prior like must not.
	existing := []Like{
		{UserID: "user-x", TargetID: "user-y", CreatedAt: time.Now()},
	}

	decision := EvaluateLike("user-x", "user-y", existing)

	assert.False(t, decision.IsMutualMatch)
}

func TestEvaluateLikeUnrelatedLikesIgnored(t *testing.T) {
	existing := []Like{
		{UserID: "user-y", TargetID: "user-z"},
		{UserID: "user-z", TargetID: "user-x"},
	}

	decision := EvaluateLike("user-x", "user-y", existing)

	assert.False(t, decision.IsMutualMatch)
}

func TestEvaluateLikeDegenerateInput(t *testing.T) {
	assert.False(t, EvaluateLike("", "user-y", nil).IsMutualMatch)
	assert.False(t, EvaluateLike("user-x", "", nil).IsMutualMatch)
	assert.False(t, EvaluateLike("user-x", "user-x", nil).IsMutualMatch)
}

func TestConversationKeyCanonicalOrder(t *testing.T) {
	assert.Equal(t, NewConversationKey("a", "b"), NewConversationKey("b", "a"))
	key := NewConversationKey("zed", "alpha")
	assert.Equal(t, "alpha", key.UserA)
	assert.Equal(t, "zed", key.UserB)
}
