package matching

// EvaluateLike decides whether a like from requester to target completes a
// mutual match, given the target's existing like records. It performs no
// persistence: on a mutual match the decision carries the side effects the
// caller must apply (create the pair's conversation idempotently, notify
// both parties).
func EvaluateLike(requesterID, targetID string, existingLikes []Like) MatchDecision {
	if requesterID == "" || targetID == "" || requesterID == targetID {
		return MatchDecision{}
	}

	for _, like := range existingLikes {
		if like.UserID == targetID && like.TargetID == requesterID {
			return MatchDecision{
				IsMutualMatch: true,
				Conversation:  NewConversationKey(requesterID, targetID),
				NotifyUserIDs: []string{requesterID, targetID},
			}
		}
	}
	return MatchDecision{}
}
