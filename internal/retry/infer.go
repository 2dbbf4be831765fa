package retry

import "podcaster/internal/domain"

// InferOriginalPlan guesses the tier a project was first processed under from
// the assets it already carries. Premium-only assets win over standard ones.
// The guess is a heuristic: a premium user whose premium steps all failed
// reads as standard.
func InferOriginalPlan(a domain.AssetPresence) domain.PlanTier {
	switch {
	case a.KeyMoments || a.VideoTimestamps:
		return domain.PlanPremium
	case a.SocialMediaPosts || a.Titles || a.Hashtags:
		return domain.PlanStandard
	default:
		return domain.PlanFree
	}
}
