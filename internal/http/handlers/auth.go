package handlers

import (
	"net/http"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
)

type meResponse struct {
	UserID            string            `json:"user_id"`
	Plan              domain.PlanTier   `json:"plan"`
	PlanName          string            `json:"plan_name"`
	Features          []domain.Feature  `json:"features"`
	Limits            domain.PlanLimits `json:"limits"`
	ProjectCount      int               `json:"project_count"`
	ProjectsRemaining *int              `json:"projects_remaining"`
}

// Me reports the caller's resolved plan, unlocked features and quota usage.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	p := a.currentPrincipal(r)
	if p == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	catalog := a.Resolver.Catalog()
	tier := a.Resolver.ResolvePlan(p)
	count, err := a.Projects.GetUserProjectCount(r.Context(), p.ID, entitlement.CountsDeleted(tier))
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", p.ID).Msg("count projects failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	limits := catalog.LimitsFor(tier)
	var remaining *int
	if limits.MaxProjects != nil {
		left := max(*limits.MaxProjects-count, 0)
		remaining = &left
	}
	a.json(w, http.StatusOK, meResponse{
		UserID:            p.ID,
		Plan:              tier,
		PlanName:          catalog.Tier(tier).DisplayName,
		Features:          catalog.FeaturesFor(tier),
		Limits:            limits,
		ProjectCount:      count,
		ProjectsRemaining: remaining,
	})
}
