package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"podcaster/internal/domain"
)

type featureAccessResponse struct {
	Feature         domain.Feature  `json:"feature"`
	HasAccess       bool            `json:"has_access"`
	CurrentPlan     domain.PlanTier `json:"current_plan"`
	MinimumPlan     domain.PlanTier `json:"minimum_plan"`
	MinimumPlanName string          `json:"minimum_plan_name"`
}

func (a *App) FeatureAccess(w http.ResponseWriter, r *http.Request) {
	p := a.currentPrincipal(r)
	if p == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	feature, err := domain.ParseFeature(chi.URLParam(r, "feature"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_feature", "unknown feature")
		return
	}
	minimum := a.Resolver.MinimumTierFor(feature)
	a.json(w, http.StatusOK, featureAccessResponse{
		Feature:         feature,
		HasAccess:       a.Resolver.CheckFeatureAccess(p, feature),
		CurrentPlan:     a.Resolver.ResolvePlan(p),
		MinimumPlan:     minimum,
		MinimumPlanName: a.Resolver.Catalog().Tier(minimum).DisplayName,
	})
}
