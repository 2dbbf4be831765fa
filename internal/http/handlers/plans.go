package handlers

import (
	"net/http"

	"podcaster/internal/plans"
)

// Plans lists the catalog in ascending capability order.
func (a *App) Plans(w http.ResponseWriter, r *http.Request) {
	catalog := a.Resolver.Catalog()
	items := make([]plans.Tier, 0, len(catalog.Tiers()))
	for _, tier := range catalog.Tiers() {
		items = append(items, catalog.Tier(tier))
	}
	a.json(w, http.StatusOK, map[string]any{"plans": items})
}
