package handlers

import (
	"net/http"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
)

type uploadValidateResponse struct {
	Plan domain.PlanTier `json:"plan"`
	entitlement.UploadResult
}

// ValidateUpload answers 200 for both allowed and rejected uploads; the
// verdict is in the body.
func (a *App) ValidateUpload(w http.ResponseWriter, r *http.Request) {
	p := a.currentPrincipal(r)
	if p == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req uploadValidateRequest
	if err := decodeRequest(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	tier, result, err := a.Resolver.CheckUpload(r.Context(), p, p.ID, req.FileSize, req.Duration)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", p.ID).Msg("upload check failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to check upload")
		return
	}
	a.json(w, http.StatusOK, uploadValidateResponse{Plan: tier, UploadResult: result})
}
