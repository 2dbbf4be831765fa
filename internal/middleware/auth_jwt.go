package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/plans"
)

// TokenClaims are issued by the identity and billing gateway. Plan is the
// subscribed plan; Features lists unlocked features and, when empty, is
// derived from the plan catalog.
type TokenClaims struct {
	jwt.RegisteredClaims
	Plan     string   `json:"plan,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Principal is the authenticated caller. It answers capability questions the
// way the billing provider would: plans match exactly, features by membership.
type Principal struct {
	ID       string
	Plan     domain.PlanTier
	Features []domain.Feature
}

func (p *Principal) UserID() string {
	if p == nil {
		return ""
	}
	return p.ID
}

func (p *Principal) Satisfies(req entitlement.Requirement) bool {
	if p == nil {
		return false
	}
	if req.Plan != "" && req.Plan != p.Plan {
		return false
	}
	if req.Feature != "" && !slices.Contains(p.Features, req.Feature) {
		return false
	}
	return req.Plan != "" || req.Feature != ""
}

type principalKey struct{}

func SignJWT(secret string, claims TokenClaims) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret not configured")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewTokenClaims builds claims for subject on plan expiring after ttl.
func NewTokenClaims(subject string, plan domain.PlanTier, ttl time.Duration) TokenClaims {
	now := time.Now()
	return TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Plan: string(plan),
	}
}

func VerifyJWT(secret, token string) (*TokenClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &TokenClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("subject claim required")
	}
	return claims, nil
}

// PrincipalFromClaims resolves plan and feature claims against catalog. An
// unknown or missing plan claim means no paid plan.
func PrincipalFromClaims(claims *TokenClaims, catalog *plans.Catalog) *Principal {
	p := &Principal{ID: claims.Subject, Plan: domain.PlanFree}
	if tier, err := domain.ParsePlan(claims.Plan); err == nil {
		p.Plan = tier
	}
	if len(claims.Features) > 0 {
		for _, raw := range claims.Features {
			if f, err := domain.ParseFeature(raw); err == nil {
				p.Features = append(p.Features, f)
			}
		}
		return p
	}
	if catalog != nil {
		p.Features = catalog.FeaturesFor(p.Plan)
	}
	return p
}

func AuthJWT(secret string, catalog *plans.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
				return
			}
			claims, err := VerifyJWT(secret, token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			ctx := ContextWithPrincipal(r.Context(), PrincipalFromClaims(claims, catalog))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).UserID()
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
