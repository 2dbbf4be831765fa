package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/plans"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims TokenClaims) string {
	t.Helper()
	token, err := SignJWT(testSecret, claims)
	if err != nil {
		t.Fatalf("SignJWT() error = %v", err)
	}
	return token
}

func TestAuthJWT(t *testing.T) {
	valid := signed(t, NewTokenClaims("user_1", domain.PlanStandard, time.Hour))
	expired := signed(t, NewTokenClaims("user_1", domain.PlanStandard, -time.Minute))
	noSubject := signed(t, NewTokenClaims("", domain.PlanStandard, time.Hour))
	otherKey, err := SignJWT("other-secret", NewTokenClaims("user_1", domain.PlanFree, time.Hour))
	if err != nil {
		t.Fatalf("SignJWT() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
		user   string
	}{
		{name: "valid bearer", header: "Bearer " + valid, status: http.StatusOK, user: "user_1"},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusOK, user: "user_1"},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + noSubject, status: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + otherKey, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not.a.jwt", status: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser string
			h := AuthJWT(testSecret, plans.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if gotUser != tc.user {
				t.Fatalf("user = %q, want %q", gotUser, tc.user)
			}
			if tc.status == http.StatusUnauthorized {
				var body struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body.Error.Code != "unauthorized" {
					t.Fatalf("error code = %q", body.Error.Code)
				}
			}
		})
	}
}

func TestVerifyJWTRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, NewTokenClaims("user_1", domain.PlanPremium, time.Hour))
	raw, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := VerifyJWT(testSecret, raw); err == nil {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestPrincipalFromClaims(t *testing.T) {
	catalog := plans.Default()

	t.Run("features derived from plan", func(t *testing.T) {
		p := PrincipalFromClaims(&TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}, Plan: "Premium"}, catalog)
		if p.Plan != domain.PlanPremium {
			t.Fatalf("plan = %q", p.Plan)
		}
		if !slices.Equal(p.Features, catalog.FeaturesFor(domain.PlanPremium)) {
			t.Fatalf("features = %v", p.Features)
		}
	})

	t.Run("explicit features win", func(t *testing.T) {
		p := PrincipalFromClaims(&TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u"},
			Plan:             "standard",
			Features:         []string{"key_moments"},
		}, catalog)
		if !slices.Equal(p.Features, []domain.Feature{domain.FeatureKeyMoments}) {
			t.Fatalf("features = %v", p.Features)
		}
	})

	t.Run("feature claims are normalised", func(t *testing.T) {
		p := PrincipalFromClaims(&TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u"},
			Plan:             "premium",
			Features:         []string{"SOCIAL_MEDIA_POSTS", " Key_Moments ", "podcast_art"},
		}, catalog)
		want := []domain.Feature{domain.FeatureSocialMediaPosts, domain.FeatureKeyMoments}
		if !slices.Equal(p.Features, want) {
			t.Fatalf("features = %v, want %v", p.Features, want)
		}
		if !p.Satisfies(entitlement.Requirement{Feature: domain.FeatureSocialMediaPosts}) {
			t.Fatal("upper-case feature claim should grant the feature")
		}
	})

	t.Run("unknown plan is free", func(t *testing.T) {
		p := PrincipalFromClaims(&TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}, Plan: "enterprise"}, catalog)
		if p.Plan != domain.PlanFree {
			t.Fatalf("plan = %q", p.Plan)
		}
	})
}

func TestPrincipalSatisfies(t *testing.T) {
	p := &Principal{ID: "u", Plan: domain.PlanStandard, Features: []domain.Feature{domain.FeatureTitles}}

	tests := []struct {
		name string
		req  entitlement.Requirement
		want bool
	}{
		{name: "own plan", req: entitlement.Requirement{Plan: domain.PlanStandard}, want: true},
		{name: "other plan", req: entitlement.Requirement{Plan: domain.PlanPremium}, want: false},
		{name: "held feature", req: entitlement.Requirement{Feature: domain.FeatureTitles}, want: true},
		{name: "missing feature", req: entitlement.Requirement{Feature: domain.FeatureKeyMoments}, want: false},
		{name: "empty requirement", req: entitlement.Requirement{}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Satisfies(tc.req); got != tc.want {
				t.Fatalf("Satisfies(%+v) = %v, want %v", tc.req, got, tc.want)
			}
		})
	}

	var anon *Principal
	if anon.Satisfies(entitlement.Requirement{Plan: domain.PlanFree}) || anon.UserID() != "" {
		t.Fatal("nil principal must not satisfy anything")
	}
}
