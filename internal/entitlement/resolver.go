// Package entitlement answers which plan a caller is on, whether an upload fits
// that plan and whether a feature is unlocked. Every operation is total: upload
// rejections are values callers render, never errors.
package entitlement

import (
	"context"
	"fmt"

	"podcaster/internal/domain"
	"podcaster/internal/plans"
)

// Requirement is a single capability question put to the billing provider:
// either "is the caller on Plan" or "does the caller have Feature".
type Requirement struct {
	Plan    domain.PlanTier
	Feature domain.Feature
}

// CapabilityChecker is the billing provider's capability predicate.
type CapabilityChecker interface {
	Satisfies(req Requirement) bool
}

// CheckerFunc adapts a function to CapabilityChecker.
type CheckerFunc func(req Requirement) bool

func (f CheckerFunc) Satisfies(req Requirement) bool { return f(req) }

// ProjectCounter counts a user's projects for quota enforcement.
type ProjectCounter interface {
	GetUserProjectCount(ctx context.Context, userID string, includeDeleted bool) (int, error)
}

// Resolver evaluates entitlements against an injected plan catalog.
type Resolver struct {
	catalog *plans.Catalog
	counter ProjectCounter
}

// NewResolver builds a resolver. The counter is only needed by CheckUpload.
func NewResolver(catalog *plans.Catalog, counter ProjectCounter) *Resolver {
	if catalog == nil {
		catalog = plans.Default()
	}
	return &Resolver{catalog: catalog, counter: counter}
}

// Catalog exposes the catalog the resolver was built with.
func (r *Resolver) Catalog() *plans.Catalog {
	return r.catalog
}

// ResolvePlan asks premium first so a caller satisfying both paid plans lands
// on the higher one.
func (r *Resolver) ResolvePlan(checker CapabilityChecker) domain.PlanTier {
	if checker == nil {
		return domain.PlanFree
	}
	if checker.Satisfies(Requirement{Plan: domain.PlanPremium}) {
		return domain.PlanPremium
	}
	if checker.Satisfies(Requirement{Plan: domain.PlanStandard}) {
		return domain.PlanStandard
	}
	return domain.PlanFree
}

// HasFeatureAccess reports whether tier unlocks feature.
func (r *Resolver) HasFeatureAccess(tier domain.PlanTier, feature domain.Feature) bool {
	return r.catalog.HasFeature(tier, feature)
}

// CheckFeatureAccess asks the billing provider directly for a feature.
func (r *Resolver) CheckFeatureAccess(checker CapabilityChecker, feature domain.Feature) bool {
	if checker == nil {
		return false
	}
	return checker.Satisfies(Requirement{Feature: feature})
}

// MinimumTierFor returns the lowest tier that unlocks feature, used for
// upgrade prompts. Features no tier unlocks report the top tier.
func (r *Resolver) MinimumTierFor(feature domain.Feature) domain.PlanTier {
	tiers := r.catalog.Tiers()
	for _, t := range tiers {
		if r.catalog.HasFeature(t, feature) {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// CountsDeleted reports whether the project quota of tier is a lifetime quota.
// Free counts soft-deleted projects so delete-and-reupload cannot reset it;
// paid tiers count active projects only.
func CountsDeleted(tier domain.PlanTier) bool {
	return tier == domain.PlanFree
}

// CheckUpload resolves the caller's plan and validates an upload against it,
// reading the project count only when the plan bounds it.
func (r *Resolver) CheckUpload(ctx context.Context, checker CapabilityChecker, userID string, fileSizeBytes int64, durationSeconds *int64) (domain.PlanTier, UploadResult, error) {
	tier := r.ResolvePlan(checker)
	count := 0
	if r.catalog.LimitsFor(tier).MaxProjects != nil {
		if r.counter == nil {
			return tier, UploadResult{}, fmt.Errorf("entitlement: project counter not configured")
		}
		n, err := r.counter.GetUserProjectCount(ctx, userID, CountsDeleted(tier))
		if err != nil {
			return tier, UploadResult{}, fmt.Errorf("entitlement: count projects: %w", err)
		}
		count = n
	}
	return tier, r.ValidateUpload(tier, fileSizeBytes, durationSeconds, count), nil
}
