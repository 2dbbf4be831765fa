// Package plans holds the immutable plan catalog: per-tier limits, unlocked
// features and upgrade messaging. A catalog is built once at process start and
// passed by pointer into the entitlement resolver and the retry orchestrator.
package plans

import (
	"fmt"
	"slices"

	"podcaster/internal/domain"
)

const (
	mib = int64(1024 * 1024)
	gib = 1024 * mib
)

// Tier describes one plan of the catalog.
type Tier struct {
	Name        domain.PlanTier   `json:"name" yaml:"name"`
	DisplayName string            `json:"display_name" yaml:"display_name"`
	Price       string            `json:"price" yaml:"price"`
	Limits      domain.PlanLimits `json:"limits" yaml:"limits"`
	Features    []domain.Feature  `json:"features" yaml:"features"`
}

// Catalog is the immutable plan table. Lookups are total over the closed tier
// set; an unknown tier resolves to the free entry.
type Catalog struct {
	tiers map[domain.PlanTier]Tier
	order []domain.PlanTier
}

// Default returns the production catalog.
func Default() *Catalog {
	cat, err := New([]Tier{
		{
			Name:        domain.PlanFree,
			DisplayName: "Free",
			Price:       "$0",
			Limits: domain.PlanLimits{
				MaxProjects:        intPtr(3),
				MaxFileSizeBytes:   10 * mib,
				MaxDurationSeconds: int64Ptr(600),
			},
			Features: []domain.Feature{domain.FeatureSummary},
		},
		{
			Name:        domain.PlanStandard,
			DisplayName: "Standard",
			Price:       "$25/month",
			Limits: domain.PlanLimits{
				MaxProjects:        intPtr(30),
				MaxFileSizeBytes:   200 * mib,
				MaxDurationSeconds: int64Ptr(7200),
			},
			Features: []domain.Feature{
				domain.FeatureSummary,
				domain.FeatureSocialMediaPosts,
				domain.FeatureTitles,
				domain.FeatureHashtags,
			},
		},
		{
			Name:        domain.PlanPremium,
			DisplayName: "Premium",
			Price:       "$49/month",
			Limits: domain.PlanLimits{
				MaxFileSizeBytes: 3 * gib,
			},
			Features: []domain.Feature{
				domain.FeatureSummary,
				domain.FeatureSocialMediaPosts,
				domain.FeatureTitles,
				domain.FeatureHashtags,
				domain.FeatureVideoTimestamps,
				domain.FeatureKeyMoments,
				domain.FeatureSpeakerDiarization,
			},
		},
	})
	if err != nil {
		panic(fmt.Errorf("plans: default catalog: %w", err))
	}
	return cat
}

// New builds a catalog from tier definitions and validates it.
func New(tiers []Tier) (*Catalog, error) {
	c := &Catalog{tiers: make(map[domain.PlanTier]Tier, len(tiers))}
	for _, t := range tiers {
		name, err := domain.ParsePlan(string(t.Name))
		if err != nil {
			return nil, fmt.Errorf("plans: tier %q: %w", t.Name, err)
		}
		if _, dup := c.tiers[name]; dup {
			return nil, fmt.Errorf("plans: duplicate tier %q", name)
		}
		t.Name = name
		t.Features = slices.Clone(t.Features)
		c.tiers[name] = t
	}
	for _, name := range []domain.PlanTier{domain.PlanFree, domain.PlanStandard, domain.PlanPremium} {
		if _, ok := c.tiers[name]; !ok {
			return nil, fmt.Errorf("plans: tier %q missing", name)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.order = c.sortedTiers()
	return c, nil
}

// Validate enforces the upgrade guarantee: every tier's feature set must
// contain the feature set of each tier below it.
func (c *Catalog) Validate() error {
	chain := []domain.PlanTier{domain.PlanFree, domain.PlanStandard, domain.PlanPremium}
	for i, name := range chain {
		t := c.tiers[name]
		if t.Limits.MaxFileSizeBytes <= 0 {
			return fmt.Errorf("plans: tier %q needs a positive max file size", name)
		}
		if i == 0 {
			continue
		}
		lower := c.tiers[chain[i-1]]
		if !isSubset(lower.Features, t.Features) {
			return fmt.Errorf("plans: tier %q must include every feature of %q", name, lower.Name)
		}
	}
	return nil
}

// Tiers returns the tiers in ascending capability order.
func (c *Catalog) Tiers() []domain.PlanTier {
	return slices.Clone(c.order)
}

// Tier returns the full definition of a tier.
func (c *Catalog) Tier(tier domain.PlanTier) Tier {
	if t, ok := c.tiers[tier]; ok {
		return t
	}
	return c.tiers[domain.PlanFree]
}

// LimitsFor returns the resource limits of a tier.
func (c *Catalog) LimitsFor(tier domain.PlanTier) domain.PlanLimits {
	return c.Tier(tier).Limits
}

// FeaturesFor returns a copy of the features unlocked by a tier.
func (c *Catalog) FeaturesFor(tier domain.PlanTier) []domain.Feature {
	return slices.Clone(c.Tier(tier).Features)
}

// HasFeature reports whether the tier unlocks feature.
func (c *Catalog) HasFeature(tier domain.PlanTier, feature domain.Feature) bool {
	return slices.Contains(c.Tier(tier).Features, feature)
}

// JobForFeature maps a feature onto the job that produces it. Features without
// a generation job (speaker diarization) report false.
func (c *Catalog) JobForFeature(feature domain.Feature) (domain.Job, bool) {
	for _, j := range domain.Jobs() {
		if j.Feature() == feature {
			return j, true
		}
	}
	return "", false
}

// Compare orders two tiers by feature-set inclusion: -1 when a unlocks
// strictly less than b, 1 when strictly more, 0 when equivalent.
func (c *Catalog) Compare(a, b domain.PlanTier) int {
	fa, fb := c.Tier(a).Features, c.Tier(b).Features
	aInB, bInA := isSubset(fa, fb), isSubset(fb, fa)
	switch {
	case aInB && bInA:
		return 0
	case aInB:
		return -1
	case bInA:
		return 1
	default:
		return 0
	}
}

func (c *Catalog) sortedTiers() []domain.PlanTier {
	order := []domain.PlanTier{domain.PlanFree, domain.PlanStandard, domain.PlanPremium}
	slices.SortStableFunc(order, c.Compare)
	return order
}

func isSubset(sub, super []domain.Feature) bool {
	for _, f := range sub {
		if !slices.Contains(super, f) {
			return false
		}
	}
	return true
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
