package domain

import "strings"

// PlanTier enumerates subscription tiers. Capability ordering is derived from
// feature-set inclusion by the plan catalog, never from these string values.
type PlanTier string

const (
	PlanFree     PlanTier = "free"
	PlanStandard PlanTier = "standard"
	PlanPremium  PlanTier = "premium"
)

// ParsePlan normalizes a plan name coming from tokens, flags or events.
func ParsePlan(v string) (PlanTier, error) {
	switch PlanTier(strings.ToLower(strings.TrimSpace(v))) {
	case PlanFree:
		return PlanFree, nil
	case PlanStandard:
		return PlanStandard, nil
	case PlanPremium:
		return PlanPremium, nil
	default:
		return "", ErrInvalidPlan
	}
}

// Feature is a named capability unlocked by a plan. Transcription is core
// functionality and deliberately has no feature.
type Feature string

const (
	FeatureSummary            Feature = "summary"
	FeatureSocialMediaPosts   Feature = "social_media_posts"
	FeatureTitles             Feature = "titles"
	FeatureHashtags           Feature = "hashtags"
	FeatureVideoTimestamps    Feature = "video_timestamps"
	FeatureKeyMoments         Feature = "key_moments"
	FeatureSpeakerDiarization Feature = "speaker_diarization"
)

// Features lists every known feature.
func Features() []Feature {
	return []Feature{
		FeatureSummary,
		FeatureSocialMediaPosts,
		FeatureTitles,
		FeatureHashtags,
		FeatureVideoTimestamps,
		FeatureKeyMoments,
		FeatureSpeakerDiarization,
	}
}

func ParseFeature(v string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Features() {
		if f == known {
			return f, nil
		}
	}
	return "", ErrInvalidFeature
}

// PlanLimits bounds what a tier may upload. Nil pointers mean unbounded.
type PlanLimits struct {
	MaxProjects        *int   `json:"max_projects" yaml:"max_projects"`
	MaxFileSizeBytes   int64  `json:"max_file_size_bytes" yaml:"max_file_size_bytes"`
	MaxDurationSeconds *int64 `json:"max_duration_seconds" yaml:"max_duration_seconds"`
}
