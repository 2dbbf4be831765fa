package domain

import "time"

// Project is a user's uploaded episode together with its generated assets.
// Asset fields are nil until the matching job has written a result back.
type Project struct {
	ID               string           `json:"id"`
	UserID           string           `json:"user_id"`
	Name             string           `json:"name"`
	Status           string           `json:"status"`
	Transcript       *Transcript      `json:"transcript,omitempty"`
	Summary          *Summary         `json:"summary,omitempty"`
	SocialMediaPosts *SocialPosts     `json:"SocialMediaPosts,omitempty"`
	Titles           *Titles          `json:"titles,omitempty"`
	Hashtags         *Hashtags        `json:"hashtags,omitempty"`
	KeyMoments       *KeyMoments      `json:"keyMoments,omitempty"`
	VideoTimestamps  *VideoTimestamps `json:"VideoTimestamps,omitempty"`
	DeletedAt        *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// AssetPresence is a snapshot of which generated assets exist on a project.
type AssetPresence struct {
	Summary          bool
	SocialMediaPosts bool
	Titles           bool
	Hashtags         bool
	KeyMoments       bool
	VideoTimestamps  bool
}

// Active reports whether the project exists and has not been soft-deleted.
func (p *Project) Active() bool {
	return p != nil && p.DeletedAt == nil
}

// Assets reports which asset fields are populated.
func (p *Project) Assets() AssetPresence {
	if p == nil {
		return AssetPresence{}
	}
	return AssetPresence{
		Summary:          p.Summary != nil,
		SocialMediaPosts: p.SocialMediaPosts != nil,
		Titles:           p.Titles != nil,
		Hashtags:         p.Hashtags != nil,
		KeyMoments:       p.KeyMoments != nil,
		VideoTimestamps:  p.VideoTimestamps != nil,
	}
}

// Has reports whether the asset produced by job is present.
func (a AssetPresence) Has(job Job) bool {
	switch job {
	case JobSummary:
		return a.Summary
	case JobSocialMediaPosts:
		return a.SocialMediaPosts
	case JobTitles:
		return a.Titles
	case JobHashtags:
		return a.Hashtags
	case JobKeyMoments:
		return a.KeyMoments
	case JobVideoTimestamps:
		return a.VideoTimestamps
	default:
		return false
	}
}

// GeneratedAssets returns the populated assets keyed by job.
func (p *Project) GeneratedAssets() map[Job]any {
	out := make(map[Job]any)
	if p == nil {
		return out
	}
	if p.Summary != nil {
		out[JobSummary] = p.Summary
	}
	if p.SocialMediaPosts != nil {
		out[JobSocialMediaPosts] = p.SocialMediaPosts
	}
	if p.Titles != nil {
		out[JobTitles] = p.Titles
	}
	if p.Hashtags != nil {
		out[JobHashtags] = p.Hashtags
	}
	if p.KeyMoments != nil {
		out[JobKeyMoments] = p.KeyMoments
	}
	if p.VideoTimestamps != nil {
		out[JobVideoTimestamps] = p.VideoTimestamps
	}
	return out
}
