package domain

// Summary is the multi-format episode summary.
type Summary struct {
	Full     string   `json:"full" validate:"required"`
	Bullets  []string `json:"bullets" validate:"required,min=1,dive,required"`
	Insights []string `json:"insights" validate:"required,min=1,dive,required"`
	TLDR     string   `json:"tldr" validate:"required"`
}

// Titles holds title suggestions per distribution channel. The model is asked
// for three of each and five to ten keywords; fallbacks carry a single entry.
type Titles struct {
	YoutubeShort  []string `json:"youtubeShort" validate:"required,min=1,max=3,dive,required"`
	YoutubeLong   []string `json:"youtubeLong" validate:"required,min=1,max=3,dive,required"`
	PodcastTitles []string `json:"podcastTitles" validate:"required,min=1,max=3,dive,required"`
	SEOKeywords   []string `json:"seoKeywords" validate:"required,min=1,max=10,dive,required"`
}

// Hashtags holds hashtag sets per platform.
type Hashtags struct {
	Youtube   []string `json:"youtube" validate:"required,min=1,dive,required"`
	Instagram []string `json:"instagram" validate:"required,min=1,dive,required"`
	Tiktok    []string `json:"tiktok" validate:"required,min=1,dive,required"`
	Linkedin  []string `json:"linkedin" validate:"required,min=1,dive,required"`
	Twitter   []string `json:"twitter" validate:"required,min=1,dive,required"`
}

// SocialPosts holds one ready-to-publish post per platform.
type SocialPosts struct {
	Twitter   string `json:"twitter" validate:"required,max=280"`
	Linkedin  string `json:"linkedin" validate:"required"`
	Instagram string `json:"instagram" validate:"required"`
	Tiktok    string `json:"tiktok" validate:"required"`
	Youtube   string `json:"youtube" validate:"required"`
	Facebook  string `json:"facebook" validate:"required"`
}

// KeyMoment marks a clip-worthy moment of the episode.
type KeyMoment struct {
	Time        string `json:"time" validate:"required"`
	Timestamp   int64  `json:"timestamp" validate:"gte=0"`
	Text        string `json:"text" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// KeyMoments wraps the moment list so the schema has an object root.
type KeyMoments struct {
	Moments []KeyMoment `json:"moments" validate:"required,min=1,dive"`
}

// Timestamp is one YouTube chapter marker.
type Timestamp struct {
	Timestamp   string `json:"timestamp" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// VideoTimestamps wraps the chapter markers.
type VideoTimestamps struct {
	Timestamps []Timestamp `json:"timestamps" validate:"required,min=1,dive"`
}
