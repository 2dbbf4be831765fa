package generation

import (
	"fmt"

	"podcaster/internal/domain"
)

const hashtagsSystemPrompt = `You are a social media growth strategist for podcasts with current knowledge of platform algorithms and trending hashtags. Produce hashtag sets that maximise reach, engagement and follower growth, balancing trending, niche and evergreen tags. Every tag must be specific to the episode.`

// The hashtag prompt only sees chapter headlines, never the transcript body.
func buildHashtagsPrompt(t domain.Transcript) string {
	return fmt.Sprintf(`Create hashtags for a podcast episode.

TOPICS COVERED:
%s

Return hashtags per platform, each starting with #:
- instagram: 6-8 tags mixing popular and niche community tags.
- twitter: 5 concise, conversation-starting tags.
- youtube: 5 discovery-focused tags.
- tiktok: 5-6 currently trending tags with FYP reach.
- linkedin: 5 professional, industry-relevant tags.`, topicList(t.Chapters))
}

var hashtagsSchema = objectSchema(map[string]any{
	"youtube":   stringArraySchema("YouTube hashtags"),
	"instagram": stringArraySchema("Instagram hashtags"),
	"tiktok":    stringArraySchema("TikTok hashtags"),
	"linkedin":  stringArraySchema("LinkedIn hashtags"),
	"twitter":   stringArraySchema("Twitter hashtags"),
})

func hashtagsPartial(domain.Transcript) domain.Hashtags {
	return domain.Hashtags{
		Youtube:   []string{"#Podcast"},
		Instagram: []string{"#Podcast", "#Content"},
		Tiktok:    []string{"#Podcast"},
		Linkedin:  []string{"#Podcast"},
		Twitter:   []string{"#Podcast"},
	}
}

func hashtagsFailed() domain.Hashtags {
	const marker = "Hashtag generation failed"
	return domain.Hashtags{
		Youtube:   []string{marker},
		Instagram: []string{marker},
		Tiktok:    []string{marker},
		Linkedin:  []string{marker},
		Twitter:   []string{marker},
	}
}

// HashtagsStep generates per-platform hashtag sets.
type HashtagsStep = TypedStep[domain.Hashtags]

func NewHashtagsStep(completer Completer, opts Options) *HashtagsStep {
	return newTypedStep(definition[domain.Hashtags]{
		job:         domain.JobHashtags,
		schemaName:  "hashtags",
		schema:      hashtagsSchema,
		system:      hashtagsSystemPrompt,
		buildPrompt: buildHashtagsPrompt,
		partial:     hashtagsPartial,
		failed:      hashtagsFailed,
	}, completer, opts)
}
