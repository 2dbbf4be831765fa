package generation

import (
	"fmt"

	"podcaster/internal/domain"
)

const socialBudget = 3000

const socialSystemPrompt = `You are a social media copywriter for podcasts. Write platform-native posts that promote an episode, matching each network's tone, length and conventions.`

func buildSocialPrompt(t domain.Transcript) string {
	return fmt.Sprintf(`Write one promotional post per platform for this podcast episode.

TRANSCRIPT (first %d characters):
%s...

%sReturn:
- twitter: at most 280 characters, punchy with a hook.
- linkedin: a professional post of 3-5 short paragraphs with a takeaway.
- instagram: an engaging caption with line breaks and a call to action.
- tiktok: a short, energetic caption.
- youtube: a video description opening with the episode hook.
- facebook: a conversational post inviting discussion.`,
		socialBudget, transcriptExcerpt(t, socialBudget), chapterSection("MAIN TOPICS", t.Chapters, false))
}

var socialSchema = objectSchema(map[string]any{
	"twitter":   stringSchema("tweet, max 280 characters"),
	"linkedin":  stringSchema("LinkedIn post"),
	"instagram": stringSchema("Instagram caption"),
	"tiktok":    stringSchema("TikTok caption"),
	"youtube":   stringSchema("YouTube description"),
	"facebook":  stringSchema("Facebook post"),
})

func socialPartial(domain.Transcript) domain.SocialPosts {
	const post = "New podcast episode out now. Listen to the full conversation."
	return domain.SocialPosts{
		Twitter:   post,
		Linkedin:  post,
		Instagram: post,
		Tiktok:    post,
		Youtube:   post,
		Facebook:  post,
	}
}

func socialFailed() domain.SocialPosts {
	const marker = "Social post generation failed"
	return domain.SocialPosts{
		Twitter:   marker,
		Linkedin:  marker,
		Instagram: marker,
		Tiktok:    marker,
		Youtube:   marker,
		Facebook:  marker,
	}
}

// SocialPostsStep generates one post per social platform.
type SocialPostsStep = TypedStep[domain.SocialPosts]

func NewSocialPostsStep(completer Completer, opts Options) *SocialPostsStep {
	return newTypedStep(definition[domain.SocialPosts]{
		job:         domain.JobSocialMediaPosts,
		schemaName:  "social_posts",
		schema:      socialSchema,
		system:      socialSystemPrompt,
		buildPrompt: buildSocialPrompt,
		partial:     socialPartial,
		failed:      socialFailed,
	}, completer, opts)
}
