package generation

import (
	"fmt"

	"podcaster/internal/domain"
)

const titlesBudget = 2000

const titlesSystemPrompt = "You are an expert in SEO, content marketing and viral content. Write clickable titles that stay credible, follow SEO practice and maximise search ranking and engagement."

func buildTitlesPrompt(t domain.Transcript) string {
	return fmt.Sprintf(`Analyze this podcast transcript and write titles optimised for discovery.

TRANSCRIPT PREVIEW:
%s...

%sReturn:
1. youtubeShort: 3 titles of 40-60 characters, hook-focused and curiosity-driven without being misleading.
2. youtubeLong: 3 titles of 70-100 characters with keywords worked in naturally, formatted "Main Topic: Subtitle | Value".
3. podcastTitles: 3 memorable episode titles suitable for RSS feeds and directories.
4. seoKeywords: 5-10 search terms listeners actually use, mixing broad and niche.`,
		transcriptExcerpt(t, titlesBudget), chapterSection("MAIN TOPICS COVERED", t.Chapters, false))
}

var titlesSchema = objectSchema(map[string]any{
	"youtubeShort":  stringArraySchema("3 short YouTube titles"),
	"youtubeLong":   stringArraySchema("3 long YouTube titles"),
	"podcastTitles": stringArraySchema("3 podcast episode titles"),
	"seoKeywords":   stringArraySchema("5-10 SEO keywords"),
})

func titlesPartial(domain.Transcript) domain.Titles {
	return domain.Titles{
		YoutubeShort:  []string{"Podcast Episode"},
		YoutubeLong:   []string{"Podcast Episode - Full Discussion"},
		PodcastTitles: []string{"New Episode"},
		SEOKeywords:   []string{"podcast"},
	}
}

func titlesFailed() domain.Titles {
	return domain.Titles{
		YoutubeShort:  []string{"Title generation failed"},
		YoutubeLong:   []string{"Title generation failed - check logs"},
		PodcastTitles: []string{"Title generation failed"},
		SEOKeywords:   []string{"error"},
	}
}

// TitlesStep generates per-channel title suggestions and SEO keywords.
type TitlesStep = TypedStep[domain.Titles]

func NewTitlesStep(completer Completer, opts Options) *TitlesStep {
	return newTypedStep(definition[domain.Titles]{
		job:         domain.JobTitles,
		schemaName:  "titles",
		schema:      titlesSchema,
		system:      titlesSystemPrompt,
		buildPrompt: buildTitlesPrompt,
		partial:     titlesPartial,
		failed:      titlesFailed,
	}, completer, opts)
}
