package generation

import (
	"fmt"

	"podcaster/internal/domain"
)

const summaryBudget = 3000

const summarySystemPrompt = `You are a podcast content analyst and marketing strategist. Produce engaging, accurate and shareable summaries of podcast episodes that surface the most valuable takeaways for listeners. Keep the tone and personality of the show and write copy that can be reused in show notes, newsletters and social media.`

func buildSummaryPrompt(t domain.Transcript) string {
	return fmt.Sprintf(`Analyze this podcast transcript and write a summary package.

TRANSCRIPT (first %d characters):
%s...

%sReturn:
1. full: a 200-300 word overview covering the speakers, the main themes and why listeners should tune in.
2. bullets: 5-7 key points in the order they are discussed, including notable facts or quotes.
3. insights: 3-5 actionable takeaways listeners can apply.
4. tldr: one sentence that captures the episode and makes the reader want to listen.

Be specific to this episode. Avoid generic filler.`,
		summaryBudget, transcriptExcerpt(t, summaryBudget), chapterSection("AUTO-DETECTED CHAPTERS", t.Chapters, true))
}

var summarySchema = objectSchema(map[string]any{
	"full":     stringSchema("200-300 word episode overview"),
	"bullets":  stringArraySchema("5-7 key points"),
	"insights": stringArraySchema("3-5 actionable insights"),
	"tldr":     stringSchema("one sentence hook"),
})

func summaryPartial(t domain.Transcript) domain.Summary {
	return domain.Summary{
		Full:     coalesce(transcriptExcerpt(t, 500), "Transcript unavailable"),
		Bullets:  []string{"Full transcript available"},
		Insights: []string{"See transcript"},
		TLDR:     coalesce(transcriptExcerpt(t, 200), "Transcript unavailable"),
	}
}

func summaryFailed() domain.Summary {
	return domain.Summary{
		Full:     "Error generating summary. Please check logs or try again.",
		Bullets:  []string{"Summary generation failed - see full transcript"},
		Insights: []string{"Error occurred during AI generation"},
		TLDR:     "Summary generation failed",
	}
}

// SummaryStep generates the multi-format episode summary.
type SummaryStep = TypedStep[domain.Summary]

func NewSummaryStep(completer Completer, opts Options) *SummaryStep {
	return newTypedStep(definition[domain.Summary]{
		job:         domain.JobSummary,
		schemaName:  "summary",
		schema:      summarySchema,
		system:      summarySystemPrompt,
		buildPrompt: buildSummaryPrompt,
		partial:     summaryPartial,
		failed:      summaryFailed,
	}, completer, opts)
}
