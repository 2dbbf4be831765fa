package generation

import (
	"fmt"

	"podcaster/internal/domain"
)

const timestampsBudget = 2000

const timestampsSystemPrompt = `You are a YouTube producer who writes chapter markers for long-form podcast videos. Chapter titles are short, descriptive and in order.`

func buildTimestampsPrompt(t domain.Transcript) string {
	chapters := "No chapter data available; infer sections from the transcript."
	if len(t.Chapters) > 0 {
		chapters = ""
		for i, ch := range t.Chapters {
			if i > 0 {
				chapters += "\n"
			}
			chapters += fmt.Sprintf("%s %s", formatClock(ch.Start), ch.Headline)
		}
	}
	return fmt.Sprintf(`Write YouTube chapter timestamps for this podcast episode.

CHAPTERS:
%s

TRANSCRIPT PREVIEW:
%s...

Return timestamps in order. The first one must be 0:00. Each has a timestamp (M:SS or H:MM:SS) and a short description.`,
		chapters, transcriptExcerpt(t, timestampsBudget))
}

var timestampsSchema = objectSchema(map[string]any{
	"timestamps": arraySchema(objectSchema(map[string]any{
		"timestamp":   stringSchema("M:SS or H:MM:SS"),
		"description": stringSchema("chapter title"),
	}), "ordered chapter markers"),
})

func timestampsPartial(t domain.Transcript) domain.VideoTimestamps {
	out := make([]domain.Timestamp, 0, len(t.Chapters))
	for _, ch := range t.Chapters {
		out = append(out, domain.Timestamp{
			Timestamp:   formatClock(ch.Start),
			Description: coalesce(ch.Headline, ch.Gist, "Chapter"),
		})
	}
	if len(out) == 0 {
		out = append(out, domain.Timestamp{Timestamp: formatClock(0), Description: "Introduction"})
	}
	return domain.VideoTimestamps{Timestamps: out}
}

func timestampsFailed() domain.VideoTimestamps {
	return domain.VideoTimestamps{Timestamps: []domain.Timestamp{{
		Timestamp:   formatClock(0),
		Description: "Timestamp generation failed",
	}}}
}

// VideoTimestampsStep generates YouTube chapter markers.
type VideoTimestampsStep = TypedStep[domain.VideoTimestamps]

func NewVideoTimestampsStep(completer Completer, opts Options) *VideoTimestampsStep {
	return newTypedStep(definition[domain.VideoTimestamps]{
		job:         domain.JobVideoTimestamps,
		schemaName:  "video_timestamps",
		schema:      timestampsSchema,
		system:      timestampsSystemPrompt,
		buildPrompt: buildTimestampsPrompt,
		partial:     timestampsPartial,
		failed:      timestampsFailed,
	}, completer, opts)
}
