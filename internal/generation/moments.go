package generation

import (
	"fmt"

	"podcaster/internal/domain"
)

const keyMomentsBudget = 3000

const keyMomentsSystemPrompt = `You are a video editor who finds the most clip-worthy moments in podcast episodes: surprising claims, emotional beats, quotable lines and practical advice that work as short-form clips.`

func buildKeyMomentsPrompt(t domain.Transcript) string {
	return fmt.Sprintf(`Find 3-6 key moments in this podcast episode that would make strong short clips.

TRANSCRIPT (first %d characters):
%s...

%sFor each moment return:
- time: position as M:SS or H:MM:SS
- timestamp: position in whole seconds
- text: the quotable line or a close paraphrase
- description: why the moment works as a clip`,
		keyMomentsBudget, transcriptExcerpt(t, keyMomentsBudget), chapterSection("CHAPTERS", t.Chapters, false))
}

var keyMomentsSchema = objectSchema(map[string]any{
	"moments": arraySchema(objectSchema(map[string]any{
		"time":        stringSchema("M:SS or H:MM:SS"),
		"timestamp":   map[string]any{"type": "integer", "description": "seconds from start"},
		"text":        stringSchema("quotable line"),
		"description": stringSchema("why it works as a clip"),
	}), "3-6 key moments"),
})

// Chapter starts stand in for moments when the model gives nothing back.
func keyMomentsPartial(t domain.Transcript) domain.KeyMoments {
	moments := make([]domain.KeyMoment, 0, len(t.Chapters))
	for _, ch := range t.Chapters {
		moments = append(moments, domain.KeyMoment{
			Time:        formatClock(ch.Start),
			Timestamp:   max(ch.Start, 0) / 1000,
			Text:        coalesce(ch.Headline, ch.Gist, "Chapter"),
			Description: coalesce(ch.Summary, ch.Gist, ch.Headline, "Chapter start"),
		})
	}
	if len(moments) == 0 {
		moments = append(moments, domain.KeyMoment{
			Time:        formatClock(0),
			Timestamp:   0,
			Text:        "Episode start",
			Description: "Full episode",
		})
	}
	return domain.KeyMoments{Moments: moments}
}

func keyMomentsFailed() domain.KeyMoments {
	return domain.KeyMoments{Moments: []domain.KeyMoment{{
		Time:        formatClock(0),
		Timestamp:   0,
		Text:        "Key moment generation failed",
		Description: "Key moment generation failed - check logs",
	}}}
}

// KeyMomentsStep picks clip-worthy moments.
type KeyMomentsStep = TypedStep[domain.KeyMoments]

func NewKeyMomentsStep(completer Completer, opts Options) *KeyMomentsStep {
	return newTypedStep(definition[domain.KeyMoments]{
		job:         domain.JobKeyMoments,
		schemaName:  "key_moments",
		schema:      keyMomentsSchema,
		system:      keyMomentsSystemPrompt,
		buildPrompt: buildKeyMomentsPrompt,
		partial:     keyMomentsPartial,
		failed:      keyMomentsFailed,
	}, completer, opts)
}
