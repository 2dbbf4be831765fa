package generation

import (
	"fmt"
	"strings"

	"podcaster/internal/domain"
)

const noChaptersPlaceholder = "General discussion"

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func transcriptExcerpt(t domain.Transcript, budget int) string {
	return truncateRunes(strings.TrimSpace(t.Text), budget)
}

// chapterLines numbers chapter headlines, optionally with each chapter summary.
func chapterLines(chapters []domain.Chapter, withSummary bool) string {
	sb := &strings.Builder{}
	for i, ch := range chapters {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if withSummary && strings.TrimSpace(ch.Summary) != "" {
			fmt.Fprintf(sb, "%d. %s - %s", i+1, ch.Headline, ch.Summary)
			continue
		}
		fmt.Fprintf(sb, "%d. %s", i+1, ch.Headline)
	}
	return sb.String()
}

// chapterSection renders a labelled chapter block, or nothing when there are no chapters.
func chapterSection(label string, chapters []domain.Chapter, withSummary bool) string {
	if len(chapters) == 0 {
		return ""
	}
	return label + ":\n" + chapterLines(chapters, withSummary) + "\n\n"
}

// topicList always yields something: chapter headlines or the placeholder.
func topicList(chapters []domain.Chapter) string {
	if len(chapters) == 0 {
		return noChaptersPlaceholder
	}
	return chapterLines(chapters, false)
}

// formatClock renders milliseconds as M:SS, or H:MM:SS past the hour.
func formatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
