package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/plans"
)

func renderPlans(w io.Writer, catalog *plans.Catalog) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Plan", "Price", "Projects", "File size", "Duration", "Features"})
	for _, name := range catalog.Tiers() {
		tier := catalog.Tier(name)
		features := make([]string, 0, len(tier.Features))
		for _, f := range tier.Features {
			features = append(features, string(f))
		}
		tw.AppendRow(table.Row{
			displayName(catalog, name),
			tier.Price,
			formatProjects(tier.Limits.MaxProjects),
			formatBytes(tier.Limits.MaxFileSizeBytes),
			formatDuration(tier.Limits.MaxDurationSeconds),
			strings.Join(features, ", "),
		})
	}
	tw.Render()
}

// displayName prefers the catalog's display name and title-cases the tier
// identifier otherwise.
func displayName(catalog *plans.Catalog, tier domain.PlanTier) string {
	if name := strings.TrimSpace(catalog.Tier(tier).DisplayName); name != "" {
		return name
	}
	return cases.Title(language.English).String(string(tier))
}

func describeUpload(catalog *plans.Catalog, tier domain.PlanTier, result entitlement.UploadResult) string {
	if result.Allowed {
		return fmt.Sprintf("allowed on %s", displayName(catalog, tier))
	}
	return fmt.Sprintf("rejected on %s (%s): %s", displayName(catalog, tier), result.Reason, result.Message)
}

func formatProjects(limit *int) string {
	if limit == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%d", *limit)
}

func formatDuration(seconds *int64) string {
	if seconds == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%d min", *seconds/60)
}

func formatBytes(n int64) string {
	const mib = 1024 * 1024
	if n >= 1024*mib && n%(1024*mib) == 0 {
		return fmt.Sprintf("%d GB", n/(1024*mib))
	}
	return fmt.Sprintf("%d MB", n/mib)
}
