package entitlement

import (
	"fmt"

	"podcaster/internal/domain"
)

// RejectReason names the limit an upload exceeded.
type RejectReason string

const (
	ReasonFileSize     RejectReason = "file_size"
	ReasonDuration     RejectReason = "duration"
	ReasonProjectLimit RejectReason = "project_limit"
)

// UploadResult is the outcome of an upload check.
type UploadResult struct {
	Allowed      bool         `json:"allowed"`
	Reason       RejectReason `json:"reason,omitempty"`
	Message      string       `json:"message,omitempty"`
	CurrentCount *int         `json:"current_count,omitempty"`
	Limit        *int         `json:"limit,omitempty"`
}

const bytesPerMB = 1024 * 1024

// ValidateUpload checks file size, then duration, then project count. The
// duration check runs only when a positive duration is supplied and the tier
// bounds it; the count check only when the tier bounds projects.
func (r *Resolver) ValidateUpload(tier domain.PlanTier, fileSizeBytes int64, durationSeconds *int64, currentProjectCount int) UploadResult {
	limits := r.catalog.LimitsFor(tier)

	if fileSizeBytes > limits.MaxFileSizeBytes {
		return UploadResult{
			Reason: ReasonFileSize,
			Message: fmt.Sprintf("File size (%.1fMB) exceeds your plan limit of %.0fMB",
				float64(fileSizeBytes)/bytesPerMB, float64(limits.MaxFileSizeBytes)/bytesPerMB),
		}
	}

	if durationSeconds != nil && *durationSeconds > 0 && limits.MaxDurationSeconds != nil &&
		*durationSeconds > *limits.MaxDurationSeconds {
		return UploadResult{
			Reason: ReasonDuration,
			Message: fmt.Sprintf("Duration (%d minutes) exceeds your plan limit of %d minutes",
				*durationSeconds/60, *limits.MaxDurationSeconds/60),
		}
	}

	if limits.MaxProjects != nil && currentProjectCount >= *limits.MaxProjects {
		scope := "active"
		if CountsDeleted(tier) {
			scope = "total"
		}
		count, limit := currentProjectCount, *limits.MaxProjects
		return UploadResult{
			Reason:       ReasonProjectLimit,
			Message:      fmt.Sprintf("You've reached your plan limit of %d %s projects", limit, scope),
			CurrentCount: &count,
			Limit:        &limit,
		}
	}

	return UploadResult{Allowed: true}
}
