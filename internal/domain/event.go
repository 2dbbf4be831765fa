package domain

// RetryJobEventName is the stable event name consumed by the worker.
const RetryJobEventName = "podcast/retry-job"

// RetryEvent asks the worker to regenerate one job of one project. Both plans
// travel with the event so the worker can tell upgrades from plain retries.
type RetryEvent struct {
	ProjectID    string   `json:"projectId"`
	Job          Job      `json:"job"`
	UserID       string   `json:"userId"`
	OriginalPlan PlanTier `json:"originalPlan"`
	CurrentPlan  PlanTier `json:"currentPlan"`
}
