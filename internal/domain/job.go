package domain

// Job enumerates the retryable AI generation jobs of a project. The string
// values double as the asset field names persisted on the project record.
type Job string

const (
	JobSummary          Job = "summary"
	JobSocialMediaPosts Job = "SocialMediaPosts"
	JobTitles           Job = "titles"
	JobHashtags         Job = "hashtags"
	JobKeyMoments       Job = "keyMoments"
	JobVideoTimestamps  Job = "VideoTimestamps"
)

// Jobs lists every retryable job in a stable order.
func Jobs() []Job {
	return []Job{
		JobSummary,
		JobSocialMediaPosts,
		JobTitles,
		JobHashtags,
		JobKeyMoments,
		JobVideoTimestamps,
	}
}

// ParseJob maps a wire value onto the closed job set.
func ParseJob(v string) (Job, error) {
	for _, j := range Jobs() {
		if string(j) == v {
			return j, nil
		}
	}
	return "", ErrInvalidJob
}

// Valid reports whether the job belongs to the closed set.
func (j Job) Valid() bool {
	_, err := ParseJob(string(j))
	return err == nil
}

// Feature returns the billing feature that gates the job.
func (j Job) Feature() Feature {
	switch j {
	case JobSocialMediaPosts:
		return FeatureSocialMediaPosts
	case JobTitles:
		return FeatureTitles
	case JobHashtags:
		return FeatureHashtags
	case JobKeyMoments:
		return FeatureKeyMoments
	case JobVideoTimestamps:
		return FeatureVideoTimestamps
	default:
		return FeatureSummary
	}
}
