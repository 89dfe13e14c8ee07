package domain

import "time"

// Coordinates is a click position captured alongside a submission.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Submission is a stored form-submission record intercepted on a monitored
// page, annotated by upstream detection with a bot verdict and a click
// correlation flag. Records are immutable after insert.
type Submission struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	TargetURL      string    `json:"target_url"`
	TargetHostname string    `json:"target_hostname"`
	SourceURL      string    `json:"source_url"`

	// MatchedFields and MatchedValues are independently settable: the
	// value map's keys are usually a subset of the field list, but the
	// classifier never assumes cross-consistency.
	MatchedFields []string          `json:"matched_fields"`
	MatchedValues map[string]string `json:"matched_values"`

	RequestMethod string `json:"request_method"`
	Status        string `json:"status"`

	IsBot               BotVerdict   `json:"is_bot"`
	HasClickCorrelation bool         `json:"has_click_correlation"`
	ClickTimeDiffMS     *int64       `json:"click_time_diff_ms,omitempty"`
	ClickCoordinates    *Coordinates `json:"click_coordinates,omitempty"`
}

// HasInput reports whether the submission carried captured user input.
// Both collections are checked independently.
func (s *Submission) HasInput() bool {
	return len(s.MatchedFields) > 0 && len(s.MatchedValues) > 0
}

// HostnameCount is one row of the top-hostnames breakdown.
type HostnameCount struct {
	Hostname string `json:"hostname"`
	Count    int64  `json:"count"`
}

// DailyCount is one row of the trailing-days activity breakdown.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// SubmissionStats summarizes stored submissions for reporting.
type SubmissionStats struct {
	TotalSubmissions int64           `json:"total_submissions"`
	TodaySubmissions int64           `json:"today_submissions"`
	TopHostnames     []HostnameCount `json:"top_hostnames"`
	RecentActivity   []DailyCount    `json:"recent_activity"`
}

// ClassificationStats summarizes the human/bot annotation coverage.
type ClassificationStats struct {
	TotalSubmissions        int64   `json:"total_submissions"`
	HumanSubmissions        int64   `json:"human_submissions"`
	BotSubmissions          int64   `json:"bot_submissions"`
	UncorrelatedSubmissions int64   `json:"uncorrelated_submissions"`
	CorrelationRate         float64 `json:"correlation_rate"`
}

// percent converts a ratio to a percentage.
const percent = 100

// NewClassificationStats derives the correlation rate from raw counts.
// The rate is the share of submissions with a definite verdict, 0.0 when
// there are no submissions at all.
func NewClassificationStats(total, human, bot, uncorrelated int64) ClassificationStats {
	rate := 0.0
	if total > 0 {
		rate = float64(human+bot) / float64(total) * percent
	}

	return ClassificationStats{
		TotalSubmissions:        total,
		HumanSubmissions:        human,
		BotSubmissions:          bot,
		UncorrelatedSubmissions: uncorrelated,
		CorrelationRate:         rate,
	}
}
