package dto

import (
	"time"

	"github.com/google/uuid"
)

// TopAssigneeEntry is one row of the top-assignees report
type TopAssigneeEntry struct {
	UserID     uuid.UUID `json:"userId"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	IssueCount int64     `json:"issueCount"`
}

// ResolutionLatencyResponse reports resolution time statistics in hours
// over issues resolved or closed within the lookback window. All values are
// zero when no qualifying issues exist.
type ResolutionLatencyResponse struct {
	AverageResolutionHours float64 `json:"averageResolutionHours"`
	MinResolutionHours     float64 `json:"minResolutionHours"`
	MaxResolutionHours     float64 `json:"maxResolutionHours"`
	ResolvedCount          int64   `json:"resolvedCount"`
	PeriodDays             int     `json:"periodDays"`
}

// VelocityResponse reports issue creation vs. resolution rates over the
// lookback window.
type VelocityResponse struct {
	CreatedCount        int64   `json:"createdCount"`
	ResolvedCount       int64   `json:"resolvedCount"`
	NetChange           int64   `json:"netChange"`
	PeriodDays          int     `json:"periodDays"`
	DailyCreationRate   float64 `json:"dailyCreationRate"`
	DailyResolutionRate float64 `json:"dailyResolutionRate"`
}

// TimelineEvent is one entry of an issue's synthesized history
type TimelineEvent struct {
	ID        string            `json:"id"`
	EventType string            `json:"eventType"`
	Timestamp time.Time         `json:"timestamp"`
	ActorID   *uuid.UUID        `json:"actorId"`
	ActorName string            `json:"actorName"`
	Details   string            `json:"details"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// TimelineResponse is the chronological event list for one issue.
// Events are reconstructed from current data, not from an audit log, so
// status-change and assignment timestamps are best-effort inferences.
type TimelineResponse struct {
	IssueID     uuid.UUID       `json:"issueId"`
	Events      []TimelineEvent `json:"events"`
	TotalEvents int             `json:"totalEvents"`
}
