package domain

// IssueStatus represents the workflow state of an issue
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusInReview   IssueStatus = "in_review"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
	IssueStatusReopened   IssueStatus = "reopened"
)

// AllIssueStatuses lists every workflow state, used for exhaustive
// validation and error messages.
var AllIssueStatuses = []IssueStatus{
	IssueStatusOpen,
	IssueStatusInProgress,
	IssueStatusInReview,
	IssueStatusResolved,
	IssueStatusClosed,
	IssueStatusReopened,
}

// Valid reports whether the status is one of the known values
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusInReview,
		IssueStatusResolved, IssueStatusClosed, IssueStatusReopened:
		return true
	}
	return false
}

// statusTransitions is the directed workflow graph over issue states:
// forward progression open -> in_progress -> in_review -> resolved -> closed,
// reopening from resolved/closed, and reopened resuming via in_progress.
// Same-state "transitions" are treated as no-ops and are always allowed;
// they are not listed here.
var statusTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusOpen:       {IssueStatusInProgress, IssueStatusClosed},
	IssueStatusInProgress: {IssueStatusInReview, IssueStatusOpen, IssueStatusClosed},
	IssueStatusInReview:   {IssueStatusResolved, IssueStatusInProgress},
	IssueStatusResolved:   {IssueStatusClosed, IssueStatusReopened},
	IssueStatusClosed:     {IssueStatusReopened},
	IssueStatusReopened:   {IssueStatusInProgress, IssueStatusClosed},
}

// CanTransition reports whether an issue may move from one status to
// another under the workflow graph.
func CanTransition(from, to IssueStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
