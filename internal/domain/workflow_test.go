package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// allowedTransitions enumerates every legal from->to pair, excluding
// same-state no-ops which are always allowed.
var allowedTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusOpen:       {IssueStatusInProgress, IssueStatusClosed},
	IssueStatusInProgress: {IssueStatusInReview, IssueStatusOpen, IssueStatusClosed},
	IssueStatusInReview:   {IssueStatusResolved, IssueStatusInProgress},
	IssueStatusResolved:   {IssueStatusClosed, IssueStatusReopened},
	IssueStatusClosed:     {IssueStatusReopened},
	IssueStatusReopened:   {IssueStatusInProgress, IssueStatusClosed},
}

func TestCanTransition_ExhaustiveTable(t *testing.T) {
	for _, from := range AllIssueStatuses {
		for _, to := range AllIssueStatuses {
			expected := from == to
			for _, next := range allowedTransitions[from] {
				if next == to {
					expected = true
				}
			}
			assert.Equal(t, expected, CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(IssueStatus("bogus"), IssueStatusOpen))
	assert.False(t, CanTransition(IssueStatusOpen, IssueStatus("bogus")))
}

func TestIssueStatus_Valid(t *testing.T) {
	for _, status := range AllIssueStatuses {
		assert.True(t, status.Valid(), "status %s should be valid", status)
	}
	assert.False(t, IssueStatus("").Valid())
	assert.False(t, IssueStatus("deleted").Valid())
}

// Same-state transitions are always allowed for any known status
func TestProperty_SameStateTransitionAlwaysAllowed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same-state transition is a no-op", prop.ForAll(
		func(idx int) bool {
			status := AllIssueStatuses[idx%len(AllIssueStatuses)]
			return CanTransition(status, status)
		},
		gen.IntRange(0, len(AllIssueStatuses)-1),
	))

	properties.Property("closed only reopens", prop.ForAll(
		func(idx int) bool {
			to := AllIssueStatuses[idx%len(AllIssueStatuses)]
			allowed := CanTransition(IssueStatusClosed, to)
			return allowed == (to == IssueStatusClosed || to == IssueStatusReopened)
		},
		gen.IntRange(0, len(AllIssueStatuses)-1),
	))

	properties.TestingRun(t)
}
