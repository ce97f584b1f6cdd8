package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
)

func newTimelineService(d *serviceDeps) TimelineService {
	return NewTimelineService(d.issueRepo, d.commentRepo, d.labelRepo, d.userRepo, d.logger)
}

func TestTimelineService_GetTimeline(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newTimelineService(d)
	user := d.createUser(t, "timeline@example.com")
	project := d.createProject(t, "Timeline", user.ID)
	ctx := ctxWithUser(user.ID)

	issueSvc := newIssueService(d)
	created, err := issueSvc.CreateIssue(ctx, &dto.CreateIssueRequest{
		Title:     "Full history",
		ProjectID: project.ID,
	})
	require.NoError(t, err)

	commentSvc := newCommentService(d)
	_, err = commentSvc.CreateComment(ctx, &dto.CreateCommentRequest{
		IssueID: created.ID,
		Content: "Taking a look",
	})
	require.NoError(t, err)

	labelSvc := newLabelService(d)
	label, err := labelSvc.CreateLabel(ctx, &dto.CreateLabelRequest{Name: "bug"})
	require.NoError(t, err)
	require.NoError(t, labelSvc.AssignLabel(ctx, created.ID, label.ID))

	timeline, err := svc.GetTimeline(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, timeline.IssueID)
	assert.Equal(t, len(timeline.Events), timeline.TotalEvents)
	require.NotEmpty(t, timeline.Events)

	assert.Equal(t, "issue_created", timeline.Events[0].EventType, "creation is always the first event")

	types := make(map[string]int)
	for _, event := range timeline.Events {
		types[event.EventType]++
	}
	assert.Equal(t, 1, types["comment_added"])
	assert.Equal(t, 1, types["label_added"])

	// Chronological ordering
	for i := 1; i < len(timeline.Events); i++ {
		prev, next := timeline.Events[i-1].Timestamp, timeline.Events[i].Timestamp
		assert.False(t, next.Before(prev), "events must be in chronological order")
	}
}

func TestTimelineService_ResolvedAndClosedEvents(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newTimelineService(d)
	user := d.createUser(t, "closer@example.com")
	project := d.createProject(t, "Closing", user.ID)
	ctx := context.Background()

	issue := d.createIssue(t, project.ID, "Finished", domain.IssueStatusClosed)
	now := time.Now().UTC()
	require.NoError(t, d.db.Model(&domain.Issue{}).
		Where("id = ?", issue.ID).
		Updates(map[string]interface{}{
			"resolved_at": now.Add(-2 * time.Hour),
			"closed_at":   now.Add(-1 * time.Hour),
		}).Error)

	timeline, err := svc.GetTimeline(ctx, issue.ID)
	require.NoError(t, err)

	types := make(map[string]int)
	for _, event := range timeline.Events {
		types[event.EventType]++
	}
	assert.Equal(t, 1, types["resolved"])
	assert.Equal(t, 1, types["closed"])
}

func TestTimelineService_IntermediateStatusEvent(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newTimelineService(d)
	user := d.createUser(t, "reviewer@example.com")
	project := d.createProject(t, "Reviewing", user.ID)
	ctx := context.Background()

	issue := d.createIssue(t, project.ID, "Under review", domain.IssueStatusInReview)

	timeline, err := svc.GetTimeline(ctx, issue.ID)
	require.NoError(t, err)

	var statusEvents []dto.TimelineEvent
	for _, event := range timeline.Events {
		if event.EventType == "status_changed" {
			statusEvents = append(statusEvents, event)
		}
	}
	require.Len(t, statusEvents, 1, "statuses without their own timestamp still get one event")
	assert.Equal(t, "in_review", statusEvents[0].Metadata["status"])

	t.Run("open issues have no status event", func(t *testing.T) {
		fresh := d.createIssue(t, project.ID, "Untouched", domain.IssueStatusOpen)
		timeline, err := svc.GetTimeline(ctx, fresh.ID)
		require.NoError(t, err)
		for _, event := range timeline.Events {
			assert.NotEqual(t, "status_changed", event.EventType)
		}
	})
}

func TestTimelineService_UnknownIssue(t *testing.T) {
	d := setupServiceDeps(t)
	svc := newTimelineService(d)

	_, err := svc.GetTimeline(context.Background(), uuid.New())
	assertAppErrorCode(t, err, response.ErrCodeNotFound)
}
