package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// TimelineService reconstructs an issue's history from current data.
// There is no audit log; events are synthesized from creation timestamps,
// comment threads, label assignments and resolution stamps, so the
// timeline is best-effort rather than a verbatim record.
type TimelineService interface {
	GetTimeline(ctx context.Context, issueID uuid.UUID) (*dto.TimelineResponse, error)
}

// timelineServiceImpl is the implementation of TimelineService
type timelineServiceImpl struct {
	issueRepo   repository.IssueRepository
	commentRepo repository.CommentRepository
	labelRepo   repository.LabelRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewTimelineService creates a new instance of TimelineService
func NewTimelineService(
	issueRepo repository.IssueRepository,
	commentRepo repository.CommentRepository,
	labelRepo repository.LabelRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) TimelineService {
	return &timelineServiceImpl{
		issueRepo:   issueRepo,
		commentRepo: commentRepo,
		labelRepo:   labelRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// GetTimeline returns the chronological event list for one issue
func (s *timelineServiceImpl) GetTimeline(ctx context.Context, issueID uuid.UUID) (*dto.TimelineResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, notFoundOrInternal(err, "Issue")
	}

	var events []dto.TimelineEvent
	names := map[uuid.UUID]string{}

	events = append(events, dto.TimelineEvent{
		ID:        fmt.Sprintf("created-%s", issue.ID),
		EventType: "issue_created",
		Timestamp: issue.CreatedAt,
		ActorID:   issue.CreatorID,
		ActorName: s.resolveName(ctx, names, issue.CreatorID),
		Details:   "Issue created",
		Metadata: map[string]string{
			"type":     string(issue.Type),
			"priority": string(issue.Priority),
		},
	})

	comments, err := s.commentRepo.FindAllByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}
	for _, c := range comments {
		events = append(events, dto.TimelineEvent{
			ID:        fmt.Sprintf("comment-%s", c.ID),
			EventType: "comment_added",
			Timestamp: c.CreatedAt,
			ActorID:   c.AuthorID,
			ActorName: s.resolveName(ctx, names, c.AuthorID),
			Details:   "Comment added",
		})
	}

	assignments, err := s.labelRepo.FindAssignmentsByIssue(ctx, issueID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load label assignments", err.Error())
	}
	if len(assignments) > 0 {
		labelIDs := make([]uuid.UUID, len(assignments))
		for i, a := range assignments {
			labelIDs[i] = a.LabelID
		}
		labels, err := s.labelRepo.FindByIDs(ctx, labelIDs)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load labels", err.Error())
		}
		labelNames := make(map[uuid.UUID]string, len(labels))
		for _, l := range labels {
			labelNames[l.ID] = l.Name
		}
		for _, a := range assignments {
			name, ok := labelNames[a.LabelID]
			if !ok {
				// Label was deleted since it was attached
				continue
			}
			events = append(events, dto.TimelineEvent{
				ID:        fmt.Sprintf("label-%s", a.ID),
				EventType: "label_added",
				Timestamp: a.CreatedAt,
				Details:   "Label attached: " + name,
				Metadata:  map[string]string{"label": name},
			})
		}
	}

	if issue.AssigneeID != nil {
		events = append(events, dto.TimelineEvent{
			ID:        fmt.Sprintf("assigned-%s", issue.ID),
			EventType: "assigned",
			Timestamp: issue.UpdatedAt,
			ActorID:   issue.AssigneeID,
			ActorName: s.resolveName(ctx, names, issue.AssigneeID),
			Details:   "Assigned to " + s.resolveName(ctx, names, issue.AssigneeID),
		})
	}
	// Statuses without their own timestamp column still get one inferred
	// status-change event; resolved and closed carry exact stamps below
	switch issue.Status {
	case domain.IssueStatusInProgress, domain.IssueStatusInReview, domain.IssueStatusReopened:
		events = append(events, dto.TimelineEvent{
			ID:        fmt.Sprintf("status-%s", issue.ID),
			EventType: "status_changed",
			Timestamp: issue.UpdatedAt,
			Details:   "Status changed to " + string(issue.Status),
			Metadata:  map[string]string{"status": string(issue.Status)},
		})
	}
	if issue.ResolvedAt != nil {
		events = append(events, dto.TimelineEvent{
			ID:        fmt.Sprintf("resolved-%s", issue.ID),
			EventType: "resolved",
			Timestamp: *issue.ResolvedAt,
			Details:   "Issue resolved",
		})
	}
	if issue.ClosedAt != nil {
		events = append(events, dto.TimelineEvent{
			ID:        fmt.Sprintf("closed-%s", issue.ID),
			EventType: "closed",
			Timestamp: *issue.ClosedAt,
			Details:   "Issue closed",
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return &dto.TimelineResponse{
		IssueID:     issueID,
		Events:      events,
		TotalEvents: len(events),
	}, nil
}

// resolveName looks up a user's display name, caching within one request
func (s *timelineServiceImpl) resolveName(ctx context.Context, cache map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	if name, ok := cache[*id]; ok {
		return name
	}
	user, err := s.userRepo.FindByIDAny(ctx, *id)
	if err != nil {
		cache[*id] = ""
		return ""
	}
	cache[*id] = user.FullName
	return user.FullName
}
