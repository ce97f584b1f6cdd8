package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// ImportService handles bulk issue creation from CSV files
type ImportService interface {
	ImportIssuesCSV(ctx context.Context, r io.Reader) (*dto.CSVImportResponse, error)
}

// importServiceImpl is the implementation of ImportService
type importServiceImpl struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewImportService creates a new instance of ImportService
func NewImportService(
	issueRepo repository.IssueRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) ImportService {
	return &importServiceImpl{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		metrics:     m,
		logger:      logger,
	}
}

// importRow is one parsed, validated CSV row awaiting insertion
type importRow struct {
	rowNumber int
	issue     *domain.Issue
}

// ImportIssuesCSV imports issues from a CSV stream in two phases. Phase
// one parses and validates every row, collecting errors by row number
// (the header is line 1). Phase two runs only when phase one found no
// errors: it inserts the rows inside one transaction, re-validating
// references right before each insert; rows that fail the re-check are
// reported while the rest still commit.
func (s *importServiceImpl) ImportIssuesCSV(ctx context.Context, r io.Reader) (*dto.CSVImportResponse, error) {
	var creatorID *uuid.UUID
	if callerID, ok := domain.UserIDFromContext(ctx); ok {
		if _, err := s.userRepo.FindActiveByID(ctx, callerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeReferential, "Creator not found or inactive", callerID.String())
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify creator", err.Error())
		}
		creatorID = &callerID
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "CSV file is empty or unreadable", "")
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "project_id"} {
		if _, ok := columns[required]; !ok {
			return nil, response.NewAppError(response.ErrCodeValidation,
				"CSV header is missing required column: "+required, "")
		}
	}

	var (
		rows      []importRow
		rowErrors []dto.ImportRowError
		totalRows int
	)

	// Seen titles per project within this file, to catch in-file duplicates
	seenTitles := map[string]int{}

	// Caches so repeated project/assignee references hit the database once
	projectCache := map[uuid.UUID]*domain.Project{}
	assigneeCache := map[uuid.UUID]bool{}

	lineNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNumber++
		totalRows++
		if err != nil {
			rowErrors = append(rowErrors, dto.ImportRowError{
				RowNumber: lineNumber,
				Error:     "Malformed CSV row: " + err.Error(),
			})
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		rawData := map[string]string{
			"title":       field("title"),
			"description": field("description"),
			"type":        field("type"),
			"priority":    field("priority"),
			"status":      field("status"),
			"project_id":  field("project_id"),
			"assignee_id": field("assignee_id"),
		}
		fail := func(fieldName, value, message string) {
			rowErrors = append(rowErrors, dto.ImportRowError{
				RowNumber: lineNumber,
				Field:     fieldName,
				Value:     value,
				Error:     message,
				RawData:   rawData,
			})
		}

		title := field("title")
		if title == "" {
			fail("title", "", "Title is required")
			continue
		}

		issueType := domain.IssueType(field("type"))
		if field("type") == "" {
			issueType = domain.IssueTypeTask
		}
		if !issueType.Valid() {
			fail("type", field("type"), "Invalid issue type")
			continue
		}

		priority := domain.IssuePriority(field("priority"))
		if field("priority") == "" {
			priority = domain.IssuePriorityMedium
		}
		if !priority.Valid() {
			fail("priority", field("priority"), "Invalid priority")
			continue
		}

		status := domain.IssueStatus(strings.ToLower(field("status")))
		if field("status") == "" {
			status = domain.IssueStatusOpen
		}
		if !status.Valid() {
			fail("status", field("status"), "Invalid status")
			continue
		}

		projectID, err := uuid.Parse(field("project_id"))
		if err != nil {
			fail("project_id", field("project_id"), "Invalid project ID")
			continue
		}
		project, cached := projectCache[projectID]
		if !cached {
			project, err = s.projectRepo.FindByID(ctx, projectID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify project", err.Error())
				}
				project = nil
			}
			projectCache[projectID] = project
		}
		if project == nil {
			fail("project_id", projectID.String(), "Project not found")
			continue
		}
		if !project.CanAddIssues() {
			fail("project_id", projectID.String(), "Project does not accept new issues")
			continue
		}

		var assigneeID *uuid.UUID
		if raw := field("assignee_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				fail("assignee_id", raw, "Invalid assignee ID")
				continue
			}
			active, cached := assigneeCache[id]
			if !cached {
				_, err := s.userRepo.FindActiveByID(ctx, id)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify assignee", err.Error())
				}
				active = err == nil
				assigneeCache[id] = active
			}
			if !active {
				fail("assignee_id", id.String(), "Assignee not found or inactive")
				continue
			}
			assigneeID = &id
		}

		// Duplicate titles, both within the file and against the project
		titleKey := projectID.String() + "\x00" + title
		if firstLine, dup := seenTitles[titleKey]; dup {
			fail("title", title, fmt.Sprintf("Duplicate title within file (first seen on row %d)", firstLine))
			continue
		}
		if _, err := s.issueRepo.FindByTitleInProject(ctx, title, projectID, uuid.Nil); err == nil {
			fail("title", title, "Issue title already exists in this project")
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check title uniqueness", err.Error())
		}
		seenTitles[titleKey] = lineNumber

		rows = append(rows, importRow{
			rowNumber: lineNumber,
			issue: &domain.Issue{
				Title:       title,
				Description: field("description"),
				Status:      status,
				Type:        issueType,
				Priority:    priority,
				ProjectID:   projectID,
				CreatorID:   creatorID,
				AssigneeID:  assigneeID,
			},
		})
	}

	// Phase two only runs on a clean phase one; a single bad row keeps
	// the whole file out of the database
	var created []*domain.Issue
	if len(rows) > 0 && len(rowErrors) == 0 {
		issues := make([]*domain.Issue, len(rows))
		for i, row := range rows {
			issues[i] = row.issue
		}
		var failures []repository.ImportRowFailure
		created, failures, err = s.issueRepo.ImportIssues(ctx, issues)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to import issues", err.Error())
		}
		for _, f := range failures {
			rowErrors = append(rowErrors, dto.ImportRowError{
				RowNumber: rows[f.Index].rowNumber,
				Field:     f.Field,
				Value:     f.Value,
				Error:     f.Reason,
			})
		}
	}

	s.metrics.RecordImportRows(len(created), len(rowErrors))
	s.logger.Info("CSV import finished",
		zap.Int("total_rows", totalRows),
		zap.Int("created", len(created)),
		zap.Int("failed", len(rowErrors)),
	)

	if rowErrors == nil {
		rowErrors = []dto.ImportRowError{}
	}
	return &dto.CSVImportResponse{
		CreatedCount: len(created),
		FailedCount:  len(rowErrors),
		TotalRows:    totalRows,
		Errors:       rowErrors,
		Message:      fmt.Sprintf("Imported %d issues, %d failed", len(created), len(rowErrors)),
	}, nil
}
