package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
	"issue-tracker-api/internal/response"
)

// translateUpdateError maps repository errors from a versioned update to
// AppErrors. Version conflicts also bump the conflict counter.
func translateUpdateError(err error, entityName string, m *metrics.Metrics) error {
	var conflict *repository.VersionConflictError
	if errors.As(err, &conflict) {
		if m != nil {
			m.IncrementVersionConflict()
		}
		return response.NewVersionConflictError(conflict.Expected, conflict.Actual)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, entityName+" not found", "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Failed to update "+strings.ToLower(entityName), err.Error())
}

// notFoundOrInternal maps a repository lookup error to NOT_FOUND or
// INTERNAL_ERROR
func notFoundOrInternal(err error, entityName string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, entityName+" not found", "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Failed to load "+strings.ToLower(entityName), err.Error())
}
