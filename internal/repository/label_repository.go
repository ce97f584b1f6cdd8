package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// LabelRepository defines the interface for label data access, including
// the issue-label assignment rows
type LabelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	FindByIDAny(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	FindByName(ctx context.Context, name string, excludeID uuid.UUID) (*domain.Label, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Label, error)
	List(ctx context.Context, params ListParams) ([]*domain.Label, dto.PaginationMeta, error)
	Create(ctx context.Context, label *domain.Label) error
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (*domain.Label, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error

	FindAssignment(ctx context.Context, issueID, labelID uuid.UUID) (*domain.IssueLabel, error)
	AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error
	RemoveLabel(ctx context.Context, issueID, labelID uuid.UUID) (bool, error)
	ReplaceIssueLabels(ctx context.Context, issueID uuid.UUID, labelIDs []uuid.UUID) error
	FindLabelsByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Label, error)
	FindAssignmentsByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.IssueLabel, error)
	RemoveAssignmentsForLabel(ctx context.Context, labelID uuid.UUID) error
}

// labelRepositoryImpl is the GORM implementation of LabelRepository
type labelRepositoryImpl struct {
	*RecordRepository[domain.Label, *domain.Label]
}

// NewLabelRepository creates a new instance of LabelRepository
func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepositoryImpl{
		RecordRepository: NewRecordRepository[domain.Label, *domain.Label](db),
	}
}

// FindByName finds a non-deleted label by name, excluding the given ID
// (uuid.Nil to exclude nothing). Label names are unique across all
// projects, not per project.
func (r *labelRepositoryImpl) FindByName(ctx context.Context, name string, excludeID uuid.UUID) (*domain.Label, error) {
	var label domain.Label
	query := r.DB().WithContext(ctx).
		Where("name = ? AND is_deleted = ?", name, false)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// FindByIDs finds non-deleted labels by their IDs
func (r *labelRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Label, error) {
	if len(ids) == 0 {
		return []*domain.Label{}, nil
	}
	var labels []*domain.Label
	if err := r.DB().WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// FindAssignment finds the assignment row linking an issue and a label
func (r *labelRepositoryImpl) FindAssignment(ctx context.Context, issueID, labelID uuid.UUID) (*domain.IssueLabel, error) {
	var assignment domain.IssueLabel
	if err := r.DB().WithContext(ctx).
		Where("issue_id = ? AND label_id = ?", issueID, labelID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// AssignLabel attaches a label to an issue. Callers check for an existing
// assignment first; the unique index backs that check up at the database.
func (r *labelRepositoryImpl) AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	assignment := &domain.IssueLabel{
		ID:        uuid.New(),
		IssueID:   issueID,
		LabelID:   labelID,
		CreatedAt: time.Now().UTC(),
	}
	return r.DB().WithContext(ctx).Create(assignment).Error
}

// RemoveLabel detaches a label from an issue. Returns false when no
// assignment existed.
func (r *labelRepositoryImpl) RemoveLabel(ctx context.Context, issueID, labelID uuid.UUID) (bool, error) {
	result := r.DB().WithContext(ctx).
		Where("issue_id = ? AND label_id = ?", issueID, labelID).
		Delete(&domain.IssueLabel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReplaceIssueLabels swaps an issue's entire label set in one transaction:
// every existing assignment is removed and the new set inserted. Readers
// see either the old set or the new set, never a mixture.
func (r *labelRepositoryImpl) ReplaceIssueLabels(ctx context.Context, issueID uuid.UUID, labelIDs []uuid.UUID) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", issueID).
			Delete(&domain.IssueLabel{}).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, labelID := range labelIDs {
			assignment := &domain.IssueLabel{
				ID:        uuid.New(),
				IssueID:   issueID,
				LabelID:   labelID,
				CreatedAt: now,
			}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindLabelsByIssue returns an issue's non-deleted labels in alphabetical
// order
func (r *labelRepositoryImpl) FindLabelsByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Label, error) {
	var labels []*domain.Label
	if err := r.DB().WithContext(ctx).
		Model(&domain.Label{}).
		Joins("JOIN issue_labels ON issue_labels.label_id = labels.id").
		Where("issue_labels.issue_id = ? AND labels.is_deleted = ?", issueID, false).
		Order("labels.name ASC").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// FindAssignmentsByIssue returns an issue's assignment rows oldest first,
// preserving when each label was attached
func (r *labelRepositoryImpl) FindAssignmentsByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.IssueLabel, error) {
	var assignments []*domain.IssueLabel
	if err := r.DB().WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// RemoveAssignmentsForLabel deletes every assignment of a label. Called
// when the label itself is deleted so issues stop listing it.
func (r *labelRepositoryImpl) RemoveAssignmentsForLabel(ctx context.Context, labelID uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Where("label_id = ?", labelID).
		Delete(&domain.IssueLabel{}).Error
}
