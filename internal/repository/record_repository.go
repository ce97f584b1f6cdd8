package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/dto"
)

// VersionConflictError is returned when an optimistic concurrency check
// fails: the caller supplied an expected version that does not match the
// stored one. The record is left completely unchanged.
type VersionConflictError struct {
	Expected int
	Actual   int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: expected %d, got %d", e.Expected, e.Actual)
}

// ListParams controls pagination, equality filtering and ordering for
// record listings. Filters are applied as column = value; ordering
// defaults to created_at descending when OrderBy is empty.
type ListParams struct {
	Page    int
	Size    int
	Filters map[string]interface{}
	OrderBy string
	Desc    bool
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (p ListParams) normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// RecordRepository provides the uniform CRUD, pagination and optimistic
// concurrency operations shared by every entity kind. Entity repositories
// compose it and add their own queries on top.
type RecordRepository[T any, P interface {
	*T
	domain.Entity
}] struct {
	db *gorm.DB
}

// NewRecordRepository creates a RecordRepository for one entity kind
func NewRecordRepository[T any, P interface {
	*T
	domain.Entity
}](db *gorm.DB) *RecordRepository[T, P] {
	return &RecordRepository[T, P]{db: db}
}

// DB exposes the underlying connection for entity-specific queries
func (r *RecordRepository[T, P]) DB() *gorm.DB {
	return r.db
}

// FindByID finds a non-deleted record by ID
func (r *RecordRepository[T, P]) FindByID(ctx context.Context, id uuid.UUID) (P, error) {
	record := P(new(T))
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByIDAny finds a record by ID regardless of its soft-delete state
func (r *RecordRepository[T, P]) FindByIDAny(ctx context.Context, id uuid.UUID) (P, error) {
	record := P(new(T))
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// List returns one page of non-deleted records with pagination metadata
func (r *RecordRepository[T, P]) List(ctx context.Context, params ListParams) ([]P, dto.PaginationMeta, error) {
	params = params.normalize()

	query := r.db.WithContext(ctx).Model(P(new(T))).Where("is_deleted = ?", false)
	for field, value := range params.Filters {
		query = query.Where(fmt.Sprintf("%s = ?", field), value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	order := "created_at DESC"
	if params.OrderBy != "" {
		direction := "ASC"
		if params.Desc {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s", params.OrderBy, direction)
	}

	var records []P
	if err := query.
		Order(order).
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&records).Error; err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	return records, dto.NewPaginationMeta(params.Page, params.Size, total), nil
}

// Create inserts a new record with a fresh ID, version 1 and both
// timestamps set to now.
func (r *RecordRepository[T, P]) Create(ctx context.Context, record P) error {
	base := record.Base()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	base.Version = 1
	now := time.Now().UTC()
	base.CreatedAt = now
	base.UpdatedAt = now
	base.IsDeleted = false
	return r.db.WithContext(ctx).Create(record).Error
}

// UpdateVersioned applies field changes to a record if and only if the
// stored version equals expectedVersion, incrementing the version by 1 and
// refreshing updated_at in the same statement. The conditional UPDATE
// guarantees no partial write on a conflict. Returns
// gorm.ErrRecordNotFound when no non-deleted record exists, or a
// VersionConflictError carrying both versions.
func (r *RecordRepository[T, P]) UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (P, error) {
	updates := make(map[string]interface{}, len(fields)+2)
	for field, value := range fields {
		updates[field] = value
	}
	updates["version"] = gorm.Expr("version + ?", 1)
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(P(new(T))).
		Where("id = ? AND version = ? AND is_deleted = ?", id, expectedVersion, false).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the record is absent/deleted or the version moved on.
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &VersionConflictError{Expected: expectedVersion, Actual: current.Base().Version}
	}

	return r.FindByID(ctx, id)
}

// SoftDelete marks a non-deleted record as deleted and refreshes
// updated_at. Returns gorm.ErrRecordNotFound when the record is absent or
// already deleted.
func (r *RecordRepository[T, P]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(P(new(T))).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Restore reverses a soft delete for a currently-deleted record. Returns
// gorm.ErrRecordNotFound when the record is absent or not deleted.
func (r *RecordRepository[T, P]) Restore(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(P(new(T))).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
