package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"issue-tracker-api/internal/database"
	"issue-tracker-api/internal/domain"
	"issue-tracker-api/internal/metrics"
	"issue-tracker-api/internal/repository"
)

// serviceDeps bundles the sqlite-backed repositories shared by the
// service tests
type serviceDeps struct {
	db             *gorm.DB
	metrics        *metrics.Metrics
	logger         *zap.Logger
	userRepo       repository.UserRepository
	projectRepo    repository.ProjectRepository
	issueRepo      repository.IssueRepository
	commentRepo    repository.CommentRepository
	labelRepo      repository.LabelRepository
	attachmentRepo repository.AttachmentRepository
}

func setupServiceDeps(t *testing.T) *serviceDeps {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return &serviceDeps{
		db:             db,
		metrics:        metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		logger:         zap.NewNop(),
		userRepo:       repository.NewUserRepository(db),
		projectRepo:    repository.NewProjectRepository(db),
		issueRepo:      repository.NewIssueRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		labelRepo:      repository.NewLabelRepository(db),
		attachmentRepo: repository.NewAttachmentRepository(db),
	}
}

func (d *serviceDeps) createUser(t *testing.T, email string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         domain.UserRoleDeveloper,
		IsActive:     true,
	}
	require.NoError(t, d.userRepo.Create(context.Background(), user))
	return user
}

func (d *serviceDeps) createProject(t *testing.T, name string, ownerID uuid.UUID) *domain.Project {
	t.Helper()
	project := &domain.Project{
		Name:    name,
		Status:  domain.ProjectStatusActive,
		OwnerID: &ownerID,
	}
	require.NoError(t, d.projectRepo.Create(context.Background(), project))
	return project
}

func (d *serviceDeps) createIssue(t *testing.T, projectID uuid.UUID, title string, status domain.IssueStatus) *domain.Issue {
	t.Helper()
	issue := &domain.Issue{
		Title:     title,
		Status:    status,
		Type:      domain.IssueTypeTask,
		Priority:  domain.IssuePriorityMedium,
		ProjectID: projectID,
	}
	require.NoError(t, d.issueRepo.Create(context.Background(), issue))
	return issue
}

// ctxWithUser mirrors what the auth middleware puts on the request context
func ctxWithUser(userID uuid.UUID) context.Context {
	return domain.WithUserID(context.Background(), userID)
}
