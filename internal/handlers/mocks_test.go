package handlers

import (
	"context"
	"io"
	"time"

	"catena/internal/models"
	"catena/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockJobService struct{ mock.Mock }

func (m *MockJobService) CreateJob(ctx context.Context, req *models.CreateJobRequest, actor uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, req, actor)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) ApproveJob(ctx context.Context, jobID string, actor uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, actor)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) UpdateJobStatus(ctx context.Context, jobID string, req *models.UpdateStatusRequest, actor uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, req, actor)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) AssignJob(ctx context.Context, jobID string, req *models.AssignJobRequest, actor uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, req, actor)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]*models.Job)
	return jobs, args.Error(1)
}

func (m *MockJobService) DeleteJob(ctx context.Context, jobID string) error {
	return m.Called(ctx, jobID).Error(0)
}

func (m *MockJobService) IssueAttachmentUploadURL(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURL, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*models.UploadURL)
	return u, args.Error(1)
}

func (m *MockJobService) IssueStatusUploadURL(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURL, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*models.UploadURL)
	return u, args.Error(1)
}

func (m *MockJobService) ListExternalUsers(ctx context.Context) ([]*models.UserSummary, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*models.UserSummary)
	return users, args.Error(1)
}

type MockDocumentService struct{ mock.Mock }

func (m *MockDocumentService) IssueUploadURL(ctx context.Context, req *models.IssueDocumentURLRequest, actor uuid.UUID) (*models.IssuedDocumentURL, error) {
	args := m.Called(ctx, req, actor)
	out, _ := args.Get(0).(*models.IssuedDocumentURL)
	return out, args.Error(1)
}

func (m *MockDocumentService) SaveDocument(ctx context.Context, req *models.SaveDocumentRequest, actor uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, req, actor)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, id string, viewer uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id, viewer)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) GetDownloadURL(ctx context.Context, id string, viewer uuid.UUID) (*models.DocumentDownload, error) {
	args := m.Called(ctx, id, viewer)
	out, _ := args.Get(0).(*models.DocumentDownload)
	return out, args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, filter models.DocumentFilter) (*models.DocumentPage, error) {
	args := m.Called(ctx, filter)
	page, _ := args.Get(0).(*models.DocumentPage)
	return page, args.Error(1)
}

func (m *MockDocumentService) UpdateDocument(ctx context.Context, id string, meta models.DocumentMetadata, actor uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id, meta, actor)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) SetApproval(ctx context.Context, id string, approved bool, actor uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id, approved, actor)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) AddThumbnail(ctx context.Context, id, fileName, contentType string, reader io.Reader, size int64, viewer uuid.UUID) (string, *models.Document, error) {
	args := m.Called(ctx, id, fileName, contentType, reader, size, viewer)
	doc, _ := args.Get(1).(*models.Document)
	return args.String(0), doc, args.Error(2)
}

func (m *MockDocumentService) DeleteThumbnail(ctx context.Context, req *models.DeleteThumbnailRequest, viewer uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, req, viewer)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDocumentService) ToggleStar(ctx context.Context, documentID string, user uuid.UUID) (*models.StarResult, error) {
	args := m.Called(ctx, documentID, user)
	out, _ := args.Get(0).(*models.StarResult)
	return out, args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*models.TokenResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*services.TokenClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *services.TokenClaims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthService) Keyfunc(token *jwt.Token) (interface{}, error) {
	args := m.Called(token)
	return args.Get(0), args.Error(1)
}

func (m *MockAuthService) TokenTTL() time.Duration { return time.Hour }

func (m *MockAuthService) Close() {}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, models.Pagination, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate, actorID uuid.UUID, actorRole string) (*models.User, error) {
	args := m.Called(ctx, id, upd, actorID, actorRole)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string, actorID uuid.UUID) error {
	return m.Called(ctx, id, newPassword, actorID).Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserService) UploadProfilePic(ctx context.Context, userID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	args := m.Called(ctx, userID, fileName, contentType, reader, size)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ProfilePicURL(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) DeleteProfilePic(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
