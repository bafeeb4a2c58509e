package services

import (
	"context"
	"io"
	"time"

	"catena/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate, actor uuid.UUID) error {
	args := m.Called(ctx, id, upd, actor)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, actor uuid.UUID) error {
	args := m.Called(ctx, id, passwordHash, actor)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfilePic(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.UserSummary, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*models.UserSummary), args.Error(1)
}

func (m *MockUserRepository) ListByType(ctx context.Context, userType string) ([]*models.UserSummary, error) {
	args := m.Called(ctx, userType)
	return args.Get(0).([]*models.UserSummary), args.Error(1)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job, created *models.HistoryEntry) error {
	args := m.Called(ctx, job, created)
	return args.Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) (*models.Job, error)); ok {
		return fn(ctx, id)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *MockJobRepository) AppendHistory(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry) error {
	args := m.Called(ctx, jobID, entry)
	return args.Error(0)
}

func (m *MockJobRepository) Approve(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry) error {
	args := m.Called(ctx, jobID, entry)
	return args.Error(0)
}

func (m *MockJobRepository) Assign(ctx context.Context, jobID, assignee uuid.UUID, entry *models.HistoryEntry) error {
	args := m.Called(ctx, jobID, assignee, entry)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepository) Finalize(ctx context.Context, id uuid.UUID, meta models.DocumentMetadata, actor uuid.UUID) error {
	args := m.Called(ctx, id, meta, actor)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.DocumentMetadata, actor uuid.UUID) error {
	args := m.Called(ctx, id, meta, actor)
	return args.Error(0)
}

func (m *MockDocumentRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool, actor uuid.UUID) error {
	args := m.Called(ctx, id, approved, actor)
	return args.Error(0)
}

func (m *MockDocumentRepository) AppendThumbnail(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockDocumentRepository) RemoveThumbnail(ctx context.Context, id uuid.UUID, url string) (bool, error) {
	args := m.Called(ctx, id, url)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStarredRepository struct {
	mock.Mock
}

func (m *MockStarredRepository) IsStarred(ctx context.Context, userID, documentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStarredRepository) Star(ctx context.Context, userID, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, documentID)
	return args.Error(0)
}

func (m *MockStarredRepository) Unstar(ctx context.Context, userID, documentID uuid.UUID) error {
	args := m.Called(ctx, userID, documentID)
	return args.Error(0)
}

type MockOrphanedBlobRepository struct {
	mock.Mock
}

func (m *MockOrphanedBlobRepository) Record(ctx context.Context, key, reason, lastError string) error {
	args := m.Called(ctx, key, reason, lastError)
	return args.Error(0)
}

func (m *MockOrphanedBlobRepository) ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.OrphanedBlob, error) {
	args := m.Called(ctx, maxAttempts, limit)
	return args.Get(0).([]*models.OrphanedBlob), args.Error(1)
}

func (m *MockOrphanedBlobRepository) MarkAttempt(ctx context.Context, key, lastError string) error {
	args := m.Called(ctx, key, lastError)
	return args.Error(0)
}

func (m *MockOrphanedBlobRepository) Resolve(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockStorageService mocks the signing and blob calls. PublicURL and
// KeyFromURL are deterministic so they are implemented directly.
type MockStorageService struct {
	mock.Mock
}

const testPublicBase = "https://storage.test/catena"

func (m *MockStorageService) PresignedPutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockStorageService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageService) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorageService) PublicURL(key string) string {
	return testPublicBase + "/" + key
}

func (m *MockStorageService) KeyFromURL(raw string) string {
	if len(raw) > len(testPublicBase) && raw[:len(testPublicBase)+1] == testPublicBase+"/" {
		return raw[len(testPublicBase)+1:]
	}
	return raw
}

func (m *MockStorageService) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ResetRateLimit(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}
