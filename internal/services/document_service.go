package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const thumbnailPrefix = "thumbnails/"

// DocumentService manages the Brand Treasury catalog.
type DocumentService interface {
	IssueUploadURL(ctx context.Context, req *models.IssueDocumentURLRequest, actor uuid.UUID) (*models.IssuedDocumentURL, error)
	SaveDocument(ctx context.Context, req *models.SaveDocumentRequest, actor uuid.UUID) (*models.Document, error)
	GetDocument(ctx context.Context, id string, viewer uuid.UUID) (*models.Document, error)
	GetDownloadURL(ctx context.Context, id string, viewer uuid.UUID) (*models.DocumentDownload, error)
	ListDocuments(ctx context.Context, filter models.DocumentFilter) (*models.DocumentPage, error)
	UpdateDocument(ctx context.Context, id string, meta models.DocumentMetadata, actor uuid.UUID) (*models.Document, error)
	SetApproval(ctx context.Context, id string, approved bool, actor uuid.UUID) (*models.Document, error)
	AddThumbnail(ctx context.Context, id, fileName, contentType string, reader io.Reader, size int64, viewer uuid.UUID) (string, *models.Document, error)
	DeleteThumbnail(ctx context.Context, req *models.DeleteThumbnailRequest, viewer uuid.UUID) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ToggleStar(ctx context.Context, documentID string, user uuid.UUID) (*models.StarResult, error)
}

type documentService struct {
	docRepo     repositories.DocumentRepository
	starredRepo repositories.StarredRepository
	userRepo    repositories.UserRepository
	storage     StorageService
	cleaner     *BlobCleaner
	log         *zap.Logger
}

func NewDocumentService(
	docRepo repositories.DocumentRepository,
	starredRepo repositories.StarredRepository,
	userRepo repositories.UserRepository,
	storage StorageService,
	cleaner *BlobCleaner,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		docRepo:     docRepo,
		starredRepo: starredRepo,
		userRepo:    userRepo,
		storage:     storage,
		cleaner:     cleaner,
		log:         log,
	}
}

// IssueUploadURL signs a direct upload and records a pending stub for it.
func (s *documentService) IssueUploadURL(ctx context.Context, req *models.IssueDocumentURLRequest, actor uuid.UUID) (*models.IssuedDocumentURL, error) {
	name := path.Base(strings.TrimSpace(req.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, common.FieldError("fileName", "is required")
	}
	if strings.TrimSpace(req.FileType) == "" {
		return nil, common.FieldError("fileType", "is required")
	}

	id := uuid.New()
	key := fmt.Sprintf("%s-%s", id, name)
	signed, err := s.storage.PresignedPutURL(ctx, key, req.FileType, WriteURLTTL)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = name
	}
	doc := &models.Document{
		ID:          id,
		Title:       title,
		MimeType:    req.FileType,
		Size:        req.FileSize,
		StoragePath: key,
		Status:      models.DocumentPending,
		CreatedBy:   &models.UserRef{ID: actor},
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return &models.IssuedDocumentURL{SignedURL: signed, FileID: id}, nil
}

func (s *documentService) SaveDocument(ctx context.Context, req *models.SaveDocumentRequest, actor uuid.UUID) (*models.Document, error) {
	id, err := common.ParseID(req.FileID, "fileId")
	if err != nil {
		return nil, err
	}
	required := []struct{ field, value string }{
		{"documentType", req.DocumentType},
		{"zone", req.Zone},
		{"state", req.State},
		{"language", req.Language},
	}
	for _, r := range required {
		if err := common.ValidateRequiredString(r.value, r.field); err != nil {
			return nil, err
		}
	}

	if err := s.docRepo.Finalize(ctx, id, req.DocumentMetadata, actor); err != nil {
		return nil, err
	}
	return s.load(ctx, id, actor)
}

// load reads a document with its viewer flag and resolved users.
func (s *documentService) load(ctx context.Context, id, viewer uuid.UUID) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	starred, err := s.starredRepo.IsStarred(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	doc.IsStarred = starred
	if err := s.resolveUsers(ctx, []*models.Document{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

func documentRefs(doc *models.Document) []*models.UserRef {
	return []*models.UserRef{doc.CreatedBy, doc.ApprovedBy, doc.LastUpdatedBy}
}

func (s *documentService) resolveUsers(ctx context.Context, docs []*models.Document) error {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, doc := range docs {
		for _, ref := range documentRefs(doc) {
			if ref == nil {
				continue
			}
			if _, ok := seen[ref.ID]; !ok {
				seen[ref.ID] = struct{}{}
				ids = append(ids, ref.ID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	summaries, err := s.userRepo.Summaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve users: %w", err)
	}
	for _, doc := range docs {
		for _, ref := range documentRefs(doc) {
			if ref != nil {
				ref.User = summaries[ref.ID]
			}
		}
	}
	return nil
}

func (s *documentService) GetDocument(ctx context.Context, id string, viewer uuid.UUID) (*models.Document, error) {
	docID, err := common.ParseID(id, "fileId")
	if err != nil {
		return nil, err
	}
	doc, err := s.load(ctx, docID, viewer)
	if err != nil {
		return nil, err
	}
	if doc.StoragePath != "" {
		signed, err := s.storage.PresignedGetURL(ctx, doc.StoragePath, ReadURLTTL)
		if err != nil {
			s.log.Warn("failed to sign document url", zap.String("document_id", id), zap.Error(err))
		}
		doc.SignedURL = signed
	}
	return doc, nil
}

func (s *documentService) GetDownloadURL(ctx context.Context, id string, viewer uuid.UUID) (*models.DocumentDownload, error) {
	docID, err := common.ParseID(id, "fileId")
	if err != nil {
		return nil, err
	}
	doc, err := s.load(ctx, docID, viewer)
	if err != nil {
		return nil, err
	}
	if doc.StoragePath == "" {
		return nil, common.NotFound("File")
	}
	signed, err := s.storage.PresignedGetURL(ctx, doc.StoragePath, ReadURLTTL)
	if err != nil {
		return nil, err
	}
	return &models.DocumentDownload{SignedURL: signed, Document: doc}, nil
}

func (s *documentService) ListDocuments(ctx context.Context, filter models.DocumentFilter) (*models.DocumentPage, error) {
	filter.Page, filter.Limit = common.ValidatePaginationParams(filter.Page, filter.Limit)
	filter.Search = common.SanitizeSearchQuery(filter.Search)

	docs, total, err := s.docRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	if err := s.resolveUsers(ctx, docs); err != nil {
		return nil, err
	}

	p := models.NewPagination(filter.Page, filter.Limit, total)
	return &models.DocumentPage{
		Documents: docs,
		Pagination: models.DocumentPagination{
			CurrentPage:    p.CurrentPage,
			TotalPages:     p.TotalPages,
			TotalDocuments: p.Total,
		},
	}, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, id string, meta models.DocumentMetadata, actor uuid.UUID) (*models.Document, error) {
	docID, err := common.ParseID(id, "id")
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.UpdateMetadata(ctx, docID, meta, actor); err != nil {
		return nil, err
	}
	return s.load(ctx, docID, actor)
}

func (s *documentService) SetApproval(ctx context.Context, id string, approved bool, actor uuid.UUID) (*models.Document, error) {
	docID, err := common.ParseID(id, "id")
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.SetApproval(ctx, docID, approved, actor); err != nil {
		return nil, err
	}
	return s.load(ctx, docID, actor)
}

// AddThumbnail uploads an image and appends its public URL. The count is
// checked up front to avoid a wasted upload and again atomically on append.
func (s *documentService) AddThumbnail(ctx context.Context, id, fileName, contentType string, reader io.Reader, size int64, viewer uuid.UUID) (string, *models.Document, error) {
	docID, err := common.ParseID(id, "fileId")
	if err != nil {
		return "", nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, common.FieldError("thumbnail", "must be an image")
	}

	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", nil, err
	}
	if len(doc.ThumbnailURLs) >= models.MaxThumbnails {
		return "", nil, common.NewValidationError("Maximum %d thumbnails allowed", models.MaxThumbnails)
	}

	key := fmt.Sprintf("%s%s-%s", thumbnailPrefix, uuid.NewString(), path.Base(fileName))
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return "", nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}
	publicURL := s.storage.PublicURL(key)
	if err := s.docRepo.AppendThumbnail(ctx, docID, publicURL); err != nil {
		s.cleaner.Remove(ctx, key, "thumbnail rejected")
		return "", nil, err
	}
	doc, err = s.load(ctx, docID, viewer)
	if err != nil {
		return "", nil, err
	}
	return publicURL, doc, nil
}

func (s *documentService) DeleteThumbnail(ctx context.Context, req *models.DeleteThumbnailRequest, viewer uuid.UUID) (*models.Document, error) {
	docID, err := common.ParseID(req.DocumentID, "documentId")
	if err != nil {
		return nil, err
	}
	key := s.storage.KeyFromURL(req.ImageURL)
	if !strings.HasPrefix(key, thumbnailPrefix) {
		return nil, common.FieldError("imageUrl", "is not a thumbnail url")
	}

	removed, err := s.docRepo.RemoveThumbnail(ctx, docID, s.storage.PublicURL(key))
	if err != nil {
		return nil, err
	}
	if !removed {
		if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
			return nil, err
		}
		return nil, common.NotFound("Thumbnail")
	}

	s.cleaner.Remove(ctx, key, "thumbnail deleted")
	return s.load(ctx, docID, viewer)
}

// DeleteDocument removes the document's blobs best-effort and then the row.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	docID, err := common.ParseID(id, "documentId")
	if err != nil {
		return err
	}
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	reason := "document " + doc.ID.String() + " deleted"
	s.cleaner.Remove(ctx, doc.StoragePath, reason)
	for _, thumb := range doc.ThumbnailURLs {
		s.cleaner.Remove(ctx, s.storage.KeyFromURL(thumb), reason)
	}

	if err := s.docRepo.Delete(ctx, docID); err != nil {
		return err
	}
	s.log.Info("document deleted", zap.String("document_id", doc.ID.String()))
	return nil
}

func (s *documentService) ToggleStar(ctx context.Context, documentID string, user uuid.UUID) (*models.StarResult, error) {
	docID, err := common.ParseID(documentID, "documentId")
	if err != nil {
		return nil, err
	}
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, err
	}

	starred, err := s.starredRepo.IsStarred(ctx, user, docID)
	if err != nil {
		return nil, err
	}
	if starred {
		err = s.starredRepo.Unstar(ctx, user, docID)
	} else {
		err = s.starredRepo.Star(ctx, user, docID)
	}
	if err != nil {
		return nil, err
	}
	return &models.StarResult{DocumentID: docID, IsStarred: !starred}, nil
}
