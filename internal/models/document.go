package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentPending = "pending"
	DocumentDone    = "done"

	MaxThumbnails = 4
)

// Document is a Brand Treasury asset.
type Document struct {
	ID            uuid.UUID  `json:"_id"`
	Title         string     `json:"title"`
	MimeType      string     `json:"mimeType,omitempty"`
	Size          int64      `json:"size"`
	DocumentType  string     `json:"documentType,omitempty"`
	ContentType   string     `json:"contentType,omitempty"`
	Zone          string     `json:"zone,omitempty"`
	State         string     `json:"state,omitempty"`
	Language      string     `json:"language,omitempty"`
	Product       string     `json:"product,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Model         string     `json:"model,omitempty"`
	StoragePath   string     `json:"storagePath"`
	ThumbnailURLs []string   `json:"thumbnailUrls"`
	Status        string     `json:"status"`
	Comment       string     `json:"comment,omitempty"`
	Approved      bool       `json:"approved"`
	ApprovedBy    *UserRef   `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	CreatedBy     *UserRef   `json:"createdBy,omitempty"`
	LastUpdatedBy *UserRef   `json:"lastUpdatedBy,omitempty"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt,omitempty"`
	UploadedAt    *time.Time `json:"uploadedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	IsStarred bool   `json:"isStarred"`
	SignedURL string `json:"signedUrl,omitempty"`
}

// DocumentMetadata is the editable part of a document.
type DocumentMetadata struct {
	Title        string `json:"title"`
	DocumentType string `json:"documentType"`
	ContentType  string `json:"contentType"`
	Zone         string `json:"zone"`
	State        string `json:"state"`
	Language     string `json:"language"`
	Product      string `json:"product"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Comment      string `json:"comment"`
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	DocumentType string
	Languages    []string
	Search       string
	StarredOnly  bool
	MyDocuments  bool
	Viewer       uuid.UUID
	Page         int
	Limit        int
}

// DocumentPage is one page of ListDocuments.
type DocumentPage struct {
	Documents  []*Document        `json:"documents"`
	Pagination DocumentPagination `json:"pagination"`
}

type DocumentPagination struct {
	CurrentPage    int `json:"currentPage"`
	TotalPages     int `json:"totalPages"`
	TotalDocuments int `json:"totalDocuments"`
}

// IssueDocumentURLRequest is the body of POST /upload/generate-signed-url.
type IssueDocumentURLRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
	FileSize int64  `json:"fileSize" validate:"gte=0"`
	Title    string `json:"title"`
}

// IssuedDocumentURL answers IssueDocumentURLRequest.
type IssuedDocumentURL struct {
	SignedURL string    `json:"signedUrl"`
	FileID    uuid.UUID `json:"fileId"`
}

// SaveDocumentRequest is the body of POST /upload/save-document.
type SaveDocumentRequest struct {
	FileID string `json:"fileId" validate:"required"`
	DocumentMetadata
}

// DeleteThumbnailRequest is the body of POST /upload/delete-thumbnail.
type DeleteThumbnailRequest struct {
	DocumentID string `json:"documentId" validate:"required"`
	ImageURL   string `json:"imageUrl" validate:"required"`
}

// DocumentIDRequest carries a document id in the body.
type DocumentIDRequest struct {
	DocumentID string `json:"documentId" validate:"required"`
}

// ApprovalRequest is the body of POST /upload/:id/approval.
type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

// DocumentDownload answers GET /upload/download/:fileId.
type DocumentDownload struct {
	SignedURL string    `json:"signedUrl"`
	Document  *Document `json:"document"`
}

// StarResult answers PATCH /upload/star/:documentId.
type StarResult struct {
	DocumentID uuid.UUID `json:"documentId"`
	IsStarred  bool      `json:"isStarred"`
}
