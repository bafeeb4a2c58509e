package repositories

import (
	"context"
	"fmt"
	"strings"

	"catena/internal/common"
	"catena/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, int, error)
	Finalize(ctx context.Context, id uuid.UUID, meta models.DocumentMetadata, actor uuid.UUID) error
	UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.DocumentMetadata, actor uuid.UUID) error
	SetApproval(ctx context.Context, id uuid.UUID, approved bool, actor uuid.UUID) error
	AppendThumbnail(ctx context.Context, id uuid.UUID, url string) error
	RemoveThumbnail(ctx context.Context, id uuid.UUID, url string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepo struct {
	db Database
}

func NewDocumentRepo(db Database) DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = `id, title, mime_type, size, document_type, content_type, zone, state, language,
	product, brand, model, storage_path, thumbnail_urls, status, comment, approved, approved_by, approved_at,
	created_by, last_updated_by, last_updated_at, uploaded_at, created_at, updated_at`

func scanDocument(row pgx.Row, extra ...any) (*models.Document, error) {
	var (
		d                                  models.Document
		approvedBy, createdBy, lastUpdated *uuid.UUID
	)
	dest := []any{&d.ID, &d.Title, &d.MimeType, &d.Size, &d.DocumentType, &d.ContentType, &d.Zone, &d.State,
		&d.Language, &d.Product, &d.Brand, &d.Model, &d.StoragePath, &d.ThumbnailURLs, &d.Status, &d.Comment,
		&d.Approved, &approvedBy, &d.ApprovedAt, &createdBy, &lastUpdated, &d.LastUpdatedAt, &d.UploadedAt,
		&d.CreatedAt, &d.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	d.ApprovedBy = models.NewUserRef(approvedBy)
	d.CreatedBy = models.NewUserRef(createdBy)
	d.LastUpdatedBy = models.NewUserRef(lastUpdated)
	if d.ThumbnailURLs == nil {
		d.ThumbnailURLs = []string{}
	}
	return &d, nil
}

// Create inserts a pending stub document.
func (r *documentRepo) Create(ctx context.Context, doc *models.Document) error {
	var createdBy *uuid.UUID
	if doc.CreatedBy != nil {
		createdBy = &doc.CreatedBy.ID
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO documents (id, title, mime_type, size, storage_path, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`, doc.ID, doc.Title, doc.MimeType, doc.Size, doc.StoragePath, doc.Status, createdBy)
	return err
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "Document")
	}
	return doc, nil
}

// List returns one page of documents, newest first, each flagged with whether
// the viewer starred it.
func (r *documentRepo) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "$?", fmt.Sprintf("$%d", len(args))))
	}

	if filter.DocumentType != "" {
		add("document_type = $?", filter.DocumentType)
	}
	if len(filter.Languages) > 0 {
		add("language = ANY($?)", filter.Languages)
	}
	if s := common.SanitizeSearchQuery(filter.Search); s != "" {
		add("(document_type ILIKE $? OR language ILIKE $?)", "%"+s+"%")
	}
	if filter.MyDocuments {
		add("last_updated_by = $?", filter.Viewer)
	}
	if filter.StarredOnly {
		add("EXISTS (SELECT 1 FROM starred_documents s WHERE s.document_id = documents.id AND s.user_id = $?)", filter.Viewer)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	page, limit := common.ValidatePaginationParams(filter.Page, filter.Limit)
	args = append(args, filter.Viewer, limit, (page-1)*limit)
	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s,
			EXISTS (SELECT 1 FROM starred_documents s WHERE s.document_id = documents.id AND s.user_id = $%d)
		FROM documents%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, documentColumns, n-2, where, n-1, n)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var starred bool
		doc, err := scanDocument(rows, &starred)
		if err != nil {
			return nil, 0, err
		}
		doc.IsStarred = starred
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

func (r *documentRepo) Finalize(ctx context.Context, id uuid.UUID, meta models.DocumentMetadata, actor uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET title = COALESCE(NULLIF($2, ''), title), document_type = $3, content_type = $4, zone = $5, state = $6,
			language = $7, product = $8, brand = $9, model = $10, comment = $11,
			status = 'done', uploaded_at = NOW(), last_updated_by = $12, last_updated_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, id, meta.Title, meta.DocumentType, meta.ContentType, meta.Zone, meta.State, meta.Language,
		meta.Product, meta.Brand, meta.Model, meta.Comment, actor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Document")
	}
	return nil
}

// UpdateMetadata overwrites non-empty metadata fields.
func (r *documentRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.DocumentMetadata, actor uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET title = COALESCE(NULLIF($2, ''), title),
			document_type = COALESCE(NULLIF($3, ''), document_type),
			content_type = COALESCE(NULLIF($4, ''), content_type),
			zone = COALESCE(NULLIF($5, ''), zone),
			state = COALESCE(NULLIF($6, ''), state),
			language = COALESCE(NULLIF($7, ''), language),
			product = COALESCE(NULLIF($8, ''), product),
			brand = COALESCE(NULLIF($9, ''), brand),
			model = COALESCE(NULLIF($10, ''), model),
			comment = COALESCE(NULLIF($11, ''), comment),
			last_updated_by = $12, last_updated_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, id, meta.Title, meta.DocumentType, meta.ContentType, meta.Zone, meta.State, meta.Language,
		meta.Product, meta.Brand, meta.Model, meta.Comment, actor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Document")
	}
	return nil
}

func (r *documentRepo) SetApproval(ctx context.Context, id uuid.UUID, approved bool, actor uuid.UUID) error {
	query := `
		UPDATE documents
		SET approved = TRUE, approved_by = $2, approved_at = NOW(), last_updated_by = $2, last_updated_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	if !approved {
		query = `
		UPDATE documents
		SET approved = FALSE, approved_by = NULL, approved_at = NULL, last_updated_by = $2, last_updated_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	}
	tag, err := r.db.Exec(ctx, query, id, actor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Document")
	}
	return nil
}

// AppendThumbnail adds url unless the document already holds the maximum.
// The cap is checked in the same statement as the append.
func (r *documentRepo) AppendThumbnail(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET thumbnail_urls = array_append(thumbnail_urls, $2), updated_at = NOW()
		WHERE id = $1 AND cardinality(thumbnail_urls) < $3
	`, id, url, models.MaxThumbnails)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return common.NotFound("Document")
	}
	return common.NewValidationError("Maximum %d thumbnails allowed", models.MaxThumbnails)
}

// RemoveThumbnail reports whether url was present.
func (r *documentRepo) RemoveThumbnail(ctx context.Context, id uuid.UUID, url string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET thumbnail_urls = array_remove(thumbnail_urls, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(thumbnail_urls)
	`, id, url)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Document")
	}
	return nil
}
