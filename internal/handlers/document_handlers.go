package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/services"

	"github.com/labstack/echo/v4"
)

// DocumentHandlers serves the Brand Treasury catalog.
type DocumentHandlers struct {
	documentService services.DocumentService
}

func NewDocumentHandlers(documentService services.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{documentService: documentService}
}

type documentListResponse struct {
	Data       []*models.Document        `json:"data"`
	Pagination models.DocumentPagination `json:"pagination"`
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (h *DocumentHandlers) list(c echo.Context) (*models.DocumentPage, error) {
	viewer, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	return h.documentService.ListDocuments(c.Request().Context(), models.DocumentFilter{
		DocumentType: c.QueryParam("documentType"),
		Languages:    splitList(c.QueryParam("languages")),
		Search:       c.QueryParam("search"),
		StarredOnly:  c.QueryParam("starred") == "true",
		MyDocuments:  c.QueryParam("myDocuments") == "true",
		Viewer:       viewer.ID,
		Page:         page,
		Limit:        limit,
	})
}

// ListDocuments godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        documentType  query     string  false  "Document type"
// @Param        languages     query     string  false  "Comma separated languages"
// @Param        search        query     string  false  "Matches document type or language"
// @Param        starred       query     bool    false  "Only starred"
// @Param        myDocuments   query     bool    false  "Only documents I last updated"
// @Param        page          query     int     false  "Page"
// @Param        limit         query     int     false  "Page size"
// @Success      200           {object}  documentListResponse
// @Router       /upload [get]
func (h *DocumentHandlers) ListDocuments(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentListResponse{Data: page.Documents, Pagination: page.Pagination})
}

// IssueUploadURL godoc
// @Summary      Start a document upload
// @Description  Creates a pending document and returns a write-signed URL for its blob
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body      models.IssueDocumentURLRequest  true  "File"
// @Success      200   {object}  models.IssuedDocumentURL
// @Router       /upload/generate-signed-url [post]
func (h *DocumentHandlers) IssueUploadURL(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.IssueDocumentURLRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	issued, err := h.documentService.IssueUploadURL(c.Request().Context(), &req, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issued)
}

// SaveDocument godoc
// @Summary      Finish a document upload
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body      models.SaveDocumentRequest  true  "Metadata"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.ErrorResponse
// @Router       /upload/save-document [post]
func (h *DocumentHandlers) SaveDocument(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.SaveDocumentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	doc, err := h.documentService.SaveDocument(c.Request().Context(), &req, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Metadata saved successfully", "document": doc})
}

// GetDocument godoc
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Param        fileId  path      string  true  "Document id"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  common.ErrorResponse
// @Router       /upload/get-brandtreasury/{fileId} [get]
func (h *DocumentHandlers) GetDocument(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	doc, err := h.documentService.GetDocument(c.Request().Context(), c.Param("fileId"), viewer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "document": doc})
}

func (h *DocumentHandlers) Download(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	dl, err := h.documentService.GetDownloadURL(c.Request().Context(), c.Param("fileId"), viewer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dl)
}

// SetApproval godoc
// @Summary      Approve or unapprove a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Document id"
// @Param        body  body      models.ApprovalRequest  true  "Approval"
// @Success      200   {object}  map[string]interface{}
// @Router       /upload/{id}/approval [post]
func (h *DocumentHandlers) SetApproval(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.ApprovalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	doc, err := h.documentService.SetApproval(c.Request().Context(), c.Param("id"), req.Approved, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "document": doc})
}

// UploadThumbnail godoc
// @Summary      Add a thumbnail
// @Description  At most four thumbnails per document
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        fileId     path      string  true  "Document id"
// @Param        thumbnail  formData  file    true  "Image"
// @Success      200        {object}  map[string]string
// @Failure      400        {object}  common.ErrorResponse
// @Router       /upload/update-thumbnail/{fileId} [put]
func (h *DocumentHandlers) UploadThumbnail(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("thumbnail")
	if err != nil {
		return common.FieldError("thumbnail", "is required")
	}
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, _, err := h.documentService.AddThumbnail(c.Request().Context(), c.Param("fileId"),
		fh.Filename, fh.Header.Get(echo.HeaderContentType), file, fh.Size, viewer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":      "Thumbnail uploaded successfully",
		"thumbnailUrl": url,
	})
}

func (h *DocumentHandlers) DeleteThumbnail(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.DeleteThumbnailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	doc, err := h.documentService.DeleteThumbnail(c.Request().Context(), &req, viewer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Thumbnail deleted successfully",
		"thumbnails": doc.ThumbnailURLs,
	})
}

// DeleteDocumentByBody handles POST /upload/delete-document.
func (h *DocumentHandlers) DeleteDocumentByBody(c echo.Context) error {
	var req models.DocumentIDRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.documentService.DeleteDocument(c.Request().Context(), req.DocumentID); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Document deleted successfully")
}

func (h *DocumentHandlers) DeleteDocument(c echo.Context) error {
	if err := h.documentService.DeleteDocument(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Record deleted successfully")
}

// ToggleStar godoc
// @Summary      Star or unstar a document
// @Tags         documents
// @Produce      json
// @Param        documentId  path      string  true  "Document id"
// @Success      200         {object}  map[string]interface{}
// @Failure      404         {object}  common.ErrorResponse
// @Router       /upload/star/{documentId} [patch]
func (h *DocumentHandlers) ToggleStar(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.documentService.ToggleStar(c.Request().Context(), c.Param("documentId"), user.ID)
	if err != nil {
		return err
	}
	text := "Document unstarred successfully"
	if res.IsStarred {
		text = "Document starred successfully"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": text, "isStarred": res.IsStarred})
}

// The /brand-treasury routes predate /upload and answer in {success, data}.

func (h *DocumentHandlers) LegacyList(c echo.Context) error {
	page, err := h.list(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": page.Documents})
}

func (h *DocumentHandlers) LegacyGet(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	doc, err := h.documentService.GetDocument(c.Request().Context(), c.Param("id"), viewer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": doc})
}

func (h *DocumentHandlers) LegacyUpdate(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var meta models.DocumentMetadata
	if err := c.Bind(&meta); err != nil {
		return common.NewValidationError("invalid request body")
	}
	doc, err := h.documentService.UpdateDocument(c.Request().Context(), c.Param("id"), meta, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": doc})
}
