package main

import (
	"github.com/labstack/echo/v4"

	"catena/internal/handlers"
	"catena/internal/middleware"
)

// registerJobRoutes mounts the job workflow under /jobs. signed-url issues
// status attachment keys and signed-url-gcs issues job attachment keys; both
// are current.
func registerJobRoutes(api *echo.Group, h *handlers.JobHandlers, mw ...echo.MiddlewareFunc) {
	jobs := api.Group("/jobs", mw...)
	jobs.GET("/external-users", h.ExternalUsers)
	jobs.GET("", h.ListJobs)
	jobs.GET("/:id", h.GetJob)
	jobs.POST("/create", h.CreateJob)
	jobs.POST("/:jobId/approve", h.ApproveJob)
	jobs.POST("/:jobId/update-status", h.UpdateJobStatus)
	jobs.POST("/:jobId/assign", h.AssignJob)
	jobs.DELETE("/:id", h.DeleteJob)
	jobs.POST("/signed-url", h.StatusUploadURL)
	jobs.POST("/signed-url-gcs", h.AttachmentUploadURL)
}

// registerDocumentRoutes mounts the Brand Treasury catalog under /upload and
// its deprecated aliases under /brand-treasury.
func registerDocumentRoutes(api *echo.Group, h *handlers.DocumentHandlers, mw ...echo.MiddlewareFunc) {
	upload := api.Group("/upload", mw...)
	upload.GET("", h.ListDocuments)
	upload.POST("/generate-signed-url", h.IssueUploadURL)
	upload.POST("/save-document", h.SaveDocument)
	upload.GET("/get-brandtreasury/:fileId", h.GetDocument)
	upload.GET("/download/:fileId", h.Download)
	upload.PUT("/update-thumbnail/:fileId", h.UploadThumbnail)
	upload.POST("/:id/approval", h.SetApproval)
	upload.DELETE("/:id", h.DeleteDocument)
	upload.POST("/delete-thumbnail", h.DeleteThumbnail)
	upload.POST("/delete-document", h.DeleteDocumentByBody)
	upload.PATCH("/star/:documentId", h.ToggleStar)

	legacy := append(append([]echo.MiddlewareFunc{}, mw...), middleware.Deprecated("/api/upload"))
	brandTreasury := api.Group("/brand-treasury", legacy...)
	brandTreasury.GET("", h.LegacyList)
	brandTreasury.GET("/:id", h.LegacyGet)
	brandTreasury.PUT("/:id", h.LegacyUpdate)
	brandTreasury.DELETE("/:id", h.DeleteDocument)
}
