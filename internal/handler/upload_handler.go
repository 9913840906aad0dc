package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// UploadHandler serves stored attachments from object storage
type UploadHandler struct {
	attachments *service.AttachmentService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(attachments *service.AttachmentService) *UploadHandler {
	return &UploadHandler{attachments: attachments}
}

// GetUpload handles GET /uploads/:name by redirecting to a short-lived download URL
// @Summary Download an attachment
// @Tags uploads
// @Param name path string true "Stored file name"
// @Success 307
// @Failure 404 {object} ProblemDetails
// @Router /uploads/{name} [get]
func (h *UploadHandler) GetUpload(c echo.Context) error {
	if h.attachments == nil || !h.attachments.IsEnabled() {
		return NewServiceUnavailableError(c, "File uploads are disabled (storage not configured)")
	}

	url, err := h.attachments.URL(c.Request().Context(), pathParam(c, "name"))
	if err != nil {
		return respondError(c, err, "file")
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}
