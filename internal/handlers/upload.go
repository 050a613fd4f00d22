package handlers

import (
	"errors"
	"net/http"

	"device_control/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Upload a file to the public directory
// @Description  Expects multipart/form-data with a single file field.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, filename"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/upload [post]
func (h *Handler) uploadFile(c *gin.Context) {
	filename, err := h.services.Uploads.Store(c.GetHeader("Content-Type"), c.Request.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoBoundary), errors.Is(err, service.ErrNoFilename):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, "cannot store upload", "upload_failed", err)
		}
		return
	}

	if h.log != nil {
		h.log.Infow("upload_stored", "filename", filename)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filename": filename})
}
