package handlers

import (
	"errors"
	"net/http"

	"device_control/internal/repository"

	"github.com/gin-gonic/gin"
)

// @Summary      List public files
// @Tags         files
// @Produce      json
// @Success      200  {array}  device_control.FileInfo
// @Failure      500  {object}  map[string]string
// @Router       /api/fs/list [get]
// @Security     BearerAuth
func (h *Handler) listFiles(c *gin.Context) {
	files, err := h.services.Files.List()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "cannot read public directory", "fs_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// @Summary      Delete a public file
// @Tags         files
// @Param        name  path  string  true  "File name"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/fs/file/{name} [delete]
// @Security     BearerAuth
func (h *Handler) deleteFile(c *gin.Context) {
	name := c.Param("name")
	if err := h.services.Files.Remove(name); err != nil {
		switch {
		case errors.Is(err, repository.ErrBadName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, "cannot delete file", "fs_delete_failed", err, "name", name)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Storage usage of the public directory
// @Tags         files
// @Produce      json
// @Success      200  {object}  device_control.FSUsage
// @Failure      500  {object}  map[string]string
// @Router       /api/fs/usage [get]
// @Security     BearerAuth
func (h *Handler) fsUsage(c *gin.Context) {
	usage, err := h.services.Files.Usage()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "cannot compute usage", "fs_usage_failed", err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
