package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// logAndJSONError logs the underlying error and writes a sanitized JSON body.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// uint32Query parses a numeric query parameter. Absent or unparsable values
// fall back to def rather than failing the request.
func uint32Query(c *gin.Context, key string, def uint32) uint32 {
	s := c.Query(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return def
	}
	return uint32(v)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      System uptime
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]uint64
// @Router       /api/uptime [get]
func (h *Handler) uptime(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"uptime": h.clk.Seconds()})
}
