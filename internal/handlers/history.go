package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

type historyRequest struct {
	User  *uint32 `json:"user"`
	State *uint8  `json:"state"`
}

// @Summary      Query access history
// @Description  Returns records with start <= epochtime <= end. Absent or
// @Description  unparsable bounds default to the full range.
// @Tags         history
// @Produce      json
// @Param        start  query  int  false  "Range start (epoch seconds)"
// @Param        end    query  int  false  "Range end (epoch seconds)"
// @Success      200  {array}  device_control.HistoryRecord
// @Failure      500  {object}  map[string]string
// @Router       /api/history [get]
func (h *Handler) listHistory(c *gin.Context) {
	start := uint32Query(c, "start", 0)
	end := uint32Query(c, "end", math.MaxUint32)

	records, err := h.services.History.List(start, end)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to read history", "history_list_failed", err, "start", start, "end", end)
		return
	}
	c.JSON(http.StatusOK, records)
}

// @Summary      Record an access event
// @Tags         history
// @Accept       json
// @Produce      json
// @Success      200  {object}  device_control.HistoryRecord
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/history [post]
func (h *Handler) appendHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.User == nil || req.State == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must carry user and state"})
		return
	}

	rec, err := h.services.History.Append(*req.User, *req.State)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to record history", "history_append_failed", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
