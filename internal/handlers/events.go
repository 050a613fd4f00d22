package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"device_control/internal/service"

	"github.com/gin-gonic/gin"
)

// maxEventBody bounds how much of a POST /api/events body is read; anything
// longer cannot be a valid event payload.
const maxEventBody = 256

type eventRequest struct {
	GPIO  *int    `json:"gpio"`
	State *int    `json:"state"`
	Time  *uint64 `json:"time"`
}

// @Summary      List scheduled events
// @Tags         events
// @Produce      json
// @Success      200  {array}  device_control.ScheduledEvent
// @Router       /api/events [get]
func (h *Handler) listEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Scheduler.List())
}

// @Summary      Schedule a GPIO event
// @Tags         events
// @Accept       json
// @Produce      json
// @Success      200  {object}  device_control.ScheduledEvent
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      507  {object}  map[string]string
// @Router       /api/events [post]
func (h *Handler) insertEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBody+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}
	if len(body) > maxEventBody {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request entity too large"})
		return
	}

	var req eventRequest
	if err := json.Unmarshal(body, &req); err != nil || req.GPIO == nil || req.State == nil || req.Time == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must carry gpio, state and time"})
		return
	}

	ev, err := h.services.Scheduler.Insert(*req.GPIO, *req.Time, *req.State)
	if err != nil {
		if errors.Is(err, service.ErrTableFull) {
			c.JSON(http.StatusInsufficientStorage, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ev)
}

// @Summary      Delete a scheduled event
// @Tags         events
// @Param        id  path  int  true  "Event slot id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /api/events/{id} [delete]
func (h *Handler) deleteEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event id must be numeric"})
		return
	}
	if err := h.services.Scheduler.Delete(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
