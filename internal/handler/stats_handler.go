package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetStats returns the caller's headline dashboard numbers.
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.stats.Overview(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the caller's latest resolved log rows.
func (h *Handlers) GetRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	logs, err := h.stats.RecentLogs(userID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
