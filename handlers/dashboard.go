package handlers

import (
	"log/slog"
	"net/http"

	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardStats(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	stats, err := h.o.Stats(c.Request.Context())
	if err != nil {
		slog.Error("error computing dashboard stats", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
