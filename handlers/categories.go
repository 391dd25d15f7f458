package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"pos-service/internal/categories"
	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategories(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.ct.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("error listing categories", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nc categories.NewCategory
	if err := c.ShouldBindJSON(&nc); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nc); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	cat, err := h.ct.InsertCategory(c.Request.Context(), nc)
	if err != nil {
		slog.Error("error creating category", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Category creation failed"})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	var nc categories.NewCategory
	if err := c.ShouldBindJSON(&nc); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nc); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	cat, err := h.ct.UpdateCategory(c.Request.Context(), id, nc)
	if err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		slog.Error("error updating category", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Category update failed"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	if err := h.ct.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		slog.Error("error deleting category", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Category deletion failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
