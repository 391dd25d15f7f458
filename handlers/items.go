package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"pos-service/internal/items"
	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func (h *Handler) ListItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	filter := items.Filter{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
	}
	list, err := h.it.ListItems(c.Request.Context(), filter)
	if err != nil {
		slog.Error("error listing items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *Handler) GetItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	item, err := h.it.GetItemByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, items.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error fetching item", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ItemID, id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var ni items.NewItem
	if err := c.ShouldBindJSON(&ni); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(ni); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			vErr := vErrs[0]
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			switch vErr.Tag() {
			case "required":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
			case "min":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
			default:
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
			}
			return
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	item, err := h.it.InsertItem(c.Request.Context(), ni)
	if err != nil {
		slog.Error("error inserting item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Item creation failed"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	var ni items.NewItem
	if err := c.ShouldBindJSON(&ni); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if err := h.validate.Struct(ni); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item payload"})
		return
	}

	item, err := h.it.UpdateItem(c.Request.Context(), id, ni)
	if err != nil {
		if errors.Is(err, items.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error updating item", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ItemID, id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Item update failed"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	if err := h.it.DeleteItem(c.Request.Context(), id); err != nil {
		if errors.Is(err, items.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error deleting item", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ItemID, id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Item deletion failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
