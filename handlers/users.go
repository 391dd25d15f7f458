package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"pos-service/internal/users"
	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.u.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("error listing users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *Handler) CreateUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nu users.NewUser
	if err := c.ShouldBindJSON(&nu); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nu); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Username, email, password and role must be valid"})
		return
	}

	user, err := h.u.InsertUser(c.Request.Context(), nu)
	if err != nil {
		slog.Error("error creating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User creation failed"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	var uu users.UpdateUser
	if err := c.ShouldBindJSON(&uu); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(uu); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Username, email and role must be valid"})
		return
	}

	user, err := h.u.UpdateUser(c.Request.Context(), id, uu)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("error updating user", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.UserID, id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User update failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	if err := h.u.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("error deleting user", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.UserID, id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User deletion failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
