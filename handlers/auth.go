package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/users"
	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

func (h *Handler) Login(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var login users.Login
	if err := c.ShouldBindJSON(&login); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(login); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email and password must be valid"})
		return
	}

	user, err := h.u.Authenticate(c.Request.Context(), login.Email, login.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			slog.Error("invalid credentials", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		slog.Error("error authenticating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	now := time.Now().UTC()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    "pos-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Role: user.Role,
	}
	token, err := h.a.GenerateToken(claims)
	if err != nil {
		slog.Error("error generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	slog.Info("user logged in", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, user.ID))
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// RegisterDemo seeds an admin and a cashier account so a fresh deployment
// can be explored without manual user creation. Existing accounts are left
// untouched.
func (h *Handler) RegisterDemo(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	demoUsers := []users.NewUser{
		{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: auth.RoleAdmin},
		{Username: "cashier", Email: "cashier@example.com", Password: "cashier123", Role: auth.RoleCashier},
	}

	created := make([]string, 0, len(demoUsers))
	for _, nu := range demoUsers {
		user, err := h.u.InsertUser(c.Request.Context(), nu)
		if err != nil {
			// Duplicate seeding is expected on repeat calls; log and move on.
			slog.Warn("demo user not created", slog.String(logkey.TraceID, traceId),
				slog.String("Username", nu.Username), slog.String(logkey.ERROR, err.Error()))
			continue
		}
		created = append(created, user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Demo users created",
		"user_ids": created,
	})
}
