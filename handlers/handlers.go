package handlers

import (
	"fmt"
	"net/http"
	"os"

	"pos-service/internal/auth"
	"pos-service/internal/cart"
	"pos-service/internal/categories"
	"pos-service/internal/items"
	"pos-service/internal/orders"
	"pos-service/internal/stores/kafka"
	"pos-service/internal/users"
	"pos-service/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	u         users.Conf
	ct        categories.Conf
	it        items.Conf
	o         orders.Conf
	cartStore *cart.Store
	checkout  *orders.Checkout
	k         *kafka.Conf // nil when event publishing is disabled
	a         *auth.Keys
	validate  *validator.Validate
}

func NewHandler(u users.Conf, ct categories.Conf, it items.Conf, o orders.Conf,
	cartStore *cart.Store, checkout *orders.Checkout, k *kafka.Conf, a *auth.Keys) *Handler {
	return &Handler{
		u:         u,
		ct:        ct,
		it:        it,
		o:         o,
		cartStore: cartStore,
		checkout:  checkout,
		k:         k,
		a:         a,
		validate:  validator.New(),
	}
}

func API(endpointPrefix string, h *Handler) (*gin.Engine, error) {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(h.a)
	if err != nil {
		return nil, fmt.Errorf("creating middleware: %w", err)
	}

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/auth/login", h.Login)
		v1.POST("/auth/register-demo", h.RegisterDemo)

		v1.Use(m.Authentication())

		v1.GET("/categories", h.ListCategories)
		v1.POST("/categories", m.Authorize(h.CreateCategory, auth.RoleAdmin))
		v1.PUT("/categories/:id", m.Authorize(h.UpdateCategory, auth.RoleAdmin))
		v1.DELETE("/categories/:id", m.Authorize(h.DeleteCategory, auth.RoleAdmin))

		v1.GET("/items", h.ListItems)
		v1.GET("/items/:id", h.GetItem)
		v1.POST("/items", m.Authorize(h.CreateItem, auth.RoleAdmin))
		v1.PUT("/items/:id", m.Authorize(h.UpdateItem, auth.RoleAdmin))
		v1.DELETE("/items/:id", m.Authorize(h.DeleteItem, auth.RoleAdmin))

		v1.GET("/users", m.Authorize(h.ListUsers, auth.RoleAdmin))
		v1.POST("/users", m.Authorize(h.CreateUser, auth.RoleAdmin))
		v1.PUT("/users/:id", m.Authorize(h.UpdateUser, auth.RoleAdmin))
		v1.DELETE("/users/:id", m.Authorize(h.DeleteUser, auth.RoleAdmin))

		v1.GET("/cart", h.GetCart)
		v1.POST("/cart/items", h.AddToCart)
		v1.PUT("/cart/items/:itemId", h.UpdateCartItem)
		v1.DELETE("/cart/items/:itemId", h.RemoveCartItem)
		v1.DELETE("/cart", h.ClearCart)

		v1.POST("/checkout", h.Checkout)

		v1.GET("/orders", h.ListOrders)
		v1.GET("/orders/:id", h.GetOrder)

		v1.GET("/dashboard/stats", h.DashboardStats)
	}

	return r, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// principal resolves the calling principal from the request context.
func principal(c *gin.Context) (auth.Claims, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	return claims, ok
}
