package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"pos-service/internal/cart"
	"pos-service/internal/items"
	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

type cartResponse struct {
	Items       []cart.Entry `json:"items"`
	TotalAmount int64        `json:"total_amount"`
	TotalItems  int          `json:"total_items"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	return cartResponse{
		Items:       c.Entries(),
		TotalAmount: c.TotalAmount(),
		TotalItems:  c.TotalItems(),
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shopperCart, err := h.cartStore.Load(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, toCartResponse(shopperCart))
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if request.Quantity == 0 {
		request.Quantity = 1
	}
	if request.ItemID == "" || request.Quantity < 1 {
		slog.Error("invalid item ID or quantity", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Item ID and quantity must be valid"})
		return
	}

	item, err := h.it.GetItemByID(c.Request.Context(), request.ItemID)
	if err != nil {
		if errors.Is(err, items.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error fetching item", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ItemID, request.ItemID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	shopperCart, err := h.cartStore.Load(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	// Add-time stock check. The authoritative check still happens at
	// checkout via the atomic decrement.
	requested := request.Quantity
	for _, e := range shopperCart.Entries() {
		if e.Item.ID == item.ID {
			requested += e.Quantity
		}
	}
	if requested > item.Stock {
		slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ItemID, item.ID), slog.Int("Requested", requested), slog.Int("Available", item.Stock))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient stock available"})
		return
	}

	shopperCart.AddItem(cart.ItemSnapshot{ID: item.ID, Name: item.Name, Price: item.Price}, request.Quantity)
	if err := h.cartStore.Save(c.Request.Context(), claims.Subject, shopperCart); err != nil {
		slog.Error("error saving cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	slog.Info("item added to cart", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.ItemID, item.ID), slog.Int("Quantity", request.Quantity),
		slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, toCartResponse(shopperCart))
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	itemID := c.Param("itemId")

	var request struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	shopperCart, err := h.cartStore.Load(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	shopperCart.UpdateQuantity(itemID, request.Quantity)
	if err := h.cartStore.Save(c.Request.Context(), claims.Subject, shopperCart); err != nil {
		slog.Error("error saving cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, toCartResponse(shopperCart))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	itemID := c.Param("itemId")

	shopperCart, err := h.cartStore.Load(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	shopperCart.RemoveItem(itemID)
	if err := h.cartStore.Save(c.Request.Context(), claims.Subject, shopperCart); err != nil {
		slog.Error("error saving cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, toCartResponse(shopperCart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.cartStore.Clear(c.Request.Context(), claims.Subject); err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
