package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pos-service/internal/auth"
	"pos-service/internal/items"
	"pos-service/internal/orders"
	"pos-service/internal/stores/kafka"
	"pos-service/pkg/ctxmanage"
	"pos-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Checkout(c *gin.Context) {
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
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	entries := shopperCart.Entries()
	lines := make([]orders.Line, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, orders.Line{
			ItemID:   e.Item.ID,
			Quantity: e.Quantity,
			Price:    e.Item.Price,
		})
	}

	order, err := h.checkout.PlaceOrder(c.Request.Context(), claims.Subject, lines)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrValidation):
			slog.Error("checkout rejected", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty or contains invalid items"})
		case errors.Is(err, items.ErrInsufficientStock):
			slog.Error("insufficient stock at checkout", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.UserID, claims.Subject), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient stock available"})
		default:
			slog.Error("error placing order", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.UserID, claims.Subject), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}

	// The cart is cleared only once the order is committed. A failed clear
	// is not worth failing the checkout over.
	if err := h.cartStore.Clear(c.Request.Context(), claims.Subject); err != nil {
		slog.Error("error clearing cart after checkout", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, order.ID), slog.String(logkey.ERROR, err.Error()))
	}

	if h.k != nil {
		go h.publishOrderPlaced(order, lines)
	}

	slog.Info("order placed", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, order.ID), slog.String(logkey.UserID, claims.Subject),
		slog.Int64("TotalAmount", order.TotalAmount))
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) publishOrderPlaced(order orders.Order, lines []orders.Line) {
	for _, line := range lines {
		event := kafka.OrderPlacedEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			CreatedAt: order.CreatedAt,
		}
		value, err := json.Marshal(event)
		if err != nil {
			slog.Error("error marshalling order event", slog.String(logkey.OrderID, order.ID),
				slog.String(logkey.ERROR, err.Error()))
			continue
		}
		if err := h.k.ProduceMessage(kafka.TopicOrderPlaced, []byte(order.ID), value); err != nil {
			slog.Error("error publishing order event", slog.String(logkey.OrderID, order.ID),
				slog.String(logkey.ItemID, line.ItemID), slog.String(logkey.ERROR, err.Error()))
		}
	}
}

func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	admin := claims.Role == auth.RoleAdmin
	list, err := h.o.ListOrders(c.Request.Context(), claims.Subject, admin)
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := principal(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	admin := claims.Role == auth.RoleAdmin
	order, err := h.o.GetOrderByID(c.Request.Context(), id, claims.Subject, admin)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, order)
}
