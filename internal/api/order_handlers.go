package api

import (
	"encoding/json"
	"fmt"
	"strconv"

	"shop-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// looseBool accepts a JSON boolean or its string form, as sent by the
// payment return page.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case bool:
		*b = looseBool(t)
	case string:
		parsed, err := strconv.ParseBool(t)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", t)
		}
		*b = looseBool(parsed)
	case nil:
		*b = false
	default:
		return fmt.Errorf("invalid boolean %v", t)
	}
	return nil
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if !bind(c, &req) {
		return
	}

	if _, err := h.svc.Orders.PlaceOrder(c.Request.Context(), currentUser(c), &req); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "Order Placed Successfully")
}

func (h *Handler) placeOrderStripe(c *gin.Context) {
	var req service.PlaceOrderRequest
	if !bind(c, &req) {
		return
	}

	url, err := h.svc.Payments.StartCheckout(c.Request.Context(), currentUser(c), c.GetHeader("Origin"), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"session_url": url})
}

func (h *Handler) verifyStripe(c *gin.Context) {
	var req struct {
		Success looseBool `json:"success"`
		OrderID string    `json:"orderId"`
	}
	if !bind(c, &req) {
		return
	}

	paid, err := h.svc.Payments.VerifyPayment(c.Request.Context(), currentUser(c), req.OrderID, bool(req.Success))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !paid {
		respondFail(c, "Payment was not completed")
		return
	}
	respondOK(c, nil)
}

func (h *Handler) allOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"orders": orders})
}

func (h *Handler) userOrders(c *gin.Context) {
	orders, err := h.svc.Orders.UserOrders(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"orders": orders})
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "Status Updated")
}
