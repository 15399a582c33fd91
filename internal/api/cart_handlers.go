package api

import (
	"github.com/gin-gonic/gin"
)

type cartRequest struct {
	ItemID   string `json:"itemId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) getCart(c *gin.Context) {
	ct, err := h.svc.Carts.GetCart(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"cartData": ct})
}

func (h *Handler) addToCart(c *gin.Context) {
	var req cartRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Carts.AddToCart(c.Request.Context(), currentUser(c), req.ItemID, req.Size); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "Added To Cart")
}

func (h *Handler) updateCart(c *gin.Context) {
	var req cartRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Carts.UpdateCart(c.Request.Context(), currentUser(c), req.ItemID, req.Size, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "Cart Updated")
}
