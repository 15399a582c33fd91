package api

import (
	"shop-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) addProduct(c *gin.Context) {
	var req service.AddProductRequest
	if !bind(c, &req) {
		return
	}

	if _, err := h.svc.Products.AddProduct(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "Product added successfully")
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.svc.Products.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"products": products})
}

func (h *Handler) singleProduct(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !bind(c, &req) {
		return
	}

	product, err := h.svc.Products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"product": product})
}

func (h *Handler) removeProduct(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Products.RemoveProduct(c.Request.Context(), req.ID); err != nil {
		h.respondError(c, err)
		return
	}
	respondMessage(c, "Product removed")
}
