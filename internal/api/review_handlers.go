package api

import (
	"shop-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) addReview(c *gin.Context) {
	var req service.AddReviewRequest
	if !bind(c, &req) {
		return
	}

	review, created, err := h.svc.Reviews.AddReview(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "Review updated successfully"
	if created {
		message = "Review added successfully"
	}
	respondOK(c, gin.H{
		"message": message,
		"review":  review,
	})
}

func (h *Handler) getReviews(c *gin.Context) {
	summary, err := h.svc.Reviews.GetReviews(c.Request.Context(), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"reviews":       summary.Reviews,
		"averageRating": summary.AverageRating,
		"totalReviews":  summary.TotalReviews,
	})
}

func (h *Handler) getUserReview(c *gin.Context) {
	review, err := h.svc.Reviews.GetUserReview(c.Request.Context(), currentUser(c), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"review": review})
}

func (h *Handler) checkPurchase(c *gin.Context) {
	ok, err := h.svc.Reviews.CheckPurchase(c.Request.Context(), currentUser(c), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"hasPurchased": ok})
}
