package api

import (
	"shop-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.svc.Users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token})
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.svc.Users.AdminLogin(req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token})
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.svc.Users.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"profile": profile})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var fields models.Address
	if !bind(c, &fields) {
		return
	}

	profile, err := h.svc.Users.UpdateProfile(c.Request.Context(), currentUser(c), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}
