package api

import (
	"errors"
	"strconv"
	"time"

	"shop-backend/internal/auth"
	"shop-backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	tokenHeader   = "token"
	userIDKey     = "userId"
	loginRequired = "Please log in to continue shopping with us."
	adminRequired = "Not Authorized Login Again"
)

// requireRole rejects requests whose token is missing, invalid or not of the
// given role.
func (h *Handler) requireRole(role, missingMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(tokenHeader)
		if token == "" {
			respondFail(c, missingMessage)
			c.Abort()
			return
		}

		claims, err := h.tokens.Parse(token)
		if err != nil {
			message := "Invalid token, please log in again"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Session expired, please log in again"
			}
			respondFail(c, message)
			c.Abort()
			return
		}

		if claims.Role != role {
			respondFail(c, missingMessage)
			c.Abort()
			return
		}

		if claims.UserID != "" {
			c.Set(userIDKey, claims.UserID)
		}
		c.Next()
	}
}

func (h *Handler) authUser() gin.HandlerFunc {
	return h.requireRole(auth.RoleUser, loginRequired)
}

func (h *Handler) authAdmin() gin.HandlerFunc {
	return h.requireRole(auth.RoleAdmin, adminRequired)
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
