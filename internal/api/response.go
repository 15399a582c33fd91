package api

import (
	"net/http"

	"shop-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Every response is HTTP 200 with a {success, message?, ...payload} body;
// storefront and console clients branch on success alone.

func respondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondMessage(c *gin.Context, message string) {
	respondOK(c, gin.H{"message": message})
}

func respondFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if service.KindOf(err) == service.KindInternal {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		respondFail(c, "Something went wrong, please try again")
		return
	}
	respondFail(c, err.Error())
}

// bind decodes the JSON body into req. An empty body leaves req untouched.
func bind(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		respondFail(c, "Invalid request body")
		return false
	}
	return true
}
