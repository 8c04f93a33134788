package handlers

import (
	"net/http"

	"github.com/EGS-Tourist-Guide/event-service/internal/helpers"
	"github.com/EGS-Tourist-Guide/event-service/internal/services"
	"github.com/gin-gonic/gin"
)

// CreateKey issues a new API key for an application. The plaintext key
// is returned exactly once; only its hash is stored.
func CreateKey(ks *services.KeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			AppID string `json:"appid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "Body parameter <appid> must be a non-empty string")
			return
		}

		key, err := ks.GenerateKey(c.Request.Context(), body.AppID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"apikey": key})
	}
}

// RevokeKey deactivates an issued key. Revocation is idempotent for an
// already-inactive key but a never-issued key is a not-found.
func RevokeKey(ks *services.KeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			APIKey string `json:"apikey" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "Body parameter <apikey> must be a non-empty string")
			return
		}

		revoked, err := ks.RevokeKey(c.Request.Context(), body.APIKey)
		if err != nil {
			respondError(c, err)
			return
		}
		if !revoked {
			c.AbortWithStatusJSON(http.StatusNotFound, helpers.ErrorResponse(
				http.StatusNotFound, "Not Found", "The requested resource does not exist"))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
