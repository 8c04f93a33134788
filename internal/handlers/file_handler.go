package handlers

import (
	"net/http"

	"github.com/EGS-Tourist-Guide/event-service/internal/config"
	"github.com/EGS-Tourist-Guide/event-service/internal/services"
	"github.com/gin-gonic/gin"
)

// UploadImage stores the event's image. Exactly one JPEG file, at most
// MaxFileSizeMB, and only for an event that already exists.
func UploadImage(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "Request must carry exactly one file in the <file> form field")
			return
		}
		if header.Size > int64(config.MaxFileSizeMB)<<20 {
			badRequest(c, "File must not exceed 10MB")
			return
		}
		if header.Header.Get("Content-Type") != config.AllowedFileType {
			badRequest(c, "File must be of type "+config.AllowedFileType)
			return
		}

		file, err := header.Open()
		if err != nil {
			badRequest(c, "File could not be read")
			return
		}
		defer file.Close()

		if err := es.UploadImage(c.Request.Context(), id, file); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", "v1/files/"+id)
		c.Status(http.StatusCreated)
	}
}

// DownloadImage redirects the caller to the stored image's delivery URL.
func DownloadImage(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		url, err := es.ImageURL(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Redirect(http.StatusFound, url)
	}
}

func DeleteImage(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := eventID(c)
		if !ok {
			return
		}

		if err := es.DeleteImage(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
