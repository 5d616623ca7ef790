package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusboard/api/internal/apperr"
	"campusboard/api/internal/media/sniffer"
	"campusboard/api/internal/middleware"
	"campusboard/api/internal/service"
)

const uploadField = "image"

func (h HandlerSet) UploadImage(c *gin.Context) {
	if limit := h.cfg.Media.MaxUploadBytes; limit > 0 {
		// Leave room for the multipart envelope around the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64<<10)
	}

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		middleware.AbortWithError(c, apperr.Validation("multipart field image is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.AbortWithError(c, apperr.Internal("open upload", err))
		return
	}
	defer file.Close()

	result, err := h.uploads.Upload(c.Request.Context(), service.UploadInput{
		Body:         file,
		Size:         fileHeader.Size,
		DeclaredType: sniffer.DeclaredType(fileHeader.Header),
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": result.URL})
}
