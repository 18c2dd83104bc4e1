package root

import (
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"bitwise74/docvault-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta lists the values clients need to build upload and share forms
func Meta(c *gin.Context, d *internal.Deps) {
	maxSize := d.MaxUploadSize
	if maxSize <= 0 {
		maxSize = validators.MaxFileSize
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"categories":    model.Categories,
		"documentTypes": model.DocumentTypes,
		"expiryPresets": service.ExpiryPresets,
		"upload": gin.H{
			"maxSize":      maxSize,
			"allowedTypes": validators.AllowedFileTypes,
		},
	})
}
