package share

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type enableBody struct {
	ExpiryHours int `json:"expiryHours"`
}

func ShareEnable(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	// An empty body shares without expiry
	var data enableBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&data); err != nil {
			reply.Fail(c, http.StatusBadRequest, "Invalid request body")

			zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	doc, err := d.Sharing.Enable(c.Request.Context(), c.Param("id"), userID, data.ExpiryHours)
	if err != nil {
		reply.Error(c, err, "enable sharing")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"shareUrl":    doc.PublicShareURL,
		"qrCodeData":  doc.QRCodeData,
		"shareExpiry": doc.ShareExpiry,
		"shareStatus": d.Sharing.Status(doc),
	})
}

func ShareDisable(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	doc, err := d.Sharing.Disable(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		reply.Error(c, err, "disable sharing")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"shareStatus": d.Sharing.Status(doc),
	})
}

// ShareView is the anonymous read behind a share link
func ShareView(c *gin.Context, d *internal.Deps) {
	ctx := service.WithClientContext(c.Request.Context(), c.Request.UserAgent())

	doc, err := d.Sharing.View(ctx, c.Param("id"))
	if err != nil {
		reply.Error(c, err, "view shared document")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{"document": doc})
}
