package document

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/media"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func DocumentFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	doc, err := d.Documents.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		reply.Error(c, err, "fetch document")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"document": newView(d.Sharing, doc, true),
	})
}

type editBody struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Category     *model.Category `json:"category"`
	DocumentType *string         `json:"documentType"`
	Tags         *[]string       `json:"tags"`
}

func DocumentEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data editBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	doc, err := d.Documents.Update(c.Request.Context(), c.Param("id"), userID, service.DocumentPatch{
		Title:        data.Title,
		Description:  data.Description,
		Category:     data.Category,
		DocumentType: data.DocumentType,
		Tags:         data.Tags,
	})
	if err != nil {
		reply.Error(c, err, "update document")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"document": newView(d.Sharing, doc, false),
	})
}

// DocumentDelete removes the record first. The binary is best effort, a
// leftover object is only logged.
func DocumentDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	doc, err := d.Documents.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		reply.Error(c, err, "delete document")
		return
	}

	mediaID := doc.MediaID
	if mediaID == "" {
		// Older records only kept the URL
		mediaID, err = media.ParseMediaID(doc.MediaURL)
		if err != nil {
			zap.L().Warn("Can't find media of deleted document", zap.String("documentID", doc.ID), zap.String("requestID", requestID))
		}
	}

	if mediaID != "" {
		if err := d.Media.Delete(c.Request.Context(), mediaID); err != nil {
			zap.L().Warn("Failed to delete media", zap.Error(err), zap.String("mediaID", mediaID), zap.String("requestID", requestID))
		}
	}

	c.Status(http.StatusNoContent)
}
