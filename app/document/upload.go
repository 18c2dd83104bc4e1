package document

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/media"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"bitwise74/docvault-api/pkg/validators"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentUpload stores the binary with the media host first and the record
// second. A failed record write removes the binary again.
func DocumentUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		reply.Fail(c, http.StatusBadRequest, "No file selected")
		return
	}

	category := model.Category(c.PostForm("category"))
	if !category.Valid() {
		reply.Fail(c, http.StatusBadRequest, "Invalid document category")
		return
	}

	f, info, res, err := validators.InspectUpload(fh, validators.FileCategoryDocuments, d.MaxUploadSize)
	if err != nil {
		reply.Fail(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to inspect upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !res.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     res.Err().Error(),
			"errors":    res.Errors,
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	meta := service.NewDocument{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Category:     category,
		DocumentType: c.PostForm("documentType"),
		Tags:         formTags(c),
	}

	// Reject bad metadata before anything is uploaded
	if err := service.CheckDocument(meta); err != nil {
		reply.Error(c, err, "validate document")
		return
	}

	up, err := d.Media.Upload(c.Request.Context(), f, media.UploadOptions{
		Folder:      media.FolderFor(string(category)),
		Category:    string(category),
		FileName:    info.Name,
		ContentType: info.MimeType,
		Size:        info.Size,
	})
	if err != nil {
		reply.Fail(c, http.StatusBadGateway, "Failed to upload file")

		zap.L().Error("Failed to upload to media host", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	meta.MediaURL = up.URL
	meta.MediaID = up.MediaID
	meta.FileSize = up.Bytes
	meta.MimeType = up.MimeType

	doc, err := d.Documents.Create(c.Request.Context(), userID, meta)
	if err != nil {
		if derr := d.Media.Delete(c.Request.Context(), up.MediaID); derr != nil {
			zap.L().Error("Failed to remove orphaned media", zap.Error(derr), zap.String("mediaID", up.MediaID), zap.String("requestID", requestID))
		}

		reply.Error(c, err, "create document")
		return
	}

	reply.OK(c, http.StatusCreated, gin.H{
		"document": newView(d.Sharing, doc, true),
	})
}

// formTags accepts repeated tags fields or one comma separated field
func formTags(c *gin.Context) []string {
	var tags []string
	for _, v := range c.PostFormArray("tags") {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	return tags
}
