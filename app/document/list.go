package document

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DocumentList serves one keyset page. The id of the last item is handed
// back as nextCursor and goes into ?after= for the next page.
func DocumentList(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	o := service.ListOptions{
		Category:      model.Category(c.Query("category")),
		SortField:     c.Query("sort"),
		SortDirection: service.SortDirection(c.Query("order")),
		PageSize:      limit,
	}

	if after := c.Query("after"); after != "" {
		cur, err := d.Documents.Cursor(c.Request.Context(), after, userID)
		if err != nil {
			reply.Error(c, err, "resolve cursor")
			return
		}

		o.Cursor = cur
	}

	page, err := d.Documents.List(c.Request.Context(), userID, o)
	if err != nil {
		reply.Error(c, err, "list documents")
		return
	}

	var next *string
	if page.HasMore && page.Cursor != nil {
		next = &page.Cursor.ID
	}

	reply.OK(c, http.StatusOK, gin.H{
		"items":      newViews(d.Sharing, page.Items),
		"hasMore":    page.HasMore,
		"nextCursor": next,
	})
}

func DocumentSearch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	docs, err := d.Documents.Search(c.Request.Context(), userID, c.Query("query"), service.SearchOptions{
		Category:      model.Category(c.Query("category")),
		SortField:     c.Query("sort"),
		SortDirection: service.SortDirection(c.Query("order")),
		Limit:         limit,
	})
	if err != nil {
		reply.Error(c, err, "search documents")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"items": newViews(d.Sharing, docs),
	})
}

func DocumentStats(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	stats, err := d.Documents.Stats(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err, "compute stats")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{"stats": stats})
}

// intQuery reads an optional integer parameter, 0 when absent
func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid "+key+" parameter")
		return 0, false
	}

	return n, true
}
