package admin

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

func AdminUsers(c *gin.Context, d *internal.Deps) {
	users, err := d.Admin.ListUsers(c.Request.Context())
	if err != nil {
		reply.Error(c, err, "list users")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{"users": users})
}

type roleBody struct {
	Role model.Role `json:"role"`
}

// AdminUpdateRole runs after RequireCapability, which leaves the caller's
// profile in the context
func AdminUpdateRole(c *gin.Context, d *internal.Deps) {
	actor := c.MustGet("profile").(*model.User)

	var data roleBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := d.Admin.UpdateRole(c.Request.Context(), actor.Role, c.Param("id"), data.Role)
	if err != nil {
		reply.Error(c, err, "update role")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{"user": u})
}

func AdminContacts(c *gin.Context, d *internal.Deps) {
	contacts, err := d.Admin.ListContacts(c.Request.Context())
	if err != nil {
		reply.Error(c, err, "list contacts")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{"contacts": contacts})
}
