package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guahanweb/photography-challenges-backend/internal/auth"
)

// Register attaches project routes to the given router group. Mutations are
// admin-only; reads require any authenticated user.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:projectId", h.get)

	admin := rg.Group("", auth.RequireRole("admin"))
	admin.POST("", h.create)
	admin.PUT("/:projectId", h.update)
	admin.DELETE("/:projectId", h.delete)
}
