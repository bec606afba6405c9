package http

import "github.com/gin-gonic/gin"

// Register attaches the authenticated invitation routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.listMine)
}

// RegisterPublic attaches the unauthenticated code-lookup and claim routes
// used during registration.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/code/:code", h.getByCode)
	rg.POST("/code/:code/claim", h.claim)
}
