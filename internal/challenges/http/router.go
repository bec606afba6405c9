package http

import "github.com/gin-gonic/gin"

// Register attaches challenge instance routes to the given router group.
// The static /my and /mentoring routes are declared before the :instanceId
// wildcards so gin resolves them first.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/my", h.listMine)
	rg.GET("/mentoring", h.listMentoring)

	rg.POST("", h.createInstance)
	rg.GET("/:instanceId", h.getInstance)
	rg.PUT("/:instanceId", h.updateInstance)
	rg.DELETE("/:instanceId", h.deleteInstance)

	rg.POST("/:instanceId/submissions", h.addSubmission)
	rg.GET("/:instanceId/submissions", h.getSubmissions)
	rg.POST("/:instanceId/messages", h.addMessage)
	rg.GET("/:instanceId/messages", h.getMessages)
}
