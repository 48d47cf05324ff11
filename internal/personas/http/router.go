package http

import "github.com/gin-gonic/gin"

// Register mounts the persona routes on a group rooted at
// /projects/:projectId/personas.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.POST("/generate", h.generate)
	rg.GET("/report", h.report)
	rg.GET("/report/export", h.exportReport)
	rg.PUT("/:personaId", h.update)
	rg.GET("/:personaId/export", h.exportPersona)
}
