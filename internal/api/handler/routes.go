package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts every route; auth resolves the actor for /api and /ws.
func (h *Handler) Register(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", auth, h.ServeWebSocket)

	api := r.Group("/api", auth)
	api.GET("/me", h.Me)
	api.GET("/dashboard", h.Dashboard)
	api.GET("/conversations/:phone", h.Conversation)
	api.POST("/messages", h.SendMessage)
	api.PUT("/contacts/:id/tags", h.UpdateContactTags)

	api.POST("/departments", h.CreateDepartment)
	api.DELETE("/departments/:id", h.DeleteDepartment)
	api.POST("/sectors", h.CreateSector)
	api.DELETE("/sectors/:id", h.DeleteSector)
	api.POST("/tags", h.CreateTag)
	api.DELETE("/tags/:id", h.DeleteTag)

	api.GET("/companies", h.ListCompanies)
	api.POST("/companies", h.CreateCompany)
	api.PATCH("/companies/:id", h.UpdateCompany)
	api.POST("/companies/:id/attendants", h.CreateAttendant)
}
