package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/session"
)

func (h *Handler) Me(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	c.JSON(http.StatusOK, actor)
}

func (h *Handler) Dashboard(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	c.JSON(http.StatusOK, h.Loader.Load(c.Request.Context(), actor))
}

func (h *Handler) Conversation(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	thread, ok := h.Loader.Thread(c.Request.Context(), actor, c.Param("phone"), h.lang(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": h.text(c, "error.not_found")})
		return
	}
	c.JSON(http.StatusOK, thread)
}
