package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/session"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The session token is checked before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades an authenticated request into a live dashboard feed.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	actor, ok := session.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": h.text(c, "error.unauthorized")})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("user_id", actor.UserID).Msg("websocket upgrade failed")
		return
	}

	client := realtime.NewWebSocketClient(uuid.NewString(), actor, conn, h.Hub)
	h.Hub.Register(client)
	client.Run()
}
