package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/rs/zerolog/log"
)

const actorKey = "actor"

// bearer reads the token from the Authorization header, falling back to the
// "token" query parameter for browser WebSocket clients.
func bearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("token")
}

// Middleware resolves the actor and stores it on the gin context. A
// super-admin may pick a tenant with the X-Company-ID header or the
// company_id query parameter.
func Middleware(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		actor, err := r.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		case errors.Is(err, ErrUnknownIdentity):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No account is linked to this user"})
			return
		case err != nil:
			log.Error().Err(err).Msg("failed to resolve session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			return
		}

		companyID := c.GetHeader("X-Company-ID")
		if companyID == "" {
			companyID = c.Query("company_id")
		}
		actor, err = r.SelectCompany(c.Request.Context(), actor, companyID)
		if errors.Is(err, ErrUnknownIdentity) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("failed to select company")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor stored by Middleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
