package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dispatch"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/session"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/tagging"
)

func (h *Handler) SendMessage(c *gin.Context) {
	actor, _ := session.ActorFrom(c)

	var req dispatch.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.text(c, "error.invalid_request")})
		return
	}

	msg, err := h.Dispatcher.Send(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, err, "error.send_failed")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

type tagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

// UpdateContactTags replaces the tags of a contact visible to the actor.
func (h *Handler) UpdateContactTags(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	if actor.Company == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": h.text(c, "error.forbidden")})
		return
	}

	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.text(c, "error.invalid_request")})
		return
	}

	contact, err := h.Contacts.GetContact(c.Request.Context(), actor.CompanyID(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	if contact == nil || !scope.ForActor(actor).Visible(contact.DepartmentID, contact.SectorID) {
		c.JSON(http.StatusNotFound, gin.H{"error": h.text(c, "error.not_found")})
		return
	}

	outcome, err := h.Tags.Apply(c.Request.Context(), actor.CompanyID(), contact.ID, contact.TagIDs, req.TagIDs)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}

	tagIDs := contact.TagIDs
	if outcome == tagging.Updated {
		tagIDs = tagging.Cap(req.TagIDs)
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "tag_ids": tagIDs})
}
