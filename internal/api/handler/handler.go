package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dashboard"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/directory"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dispatch"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/localization"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/tagging"
	"github.com/rs/zerolog/log"
)

// ContactFinder loads a contact with its current tag ids.
type ContactFinder interface {
	GetContact(ctx context.Context, companyID, contactID string) (*models.Contact, error)
}

// Handler holds the services behind the HTTP API.
type Handler struct {
	Hub        *realtime.Hub
	Loader     *dashboard.Loader
	Dispatcher *dispatch.Dispatcher
	Tags       *tagging.Editor
	Directory  *directory.Service
	Contacts   ContactFinder
	Localizer  *localization.Localizer

	DefaultLang string
}

func NewHandler(hub *realtime.Hub, loader *dashboard.Loader, dispatcher *dispatch.Dispatcher,
	tags *tagging.Editor, dir *directory.Service, contacts ContactFinder, l *localization.Localizer, defaultLang string) *Handler {
	return &Handler{
		Hub:         hub,
		Loader:      loader,
		Dispatcher:  dispatcher,
		Tags:        tags,
		Directory:   dir,
		Contacts:    contacts,
		Localizer:   l,
		DefaultLang: defaultLang,
	}
}

// lang picks the "lang" query parameter, then Accept-Language, then the default.
func (h *Handler) lang(c *gin.Context) string {
	if l := strings.ToLower(c.Query("lang")); config.SupportedLanguages[l] {
		return l
	}
	if accept := c.GetHeader("Accept-Language"); len(accept) >= 2 {
		if l := strings.ToLower(accept[:2]); config.SupportedLanguages[l] {
			return l
		}
	}
	return h.DefaultLang
}

func (h *Handler) text(c *gin.Context, key string) string {
	if h.Localizer == nil {
		return key
	}
	return h.Localizer.GetString(h.lang(c), key)
}

// fail maps service errors to a status and a localized message; fallback
// names the message for unclassified failures.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status, key := http.StatusInternalServerError, fallback

	switch {
	case errors.Is(err, directory.ErrForbidden), errors.Is(err, dispatch.ErrNoCompany), errors.Is(err, dispatch.ErrForbidden):
		status, key = http.StatusForbidden, "error.forbidden"
	case errors.Is(err, directory.ErrNotFound):
		status, key = http.StatusNotFound, "error.not_found"
	case errors.Is(err, directory.ErrInvalid),
		errors.Is(err, dispatch.ErrEmptyMessage),
		errors.Is(err, dispatch.ErrInvalidPhone),
		errors.Is(err, dispatch.ErrBadAttachment):
		status, key = http.StatusBadRequest, "error.invalid_request"
	case errors.Is(err, tagging.ErrDelete), errors.Is(err, tagging.ErrInsert):
		key = "error.tags_failed"
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": h.text(c, key), "detail": err.Error()})
}
