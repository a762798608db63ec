package dispatch

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
)

// NewMessageID returns "<unix-millis>-<random>". Collisions are unlikely, not impossible.
func NewMessageID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:config.MessageIDSuffixLen]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// KindFor maps an attachment MIME type to a message kind. Unknown and
// missing types are documents.
func KindFor(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.KindImage
	case strings.HasPrefix(mimeType, "audio/"):
		return models.KindAudio
	default:
		return models.KindDocument
	}
}

// Attachment is a single file, base64 encoded, optionally as a data URL.
type Attachment struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimetype"`
	FileName string `json:"filename"`
}

// Decode strips a "data:<mime>;base64," prefix and decodes the content. A
// MIME type found in the prefix fills MimeType when it is empty.
func (a *Attachment) Decode() ([]byte, error) {
	raw := strings.TrimSpace(a.Base64)
	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: malformed data url", ErrBadAttachment)
		}
		header := raw[len("data:"):comma]
		if a.MimeType == "" {
			a.MimeType = strings.TrimSuffix(header, ";base64")
		}
		raw = raw[comma+1:]
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: empty content", ErrBadAttachment)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAttachment, err)
	}
	a.Base64 = raw
	return data, nil
}

// isPDF covers the documents the console previews as PDF.
func isPDF(mimeType, fileName string) bool {
	return strings.EqualFold(mimeType, "application/pdf") || strings.HasSuffix(strings.ToLower(fileName), ".pdf")
}
