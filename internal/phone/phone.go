// Package phone turns raw phone strings and provider JIDs into the canonical
// digits-only key used to merge conversations.
package phone

import (
	"strings"
	"unicode"

	"go.mau.fi/whatsmeow/types"
)

// Normalize returns the canonical key for raw: the JID user part (device and
// agent suffixes dropped) with every non-digit removed.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	user := raw
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		jid, err := types.ParseJID(raw)
		if err == nil {
			user = jid.User
		} else {
			user = raw[:at]
		}
	}

	var b strings.Builder
	b.Grow(len(user))
	for _, r := range user {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Same reports whether two raw identifiers resolve to the same non-empty key.
func Same(a, b string) bool {
	ka := Normalize(a)
	return ka != "" && ka == Normalize(b)
}

// JID renders a canonical key as a user JID on the default WhatsApp server.
func JID(key string) string {
	key = Normalize(key)
	if key == "" {
		return ""
	}
	return types.NewJID(key, types.DefaultUserServer).String()
}
