package phone_test

import (
	"testing"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/phone"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare digits", "5511999998888", "5511999998888"},
		{"user jid", "5511999998888@s.whatsapp.net", "5511999998888"},
		{"legacy jid", "5511999998888@c.us", "5511999998888"},
		{"device jid", "5511999998888:12@s.whatsapp.net", "5511999998888"},
		{"formatted number", "+55 (11) 99999-8888", "5511999998888"},
		{"surrounding spaces", "  551199990000 ", "551199990000"},
		{"empty", "", ""},
		{"only symbols", "+() -", ""},
		{"empty user part", "@s.whatsapp.net", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.raw))
		})
	}
}

func TestNormalize_JIDAndBareAgree(t *testing.T) {
	assert.Equal(t, phone.Normalize("5511999998888"), phone.Normalize("5511999998888@s.whatsapp.net"))
	assert.True(t, phone.Same("551199990000@s.whatsapp.net", "551199990000"))
}

func TestSame_EmptyNeverMatches(t *testing.T) {
	assert.False(t, phone.Same("", ""))
	assert.False(t, phone.Same("abc", "@s.whatsapp.net"))
	assert.False(t, phone.Same("5511", "5522"))
}

func TestJID(t *testing.T) {
	assert.Equal(t, "5511999998888@s.whatsapp.net", phone.JID("5511999998888"))
	assert.Equal(t, "5511999998888@s.whatsapp.net", phone.JID("5511999998888@c.us"))
	assert.Equal(t, "", phone.JID(""))
}
