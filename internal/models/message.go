package models

import "time"

// Message kinds as stored in tipomessage.
const (
	KindText     = "text"
	KindImage    = "image"
	KindAudio    = "audio"
	KindDocument = "document"
)

// Message is one row of either messages (inbound) or sent_messages (outbound).
// Both tables share this shape; Source records which one the row came from.
type Message struct {
	ID        uint   `gorm:"primaryKey" json:"id,omitempty"`
	MessageID string `gorm:"column:idmessage;index;type:text" json:"idmessage,omitempty"`
	Numero    string `gorm:"column:numero;index;type:text" json:"numero,omitempty"`
	Sender    string `gorm:"column:sender;type:text" json:"sender,omitempty"`
	PushName  string `gorm:"column:pushname;type:text" json:"pushname,omitempty"`
	Kind      string `gorm:"column:tipomessage;type:text" json:"tipomessage,omitempty"`
	Body      string `gorm:"column:message;type:text" json:"message"`
	Caption   string `gorm:"column:caption;type:text" json:"caption,omitempty"`
	Base64    string `gorm:"column:base64;type:text" json:"base64,omitempty"`
	ImageURL  string `gorm:"column:urlimagem;type:text" json:"urlimagem,omitempty"`
	PDFURL    string `gorm:"column:urlpdf;type:text" json:"urlpdf,omitempty"`
	FileName  string `gorm:"column:filename;type:text" json:"filename,omitempty"`
	MimeType  string `gorm:"column:mimetype;type:text" json:"mimetype,omitempty"`

	APIKey   string `gorm:"column:apikey_instancia;index;type:text" json:"apikey_instancia"`
	Instance string `gorm:"column:instancia;type:text" json:"instancia,omitempty"`

	DepartmentID *string `gorm:"column:department_id;type:text" json:"department_id"`
	SectorID     *string `gorm:"column:sector_id;type:text" json:"sector_id"`
	TagID        *string `gorm:"column:tag_id;type:text" json:"tag_id"`

	// Mine is "true" when the message went out from the company.
	Mine string `gorm:"column:minha?;type:text" json:"minha?"`

	Timestamp string    `gorm:"column:timestamp;type:text" json:"timestamp,omitempty"`
	DateTime  string    `gorm:"column:date_time;type:text" json:"date_time,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Source string `gorm:"-" json:"source,omitempty"`
}

// IsOutbound reports the "minha?" marker.
func (m Message) IsOutbound() bool {
	return m.Mine == "true"
}

// RawPhone is the origin identifier, numero first.
func (m Message) RawPhone() string {
	if m.Numero != "" {
		return m.Numero
	}
	return m.Sender
}

// Preview is the short text used for last-message previews.
func (m Message) Preview() string {
	if m.Body != "" {
		return m.Body
	}
	if m.Caption != "" {
		return m.Caption
	}
	if m.Kind != "" && m.Kind != KindText {
		return "[" + m.Kind + "]"
	}
	return ""
}
