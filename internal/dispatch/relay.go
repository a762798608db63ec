package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload is the JSON body posted to the delivery webhook.
type Payload struct {
	MessageID string `json:"idmessage"`
	Phone     string `json:"numero"`
	JID       string `json:"jid"`
	Kind      string `json:"tipomessage"`
	Message   string `json:"message"`
	Caption   string `json:"caption,omitempty"`
	Base64    string `json:"base64,omitempty"`
	ImageURL  string `json:"urlimagem,omitempty"`
	PDFURL    string `json:"urlpdf,omitempty"`
	FileName  string `json:"filename,omitempty"`
	MimeType  string `json:"mimetype,omitempty"`

	APIKey   string `json:"apikey_instancia"`
	Instance string `json:"instancia"`

	DepartmentID   *string `json:"department_id"`
	DepartmentName string  `json:"department_name,omitempty"`
	SectorID       *string `json:"sector_id"`
	SectorName     string  `json:"sector_name,omitempty"`
	TagID          *string `json:"tag_id"`

	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`

	SenderUserID string `json:"sender_user_id"`
	SenderName   string `json:"sender_name"`
	SenderEmail  string `json:"sender_email,omitempty"`
	SenderRole   string `json:"sender_role"`

	DateTime string `json:"date_time"`
}

// Relay posts payloads to the delivery webhook. An empty URL disables it.
type Relay struct {
	url    string
	client *http.Client
}

func NewRelay(url string, timeout time.Duration) *Relay {
	return &Relay{url: url, client: &http.Client{Timeout: timeout}}
}

func (r *Relay) Enabled() bool {
	return r != nil && r.url != ""
}

func (r *Relay) Deliver(ctx context.Context, payload Payload) error {
	if !r.Enabled() {
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook error: status=%d body=%s", resp.StatusCode, string(body))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
