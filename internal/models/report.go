package models

import "time"

// Report delivery statuses as sent by the provider, plus StatusReply
// which this service assigns to inbound messages.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
	StatusReply     = "reply"
)

// Message types carried on inbound messages.
const (
	MessageTypeText        = "text"
	MessageTypeButton      = "button"
	MessageTypeInteractive = "interactive"
)

// ReportRecord is the flat, canonical form of one webhook event. It is
// built fresh per inbound POST and persisted as a single row keyed by
// (MessageTimestamp, ContactWaID).
type ReportRecord struct {
	ID                  int64     `json:"id"`
	Date                time.Time `json:"date"`
	DisplayPhoneNumber  string    `json:"display_phone_number"`
	PhoneNumberID       string    `json:"phone_number_id"`
	MessageTemplateID   string    `json:"message_template_id,omitempty"`
	MessageTemplateName string    `json:"message_template_name,omitempty"`
	WabaID              string    `json:"waba_id"`
	Status              string    `json:"status"`
	MessageTimestamp    string    `json:"message_timestamp"`
	ContactWaID         string    `json:"contact_wa_id"`
	ContactName         string    `json:"contact_name"`
	ErrorCode           string    `json:"error_code,omitempty"`
	ErrorTitle          string    `json:"error_title,omitempty"`
	ErrorMessage        string    `json:"error_message,omitempty"`
	ErrorData           string    `json:"error_data,omitempty"`
	MessageFrom         string    `json:"message_from"`
	MessageType         string    `json:"message_type"`
	MessageBody         string    `json:"message_body"`
}

// Key returns the natural key identifying a logically unique event.
func (r *ReportRecord) Key() (messageTimestamp, contactWaID string) {
	return r.MessageTimestamp, r.ContactWaID
}
