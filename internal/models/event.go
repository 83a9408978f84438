package models

// WebhookPayload is the top-level webhook delivery from the WhatsApp
// Cloud API. Every nested field is optional; the provider sends only
// the parts relevant to the event being notified.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the actual event data.
type ChangeValue struct {
	MessagingProduct    string    `json:"messaging_product,omitempty"`
	Metadata            *Metadata `json:"metadata,omitempty"`
	MessageTemplateID   string    `json:"message_template_id,omitempty"`
	MessageTemplateName string    `json:"message_template_name,omitempty"`
	Contacts            []Contact `json:"contacts,omitempty"`
	Messages            []Message `json:"messages,omitempty"`
	Statuses            []Status  `json:"statuses,omitempty"`
}

// Metadata describes the receiving business phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the sender of an inbound message.
type Contact struct {
	Profile *ContactProfile `json:"profile,omitempty"`
	WaID    string          `json:"wa_id"`
}

// ContactProfile carries the contact's display name.
type ContactProfile struct {
	Name string `json:"name"`
}

// Message is an inbound message from an end user.
type Message struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Button      *ButtonContent      `json:"button,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent holds a free-text message body.
type TextContent struct {
	Body string `json:"body"`
}

// ButtonContent holds a quick-reply button click.
type ButtonContent struct {
	Payload string `json:"payload,omitempty"`
	Text    string `json:"text"`
}

// InteractiveContent holds an interactive message reply. Exactly one of
// the reply fields is set, selected by Type.
type InteractiveContent struct {
	Type        string       `json:"type"`
	ButtonReply *OptionReply `json:"button_reply,omitempty"`
	ListReply   *OptionReply `json:"list_reply,omitempty"`
	NFMReply    *NFMReply    `json:"nfm_reply,omitempty"`
}

// OptionReply is a selected button or list option.
type OptionReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NFMReply is a flow (form) submission. ResponseJSON is the submitted
// form data, passed through unparsed.
type NFMReply struct {
	Name         string `json:"name,omitempty"`
	Body         string `json:"body,omitempty"`
	ResponseJSON string `json:"response_json"`
}

// Status is a delivery-state notification for an outbound message.
type Status struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Timestamp   string        `json:"timestamp"`
	RecipientID string        `json:"recipient_id"`
	Errors      []StatusError `json:"errors,omitempty"`
}

// StatusError carries failure detail on a failed status.
type StatusError struct {
	Code      int64      `json:"code"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ErrorData *ErrorData `json:"error_data,omitempty"`
}

// ErrorData is the nested detail object inside a status error.
type ErrorData struct {
	Details string `json:"details"`
}
