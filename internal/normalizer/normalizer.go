// Package normalizer reduces the provider's nested webhook payload into
// a single flat ReportRecord. The provider multiplexes delivery
// statuses, contact metadata, template metadata and inbound messages
// through one entry/changes/value envelope; normalization walks that
// envelope in order and lets later values overwrite earlier ones.
package normalizer

import (
	"strconv"
	"time"

	"github.com/itsolution4india/webhook-develop/internal/models"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// Normalize converts a webhook payload into a ReportRecord. It never
// fails: absent optional fields leave the corresponding record fields
// unset. Iteration is last-write-wins across entries, changes and
// values; in practice the provider sends at most one of each per call.
func Normalize(p *models.WebhookPayload) *models.ReportRecord {
	rec := &models.ReportRecord{Date: timeNow().UTC()}
	if p == nil {
		return rec
	}

	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			applyValue(rec, &change.Value)
		}
	}

	return rec
}

func applyValue(rec *models.ReportRecord, v *models.ChangeValue) {
	if v.Metadata != nil {
		rec.DisplayPhoneNumber = v.Metadata.DisplayPhoneNumber
		rec.PhoneNumberID = v.Metadata.PhoneNumberID
	}

	// Template fields are only meaningful as a pair.
	if v.MessageTemplateID != "" && v.MessageTemplateName != "" {
		rec.MessageTemplateID = v.MessageTemplateID
		rec.MessageTemplateName = v.MessageTemplateName
	}

	for i := range v.Statuses {
		applyStatus(rec, &v.Statuses[i])
	}

	for i := range v.Contacts {
		applyContact(rec, &v.Contacts[i])
	}

	// Messages come last: an inbound reply dominates any co-occurring
	// status update.
	for i := range v.Messages {
		applyMessage(rec, &v.Messages[i])
	}
}

func applyStatus(rec *models.ReportRecord, st *models.Status) {
	rec.WabaID = st.ID
	rec.Status = st.Status
	rec.MessageTimestamp = st.Timestamp
	rec.ContactWaID = st.RecipientID

	if len(st.Errors) > 0 {
		first := st.Errors[0]
		rec.ErrorCode = formatErrorCode(first.Code)
		rec.ErrorTitle = first.Title
		rec.ErrorMessage = first.Message
		if first.ErrorData != nil {
			rec.ErrorData = first.ErrorData.Details
		}
	}
}

func formatErrorCode(code int64) string {
	if code == 0 {
		return ""
	}
	return strconv.FormatInt(code, 10)
}

func applyContact(rec *models.ReportRecord, c *models.Contact) {
	if c.Profile != nil {
		rec.ContactName = c.Profile.Name
	}
	rec.ContactWaID = c.WaID
}

func applyMessage(rec *models.ReportRecord, msg *models.Message) {
	rec.MessageFrom = msg.From
	rec.Status = models.StatusReply
	rec.WabaID = msg.ID
	rec.MessageTimestamp = msg.Timestamp
	rec.MessageType = msg.Type
	rec.MessageBody = messageBody(msg)
}

// messageBody resolves the reported body per message type. Unknown
// types map to an empty body rather than an error.
func messageBody(msg *models.Message) string {
	switch msg.Type {
	case models.MessageTypeText:
		if msg.Text != nil {
			return msg.Text.Body
		}
	case models.MessageTypeButton:
		if msg.Button != nil {
			return msg.Button.Text
		}
	case models.MessageTypeInteractive:
		return interactiveBody(msg.Interactive)
	}
	return ""
}

func interactiveBody(in *models.InteractiveContent) string {
	if in == nil {
		return ""
	}
	switch in.Type {
	case "button_reply":
		if in.ButtonReply != nil {
			return in.ButtonReply.Title
		}
	case "list_reply":
		if in.ListReply != nil {
			return in.ListReply.Title
		}
	case "nfm_reply":
		// Form submissions are passed through unparsed.
		if in.NFMReply != nil {
			return in.NFMReply.ResponseJSON
		}
	}
	return ""
}
