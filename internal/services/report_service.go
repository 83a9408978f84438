package services

import (
	"context"
	"fmt"

	"github.com/itsolution4india/webhook-develop/internal/db"
	"github.com/itsolution4india/webhook-develop/internal/metrics"
	"github.com/itsolution4india/webhook-develop/internal/models"
	"github.com/itsolution4india/webhook-develop/internal/normalizer"
	"github.com/itsolution4india/webhook-develop/pkg/logger"

	"go.uber.org/zap"
)

// ReportStore persists normalized report records.
type ReportStore interface {
	Upsert(rec *models.ReportRecord) (db.UpsertResult, error)
}

// Forwarder relays user replies to the dashboard. The bool result
// reports whether the payload was a reply and a forward was attempted.
type Forwarder interface {
	MaybeForward(ctx context.Context, p *models.WebhookPayload) (bool, error)
}

// Replier sends outbound text messages through the provider.
type Replier interface {
	SendText(ctx context.Context, phoneNumberID, to, body string) error
}

// AuditWriter records raw payloads for later inspection.
type AuditWriter interface {
	Append(entryID string, payload interface{}) error
}

// ReportService runs the webhook pipeline: normalize, upsert, forward
// first-seen replies, auto-reply to inbound text, audit. Storage and
// outbound failures are logged and counted but never propagate; the
// provider's delivery ack must not depend on them.
type ReportService struct {
	store         ReportStore
	forwarder     Forwarder
	replier       Replier
	audit         AuditWriter
	replyTemplate string
}

// NewReportService creates a report service. forwarder, replier and
// audit may each be nil to disable that step.
func NewReportService(store ReportStore, forwarder Forwarder, replier Replier, audit AuditWriter, replyTemplate string) *ReportService {
	if replyTemplate == "" {
		replyTemplate = "Hi, your message is %s"
	}
	return &ReportService{
		store:         store,
		forwarder:     forwarder,
		replier:       replier,
		audit:         audit,
		replyTemplate: replyTemplate,
	}
}

// ProcessPayload handles one webhook delivery end to end.
func (s *ReportService) ProcessPayload(ctx context.Context, p *models.WebhookPayload) {
	rec := normalizer.Normalize(p)

	result, err := s.store.Upsert(rec)
	if err != nil {
		metrics.StorageFailuresTotal.Inc()
		logger.Error("Failed to upsert report",
			zap.String("message_timestamp", rec.MessageTimestamp),
			zap.String("contact_wa_id", rec.ContactWaID),
			zap.Error(err),
		)
	} else {
		switch result {
		case db.ResultInserted:
			metrics.ReportsInsertedTotal.Inc()
		case db.ResultUpdated:
			metrics.ReportsUpdatedTotal.Inc()
		}
		logger.Info("Report upserted",
			zap.String("result", result.String()),
			zap.String("status", rec.Status),
			zap.String("contact_wa_id", rec.ContactWaID),
		)

		// Forwarding and auto-reply run only for first-seen events so
		// a provider retry cannot notify the dashboard or message the
		// user twice.
		if result == db.ResultInserted {
			s.forward(ctx, p)
			s.autoReply(ctx, p)
		}
	}

	s.writeAudit(p)
}

func (s *ReportService) forward(ctx context.Context, p *models.WebhookPayload) {
	if s.forwarder == nil {
		return
	}

	forwarded, err := s.forwarder.MaybeForward(ctx, p)
	if !forwarded && err == nil {
		return
	}
	if err != nil {
		metrics.ForwardFailuresTotal.Inc()
		logger.Warn("Dashboard forward failed", zap.Error(err))
		return
	}

	metrics.ForwardsTotal.Inc()
	logger.Info("Forwarded reply to dashboard")
}

// autoReply echoes inbound free-text messages back through the
// provider messaging API.
func (s *ReportService) autoReply(ctx context.Context, p *models.WebhookPayload) {
	if s.replier == nil {
		return
	}

	phoneNumberID, msg := inboundText(p)
	if msg == nil || phoneNumberID == "" {
		return
	}

	body := fmt.Sprintf(s.replyTemplate, msg.Text.Body)
	if err := s.replier.SendText(ctx, phoneNumberID, msg.From, body); err != nil {
		metrics.AutoReplyFailuresTotal.Inc()
		logger.Warn("Auto-reply failed",
			zap.String("to", msg.From),
			zap.Error(err),
		)
		return
	}

	metrics.AutoRepliesTotal.Inc()
	logger.Info("Auto-reply sent", zap.String("to", msg.From))
}

func (s *ReportService) writeAudit(p *models.WebhookPayload) {
	if s.audit == nil || p == nil {
		return
	}
	for _, entry := range p.Entry {
		if err := s.audit.Append(entry.ID, p); err != nil {
			logger.Warn("Failed to write audit line",
				zap.String("entry_id", entry.ID),
				zap.Error(err),
			)
		}
	}
}

// inboundText returns the receiving phone number ID and the first free
// text message in the payload, or nil when there is none.
func inboundText(p *models.WebhookPayload) (string, *models.Message) {
	if p == nil {
		return "", nil
	}
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			v := change.Value
			if v.Metadata == nil || len(v.Messages) == 0 {
				continue
			}
			msg := &v.Messages[0]
			if msg.Type == models.MessageTypeText && msg.Text != nil {
				return v.Metadata.PhoneNumberID, msg
			}
		}
	}
	return "", nil
}
