package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/itsolution4india/webhook-develop/internal/metrics"
	"github.com/itsolution4india/webhook-develop/internal/models"
	"github.com/itsolution4india/webhook-develop/pkg/logger"
	"github.com/itsolution4india/webhook-develop/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxBodySize caps webhook bodies at 1 MiB.
const maxBodySize = 1 << 20

// ReportProcessor runs the webhook pipeline for one delivery.
type ReportProcessor interface {
	ProcessPayload(ctx context.Context, p *models.WebhookPayload)
}

// ReportLister reads back persisted reports.
type ReportLister interface {
	ListReports(limit, offset int) ([]*models.ReportRecord, error)
}

type Router struct {
	engine      *gin.Engine
	processor   ReportProcessor
	reports     ReportLister
	verifyToken string
}

// NewRouter wires the webhook routes. reports may be nil to disable
// the read-back endpoint.
func NewRouter(processor ReportProcessor, reports ReportLister, verifyToken string) *Router {
	if processor == nil {
		panic("processor cannot be nil")
	}

	r := &Router{
		engine:      gin.New(),
		processor:   processor,
		reports:     reports,
		verifyToken: verifyToken,
	}

	r.engine.Use(
		middleware.RequestIDMiddleware(),
		middleware.SecurityHeadersMiddleware(),
		middleware.RequestLogMiddleware(),
		middleware.RequestSizeLimitMiddleware(maxBodySize),
		gin.CustomRecovery(handlePanic),
	)

	r.engine.GET("/health", r.handleHealth)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.engine.NoRoute(r.handleNotFound)

	// The provider may be configured with either path.
	for _, path := range []string{"/", "/webhook"} {
		r.engine.GET(path, r.handleVerify)
		r.engine.POST(path, r.handleEvent)
	}

	if reports != nil {
		r.engine.GET("/reports", r.handleListReports)
	}

	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func handlePanic(c *gin.Context, err interface{}) {
	logger.Error("Panic while handling request",
		zap.String("path", c.Request.URL.Path),
		zap.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": fmt.Sprintf("%v", err),
	})
}

func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (r *Router) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// handleVerify answers the provider's subscription challenge.
func (r *Router) handleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing verification parameters"})
		return
	}

	if mode != "subscribe" || token != r.verifyToken {
		logger.Warn("Webhook verification failed", zap.String("mode", mode))
		c.Status(http.StatusForbidden)
		return
	}

	logger.Info("Webhook verified")
	c.String(http.StatusOK, challenge)
}

// handleEvent accepts a webhook delivery. Empty and malformed bodies
// are acknowledged with 200 so the provider does not retry over local
// parsing quirks.
func (r *Router) handleEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		metrics.WebhookMalformedTotal.Inc()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.WebhookMalformedTotal.Inc()
		logger.Warn("Ignoring malformed webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	metrics.WebhookEventsTotal.Inc()
	r.processor.ProcessPayload(c.Request.Context(), &payload)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (r *Router) handleListReports(c *gin.Context) {
	limit, err := parseIntQuery(c, "limit", 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := parseIntQuery(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	reports, err := r.reports.ListReports(limit, offset)
	if err != nil {
		logger.Error("Failed to list reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func parseIntQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
