package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itsolution4india/webhook-develop/internal/dashboard"
	"github.com/itsolution4india/webhook-develop/internal/db"
	"github.com/itsolution4india/webhook-develop/internal/models"
	"github.com/itsolution4india/webhook-develop/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPipeline wires a real repository and forwarder against an
// in-memory database and a stub dashboard.
func setupPipeline(t *testing.T) (*Router, *db.ReportRepository, *int32) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var forwardCalls int32
	dash := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&forwardCalls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(dash.Close)

	repo := db.NewReportRepository(database.GetDB())
	forwarder := dashboard.NewClient(dash.URL, time.Second)
	svc := services.NewReportService(repo, forwarder, nil, nil, "")

	return NewRouter(svc, repo, testVerifyToken), repo, &forwardCalls
}

func postJSON(t *testing.T, r *Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const inboundTextBody = `{"entry":[{"id":"E1","changes":[{"value":{"metadata":{"phone_number_id":"123"},"messages":[{"from":"999","id":"M1","timestamp":"1000","type":"text","text":{"body":"hi"}}]}}]}]}`

func TestWebhookEndToEndInboundText(t *testing.T) {
	r, repo, forwardCalls := setupPipeline(t)

	w := postJSON(t, r, inboundTextBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	reports, err := repo.ListReports(10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "999", reports[0].MessageFrom)
	assert.Equal(t, "hi", reports[0].MessageBody)
	assert.Equal(t, models.StatusReply, reports[0].Status)
	assert.Equal(t, "123", reports[0].PhoneNumberID)

	assert.Equal(t, int32(1), atomic.LoadInt32(forwardCalls))
}

func TestWebhookEndToEndRedelivery(t *testing.T) {
	r, repo, forwardCalls := setupPipeline(t)

	// The provider delivers the same event twice.
	postJSON(t, r, inboundTextBody)
	postJSON(t, r, inboundTextBody)

	reports, err := repo.ListReports(10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	// Only the first delivery is first-seen; no second forward.
	assert.Equal(t, int32(1), atomic.LoadInt32(forwardCalls))
}

func TestWebhookEndToEndStatusEvent(t *testing.T) {
	r, repo, forwardCalls := setupPipeline(t)

	body := `{"entry":[{"id":"E1","changes":[{"value":{"metadata":{"phone_number_id":"123"},"statuses":[{"id":"wamid.s1","status":"delivered","timestamp":"2000","recipient_id":"888"}]}}]}]}`
	w := postJSON(t, r, body)
	assert.Equal(t, http.StatusOK, w.Code)

	stored, err := repo.GetByKey("2000", "888")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.Equal(t, "wamid.s1", stored.WabaID)

	// Status events never reach the dashboard.
	assert.Equal(t, int32(0), atomic.LoadInt32(forwardCalls))
}

func TestWebhookEndToEndStatusThenReplySameKey(t *testing.T) {
	r, repo, _ := setupPipeline(t)

	status := `{"entry":[{"id":"E1","changes":[{"value":{"statuses":[{"id":"wamid.s1","status":"delivered","timestamp":"1000","recipient_id":"999"}]}}]}]}`
	postJSON(t, r, status)

	reply := `{"entry":[{"id":"E1","changes":[{"value":{"messages":[{"from":"999","id":"M1","timestamp":"1000","type":"text","text":{"body":"hi"}}],"contacts":[{"wa_id":"999","profile":{"name":"Asha"}}]}}]}]}`
	postJSON(t, r, reply)

	// Same natural key: the reply updates the delivered row in place.
	reports, err := repo.ListReports(10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.StatusReply, reports[0].Status)
	assert.Equal(t, "Asha", reports[0].ContactName)
}

func TestWebhookEndToEndResponseShape(t *testing.T) {
	r, _, _ := setupPipeline(t)

	w := postJSON(t, r, inboundTextBody)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
