package routes

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/session"
	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

func newRouter(t *testing.T) (*Deps, http.Handler) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.SeedTokenUsers(t, db)
	log := logger.Nop()
	dispatcher := audit.NewDispatcher(audit.New(db), log, 10)
	t.Cleanup(dispatcher.Close)

	d := Deps{
		DB: db,
		Config: &config.Config{
			JWT:  config.JWTConfig{Secret: testutil.JWTSecret, TTL: time.Hour},
			Shop: config.ShopConfig{Timezone: "Europe/Istanbul"},
		},
		Log:      log,
		Revoker:  session.NewMemoryRevoker(),
		Registry: prometheus.NewRegistry(),
		Audit:    dispatcher,
	}

	r := testutil.SetupRouter()
	RegisterRoutes(r, d)
	return &d, r
}

func TestHealth(t *testing.T) {
	_, r := newRouter(t)

	w := testutil.DoRequest(r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", testutil.ParseResponse(w)["status"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	_, r := newRouter(t)

	for _, path := range []string{"/api/work-orders", "/api/customers", "/api/reports/daily", "/api/expenses"} {
		w := testutil.DoRequest(r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestMetricsExposeRequestsAndWorkOrderEvents(t *testing.T) {
	_, r := newRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/work-orders", map[string]any{
		"customer_name": "Ali",
	}, testutil.UserToken())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.DoRequest(r, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `work_order_events_total{event="created"} 1`)
	assert.Contains(t, body, `route="/api/work-orders"`)
}

func TestAuditEntriesReachActivityLog(t *testing.T) {
	d, r := newRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/customers", map[string]any{
		"full_name": "Ayşe",
	}, testutil.UserToken())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	d.Audit.Close()

	var logs []models.ActivityLog
	require.NoError(t, d.DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "customer_created", logs[0].Action)
	assert.Equal(t, uint(2), *logs[0].UserID)
}
