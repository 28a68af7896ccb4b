package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

func TestPrinterSettingsDefaultsToEmpty(t *testing.T) {
	ts := newTestServer(t, nil)

	w := testutil.DoRequest(ts.router, http.MethodGet, "/api/auth/printer-settings", nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"settings":{}}`, w.Body.String())
}

func TestPrinterSettingsUpsert(t *testing.T) {
	ts := newTestServer(t, nil)

	w := testutil.DoRequest(ts.router, http.MethodPut, "/api/auth/printer-settings", map[string]any{
		"settings": map[string]any{"shop_name": "Usta Oto", "paper": "A5"},
	}, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.DoRequest(ts.router, http.MethodPut, "/api/auth/printer-settings", map[string]any{
		"shop_name": "Yeni Usta",
	}, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.DoRequest(ts.router, http.MethodGet, "/api/auth/printer-settings", nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)

	settings := testutil.ParseResponse(w)["settings"].(map[string]any)
	assert.Equal(t, "Yeni Usta", settings["shop_name"])
	assert.Nil(t, settings["paper"])
	assert.Equal(t, []string{"printer_settings_updated", "printer_settings_updated"}, ts.audit.actions())
}
