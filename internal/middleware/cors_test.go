package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

func corsRequest(r http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	req.Header.Set("Origin", origin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newCORSRouter(allowed []string) *gin.Engine {
	r := testutil.SetupRouter()
	r.Use(CORSMiddleware(allowed))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowList(t *testing.T) {
	r := newCORSRouter([]string{"https://panel.oto.test/"})

	w := corsRequest(r, http.MethodGet, "https://panel.oto.test")
	assert.Equal(t, "https://panel.oto.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(r, http.MethodGet, "https://evil.test")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSEmptyListReflectsOriginAndAnswersPreflight(t *testing.T) {
	r := newCORSRouter(nil)

	w := corsRequest(r, http.MethodOptions, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}
