package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/session"
	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

func newAuthRouter(t *testing.T, revoker session.Revoker) (*gin.Engine, *gorm.DB) {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testutil.JWTSecret}}
	log := logger.Nop()

	db := testutil.SetupTestDB(t)
	testutil.SeedTokenUsers(t, db)

	r := testutil.SetupRouter()
	r.Use(RequestLogger(log))
	secured := r.Group("/", AuthMiddleware(cfg, db, revoker, log))
	secured.GET("/whoami", func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": a.UserID, "role": a.Role, "jti": c.GetString(ContextTokenID)})
	})
	secured.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, db
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	r, _ := newAuthRouter(t, session.NewMemoryRevoker())

	w := testutil.DoRequest(r, http.MethodGet, "/whoami", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_authorization_header", testutil.ParseResponse(w)["error_code"])

	w = testutil.DoRequest(r, http.MethodGet, "/whoami", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", testutil.ParseResponse(w)["error_code"])
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestAuthMiddlewareSetsActor(t *testing.T) {
	r, _ := newAuthRouter(t, session.NewMemoryRevoker())

	w := testutil.DoRequest(r, http.MethodGet, "/whoami", nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)

	body := testutil.ParseResponse(w)
	assert.Equal(t, float64(2), body["user_id"])
	assert.Equal(t, "user", body["role"])
	assert.NotEmpty(t, body["jti"])
}

func TestRequireAdmin(t *testing.T) {
	r, _ := newAuthRouter(t, session.NewMemoryRevoker())

	w := testutil.DoRequest(r, http.MethodGet, "/admin", nil, testutil.UserToken())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoRequest(r, http.MethodGet, "/admin", nil, testutil.AdminToken())
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	revoker := session.NewMemoryRevoker()
	r, _ := newAuthRouter(t, revoker)

	token := testutil.UserToken()
	w := testutil.DoRequest(r, http.MethodGet, "/whoami", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	jti := testutil.ParseResponse(w)["jti"].(string)

	require.NoError(t, revoker.Revoke(context.Background(), jti, time.Now().Add(time.Hour)))

	w = testutil.DoRequest(r, http.MethodGet, "/whoami", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_revoked", testutil.ParseResponse(w)["error_code"])
}

func TestAuthMiddlewareChecksCurrentAccountStatus(t *testing.T) {
	r, db := newAuthRouter(t, session.NewMemoryRevoker())
	token := testutil.UserToken()

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 2).
		Update("status", models.UserStatusRejected).Error)
	w := testutil.DoRequest(r, http.MethodGet, "/whoami", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "account_rejected", testutil.ParseResponse(w)["error_code"])

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 2).
		Update("status", models.UserStatusPending).Error)
	w = testutil.DoRequest(r, http.MethodGet, "/whoami", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "account_pending", testutil.ParseResponse(w)["error_code"])

	require.NoError(t, db.Delete(&models.User{}, 2).Error)
	w = testutil.DoRequest(r, http.MethodGet, "/whoami", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user_not_found", testutil.ParseResponse(w)["error_code"])
}

func TestAuthMiddlewareTakesRoleFromDatabase(t *testing.T) {
	r, db := newAuthRouter(t, session.NewMemoryRevoker())

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 1).
		Update("role", models.RoleUser).Error)

	w := testutil.DoRequest(r, http.MethodGet, "/admin", nil, testutil.AdminToken())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
