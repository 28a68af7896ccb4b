package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/oto-servis/internal/models"
)

const JWTSecret = "test-secret"

// SetupTestDB abre um sqlite em memória isolado por teste, já migrado.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// uma conexão só: transações do sqlite não convivem bem com cache compartilhado
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

func GenerateTestToken(userID uint, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  fmt.Sprintf("test-jti-%d", now.UnixNano()),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString([]byte(JWTSecret))
	return s
}

func AdminToken() string {
	return GenerateTestToken(1, models.RoleAdmin)
}

func UserToken() string {
	return GenerateTestToken(2, models.RoleUser)
}

func DoRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ParseResponse(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func SeedUser(t *testing.T, db *gorm.DB, id uint, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           id,
		Name:         username,
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserStatusApproved,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

// SeedTokenUsers cria os donos de AdminToken (id 1) e UserToken (id 2).
func SeedTokenUsers(t *testing.T, db *gorm.DB) {
	t.Helper()
	SeedUser(t, db, 1, "admin", models.RoleAdmin)
	SeedUser(t, db, 2, "usta", models.RoleUser)
}
