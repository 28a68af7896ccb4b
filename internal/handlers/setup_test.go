package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/session"
	"github.com/BruksfildServices01/oto-servis/internal/storage"
	"github.com/BruksfildServices01/oto-servis/internal/testutil"
	"github.com/BruksfildServices01/oto-servis/internal/validators"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *recordingSink) Dispatch(e audit.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type testServer struct {
	db      *gorm.DB
	router  *gin.Engine
	cfg     *config.Config
	audit   *recordingSink
	revoker *session.MemoryRevoker
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:  config.JWTConfig{Secret: testutil.JWTSecret, TTL: time.Hour},
		Shop: config.ShopConfig{Timezone: "Europe/Istanbul"},
		Photo: config.PhotoConfig{
			MaxWidth:    64,
			Quality:     70,
			MaxUploadMB: 2,
		},
	}
}

// newTestServer monta as rotas da API sobre um sqlite isolado, com os
// usuários de AdminToken/UserToken já aprovados.
// store nil reproduz o ambiente sem bucket configurado.
func newTestServer(t *testing.T, store storage.ObjectStore) *testServer {
	t.Helper()
	ts := newEmptyTestServer(t, store)
	testutil.SeedTokenUsers(t, ts.db)
	return ts
}

// newEmptyTestServer não tem nenhum usuário (fluxo de cadastro).
func newEmptyTestServer(t *testing.T, store storage.ObjectStore) *testServer {
	t.Helper()
	validators.Register()

	db := testutil.SetupTestDB(t)
	cfg := testConfig()
	log := logger.Nop()
	sink := &recordingSink{}
	revoker := session.NewMemoryRevoker()

	r := testutil.SetupRouter()

	authH := NewAuthHandler(db, cfg, revoker, sink, log)
	activityH := NewActivityLogHandler(db, cfg)
	printerH := NewPrinterSettingsHandler(db, sink)
	customerH := NewCustomerHandler(db, sink)
	workOrderH := NewWorkOrderHandler(db, cfg, sink, store, nil, log)
	photoH := NewPhotoHandler(db, cfg, store, sink, log)
	expenseH := NewExpenseHandler(db, cfg, sink)
	saleH := NewAccessorySaleHandler(db, cfg, sink, log)
	reportH := NewReportHandler(db, cfg)

	api := r.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	s := api.Group("/", middleware.AuthMiddleware(cfg, db, revoker, log))
	admin := middleware.RequireAdmin()

	s.GET("/auth/verify", authH.Verify)
	s.POST("/auth/logout", authH.Logout)
	s.GET("/auth/users", admin, authH.ListUsers)
	s.PATCH("/auth/users/:id/approve", admin, authH.ApproveUser)
	s.PATCH("/auth/users/:id/reject", admin, authH.RejectUser)
	s.DELETE("/auth/users/:id", admin, authH.DeleteUser)
	s.GET("/auth/activity-logs", activityH.Mine)
	s.GET("/auth/activity-logs/all", admin, activityH.All)
	s.GET("/auth/printer-settings", printerH.Get)
	s.PUT("/auth/printer-settings", printerH.Update)

	s.GET("/customers", customerH.List)
	s.POST("/customers", customerH.Create)
	s.GET("/customers/search", customerH.Search)
	s.GET("/customers/:id", customerH.Get)
	s.PUT("/customers/:id", customerH.Update)
	s.DELETE("/customers/:id", customerH.Delete)

	s.GET("/work-orders", workOrderH.List)
	s.POST("/work-orders", workOrderH.Create)
	s.GET("/work-orders/next-ticket-number", workOrderH.NextTicketNumber)
	s.GET("/work-orders/:id", workOrderH.Get)
	s.PUT("/work-orders/:id", workOrderH.Update)
	s.DELETE("/work-orders/:id", workOrderH.Delete)
	s.PATCH("/work-orders/:id/complete", workOrderH.Complete)
	s.POST("/work-orders/:id/parts", workOrderH.AddPart)
	s.DELETE("/work-orders/:id/parts/:partId", workOrderH.DeletePart)
	s.GET("/work-orders/:id/print", workOrderH.Print)
	s.GET("/work-orders/:id/photos", photoH.List)
	s.POST("/work-orders/:id/photos", photoH.Upload)
	s.DELETE("/work-orders/:id/photos/:photoId", photoH.Delete)

	s.GET("/expenses", expenseH.List)
	s.POST("/expenses", expenseH.Create)
	s.PUT("/expenses/:id", expenseH.Update)
	s.DELETE("/expenses/:id", expenseH.Delete)

	s.GET("/accessory-sales", saleH.List)
	s.POST("/accessory-sales", saleH.Create)
	s.GET("/accessory-sales/:id", saleH.Get)
	s.DELETE("/accessory-sales/:id", saleH.Delete)

	s.GET("/reports/daily", reportH.Daily)
	s.GET("/reports/range", reportH.Range)
	s.GET("/reports/summary", reportH.Summary)
	s.GET("/reports/ticket-profit", reportH.TicketProfit)
	s.GET("/reports/work-orders/:id", reportH.WorkOrderDetail)

	return &testServer{
		db:      db,
		router:  r,
		cfg:     cfg,
		audit:   sink,
		revoker: revoker,
	}
}
