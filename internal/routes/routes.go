package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/config"
	"github.com/BruksfildServices01/oto-servis/internal/handlers"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/metrics"
	"github.com/BruksfildServices01/oto-servis/internal/middleware"
	"github.com/BruksfildServices01/oto-servis/internal/session"
	"github.com/BruksfildServices01/oto-servis/internal/storage"
	"github.com/BruksfildServices01/oto-servis/internal/validators"
)

// Deps reúne o que o main monta; Store e Registry são opcionais.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *logger.Logger
	Revoker  session.Revoker
	Store    storage.ObjectStore
	Registry *prometheus.Registry
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	validators.Register()

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	var (
		httpMetrics      *metrics.HTTPMetrics
		workOrderMetrics *metrics.WorkOrderMetrics
	)
	if d.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(d.Registry)
		workOrderMetrics = metrics.NewWorkOrderMetrics(d.Registry)
	}

	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics(httpMetrics))
	r.Use(middleware.CORSMiddleware(d.Config.App.CORSAllowedOrigins))

	// ======================================================
	// HANDLERS
	// ======================================================
	db, cfg := d.DB, d.Config

	authHandler := handlers.NewAuthHandler(db, cfg, d.Revoker, d.Audit, d.Log)
	activityHandler := handlers.NewActivityLogHandler(db, cfg)
	printerHandler := handlers.NewPrinterSettingsHandler(db, d.Audit)
	customerHandler := handlers.NewCustomerHandler(db, d.Audit)
	workOrderHandler := handlers.NewWorkOrderHandler(db, cfg, d.Audit, d.Store, workOrderMetrics, d.Log)
	photoHandler := handlers.NewPhotoHandler(db, cfg, d.Store, d.Audit, d.Log)
	expenseHandler := handlers.NewExpenseHandler(db, cfg, d.Audit)
	saleHandler := handlers.NewAccessorySaleHandler(db, cfg, d.Audit, d.Log)
	reportHandler := handlers.NewReportHandler(db, cfg)

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	auth := middleware.AuthMiddleware(cfg, db, d.Revoker, d.Log)
	admin := middleware.RequireAdmin()

	// ------------------------------
	// AUTH
	// ------------------------------
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("/")
	secured.Use(auth)
	{
		secured.GET("/auth/verify", authHandler.Verify)
		secured.POST("/auth/logout", authHandler.Logout)

		secured.GET("/auth/users", admin, authHandler.ListUsers)
		secured.PATCH("/auth/users/:id/approve", admin, authHandler.ApproveUser)
		secured.PATCH("/auth/users/:id/reject", admin, authHandler.RejectUser)
		secured.DELETE("/auth/users/:id", admin, authHandler.DeleteUser)

		secured.GET("/auth/activity-logs", activityHandler.Mine)
		secured.GET("/auth/activity-logs/all", admin, activityHandler.All)

		secured.GET("/auth/printer-settings", printerHandler.Get)
		secured.PUT("/auth/printer-settings", printerHandler.Update)

		// ------------------------------
		// CUSTOMERS
		// ------------------------------
		secured.GET("/customers", customerHandler.List)
		secured.POST("/customers", customerHandler.Create)
		secured.GET("/customers/search", customerHandler.Search)
		secured.GET("/customers/:id", customerHandler.Get)
		secured.PUT("/customers/:id", customerHandler.Update)
		secured.DELETE("/customers/:id", customerHandler.Delete)

		// ------------------------------
		// WORK ORDERS
		// ------------------------------
		secured.GET("/work-orders", workOrderHandler.List)
		secured.POST("/work-orders", workOrderHandler.Create)
		secured.GET("/work-orders/next-ticket-number", workOrderHandler.NextTicketNumber)
		secured.GET("/work-orders/:id", workOrderHandler.Get)
		secured.PUT("/work-orders/:id", workOrderHandler.Update)
		secured.DELETE("/work-orders/:id", workOrderHandler.Delete)
		secured.PATCH("/work-orders/:id/complete", workOrderHandler.Complete)
		secured.POST("/work-orders/:id/parts", workOrderHandler.AddPart)
		secured.DELETE("/work-orders/:id/parts/:partId", workOrderHandler.DeletePart)
		secured.GET("/work-orders/:id/print", workOrderHandler.Print)

		secured.GET("/work-orders/:id/photos", photoHandler.List)
		secured.POST("/work-orders/:id/photos", photoHandler.Upload)
		secured.DELETE("/work-orders/:id/photos/:photoId", photoHandler.Delete)

		// ------------------------------
		// EXPENSES / ACCESSORY SALES
		// ------------------------------
		secured.GET("/expenses", expenseHandler.List)
		secured.POST("/expenses", expenseHandler.Create)
		secured.PUT("/expenses/:id", expenseHandler.Update)
		secured.DELETE("/expenses/:id", expenseHandler.Delete)

		secured.GET("/accessory-sales", saleHandler.List)
		secured.POST("/accessory-sales", saleHandler.Create)
		secured.GET("/accessory-sales/:id", saleHandler.Get)
		secured.DELETE("/accessory-sales/:id", saleHandler.Delete)

		// ------------------------------
		// REPORTS
		// ------------------------------
		secured.GET("/reports/daily", reportHandler.Daily)
		secured.GET("/reports/range", reportHandler.Range)
		secured.GET("/reports/summary", reportHandler.Summary)
		secured.GET("/reports/ticket-profit", reportHandler.TicketProfit)
		secured.GET("/reports/work-orders/:id", reportHandler.WorkOrderDetail)
	}
}
