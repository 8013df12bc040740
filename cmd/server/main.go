package main

import (
	"log"
	"time"

	"mago-agent/internal/ai"
	"mago-agent/internal/auth"
	"mago-agent/internal/catalog"
	"mago-agent/internal/config"
	"mago-agent/internal/gateway"
	"mago-agent/internal/handlers"
	"mago-agent/internal/middleware"
	"mago-agent/internal/reports"
	"mago-agent/internal/sales"
	"mago-agent/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := config.Load()
	auth.SetSecret(cfg.JWTSecret)

	// Everything talks to the MagoImports backend through one gateway.
	gw := gateway.New(cfg.APIBaseURL)

	store, err := session.OpenSQLiteStore(cfg.SessionDBPath)
	if err != nil {
		log.Fatal("❌ Error: could not open session database: ", err)
	}
	manager, err := session.NewManager(gw, store)
	if err != nil {
		log.Fatal("❌ Error: could not load session state: ", err)
	}
	log.Println("✅ Session store ready at " + cfg.SessionDBPath)

	catalogRepo := catalog.NewRepository(gw)
	salesRepo := sales.NewRepository(gw)
	aggregator := reports.NewAggregator(gw)

	productHandler := handlers.NewProductHandler(catalogRepo)
	salesHandler := handlers.NewSalesHandler(salesRepo, catalogRepo)
	reportHandler := handlers.NewReportHandler(aggregator, salesRepo)
	sessionHandler := handlers.NewSessionHandler(manager, cfg.AdminEmail, cfg.AdminPassword)
	adminHandler := handlers.NewAdminHandler(gw)
	aiHandler := handlers.NewAIHandler(ai.NewAgent(catalogRepo, aggregator), cfg.GeminiAPIKey)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", sessionHandler.Login)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/session/accounts", sessionHandler.Accounts)
		api.POST("/session/switch", sessionHandler.Switch)
		api.POST("/session/logout", sessionHandler.Logout)

		api.GET("/products", productHandler.List)
		api.POST("/products", productHandler.Create)
		api.PUT("/products/:id", productHandler.Update)
		api.DELETE("/products/:id", productHandler.Delete)

		api.GET("/sales", salesHandler.List)
		api.DELETE("/sales/:id", salesHandler.Delete)

		api.POST("/draft", salesHandler.OpenDraft)
		api.GET("/draft", salesHandler.GetDraft)
		api.POST("/draft/items", salesHandler.AddItem)
		api.DELETE("/draft/items/:productId", salesHandler.RemoveItem)
		api.POST("/draft/save", salesHandler.SaveDraft)

		api.GET("/reports/low-stock", reportHandler.LowStock)
		api.GET("/reports/by-status", reportHandler.SalesByStatus)
		api.GET("/reports/period", reportHandler.SalesByPeriod)
		api.GET("/reports/inventory", reportHandler.FullInventory)
		api.GET("/reports/procurement", reportHandler.Procurement)
		api.GET("/reports/performance", reportHandler.Performance)
		api.GET("/reports/ranking", reportHandler.Ranking)
		api.GET("/reports/overview", reportHandler.Overview)

		api.GET("/finance/summary", reportHandler.FinanceSummary)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireAdmin(cfg.AdminEmail))
		{
			admin.POST("/ask", aiHandler.Ask)
			admin.GET("/admin/users/pending", adminHandler.PendingUsers)
			admin.POST("/admin/users/decide", adminHandler.DecideUser)
		}
	}

	log.Println("🚀 Server starting on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
