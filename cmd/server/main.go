package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"invoice-app/config"
	"invoice-app/internal/handler"
	"invoice-app/internal/logger"
	"invoice-app/internal/middleware"
	"invoice-app/internal/models"
	"invoice-app/internal/store"
	"invoice-app/pkg/database"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()
	logger.Setup(config.AppConfig.Server.LogLevel, config.AppConfig.Server.Env)

	// Totals serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Info().Msg("Running migrations...")
	if err := database.DB.AutoMigrate(&models.Invoice{}); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	// 4. Seed Fixture Invoices
	if path := config.AppConfig.Seed.File; path != "" {
		if err := database.SeedInvoices(database.DB, path); err != nil {
			log.Fatal().Err(err).Str("seed_file", path).Msg("Seeding failed")
		}
	}

	// 5. Initialize Router
	if config.AppConfig.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. Setup Routes
	invoiceHandler := handler.NewInvoiceHandler(store.NewInvoiceStore(database.DB))
	api := r.Group("/api")
	{
		api.GET("/invoices", invoiceHandler.List)
		api.POST("/invoices", invoiceHandler.Create)
		api.GET("/invoices/:id", invoiceHandler.Get)
		api.PUT("/invoices/:id", invoiceHandler.Update)
		api.PATCH("/invoices/:id", invoiceHandler.Update)
		api.DELETE("/invoices/:id", invoiceHandler.Delete)
		api.POST("/invoices/:id/pay", invoiceHandler.MarkPaid)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 7. Start Server
	port := config.AppConfig.Server.Port
	log.Info().Str("port", port).Msg("Server starting")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to run server")
	}
}
