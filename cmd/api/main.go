package main

import (
	"context"
	"os"
	"strings"

	_ "invoscope/api/swagger" // swagger docs
	"invoscope/internal/authz"
	"invoscope/internal/database"
	"invoscope/internal/handler"
	"invoscope/internal/insight"
	"invoscope/internal/logger"
	"invoscope/internal/middleware"
	"invoscope/internal/model"
	"invoscope/internal/repository"
	"invoscope/internal/service"
	"invoscope/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Invoscope API
// @version         1.0
// @description     Multi-tenant invoice analytics backend.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("No configs/.env file found")
	}
	if err := logger.Setup(logger.FromEnv()); err != nil {
		log.Fatal().Err(err).Msg("logger setup failed")
	}

	db, err := database.NewConnection(database.DSNFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("connected to PostgreSQL")

	// Dropped invoices never fail a request, but they should not vanish
	// silently from the logs either.
	insight.BadDateHook = func(inv model.Invoice) {
		log.Warn().
			Str("invoice_no", inv.InvoiceNo).
			Str("issue_date", inv.IssueDate).
			Msg("invoice excluded from insights: unparsable issue date")
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repository -> Service -> Handler
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	secretRepo := repository.NewSecretRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	if err := roleRepo.EnsureDefaults(context.Background(), defaultRoles()); err != nil {
		log.Fatal().Err(err).Msg("role seeding failed")
	}

	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(userRepo, roleRepo, tenantRepo, tokenRepo)
	tenantService := service.NewTenantService(tenantRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, txManager, auditService, wsHub)
	importService := service.NewImportService(invoiceRepo, auditService, wsHub)
	secretService := service.NewSecretService(secretRepo, auditService)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	insightService := service.NewInsightService(invoiceRepo)

	userHandler := handler.NewUserHandler(userService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, importService)
	secretHandler := handler.NewSecretHandler(secretService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	insightHandler := handler.NewInsightHandler(insightService)
	auditHandler := handler.NewAuditHandler(auditService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	navigationHandler := handler.NewNavigationHandler()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	tenantHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	secretHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)
	insightHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	roleHandler.RegisterRoutes(api)
	navigationHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server listening")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func defaultRoles() []model.Role {
	roles := make([]model.Role, 0, len(authz.AllRoles()))
	for _, name := range authz.AllRoles() {
		roles = append(roles, model.Role{Name: name, IsSystem: true})
	}
	return roles
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		return splitOrigins(raw)
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173"}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
