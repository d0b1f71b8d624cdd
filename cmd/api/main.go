package main

import (
	"log"

	_ "tourportal/api/swagger" // swagger docs
	"tourportal/internal/config"
	"tourportal/internal/database"
	"tourportal/internal/handler"
	"tourportal/internal/middleware"
	"tourportal/internal/repository"
	"tourportal/internal/sanitize"
	"tourportal/internal/scope"
	"tourportal/internal/service"
	"tourportal/internal/storage"
	"tourportal/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Tourism Portal API
// @version         1.0
// @description     Municipal tourism portal: business directory, offers, orders, fees, content and audit.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Shared infrastructure
	txManager := repository.NewTransactionManager(db)
	resolver := scope.NewResolver(db)
	sanitizer := sanitize.NewHTMLStripper()
	media := storage.NewLocalStore(cfg.MediaRoot)

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	feeRuleRepo := repository.NewFeeRuleRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	attractionRepo := repository.NewAttractionRepository(db)
	eventRepo := repository.NewEventRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	pipeline := service.NewAuditPipeline(txManager, auditRepo)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = string(middleware.GetJWTSecret())
	}
	userService := service.NewUserService(userRepo, pipeline, jwtSecret)
	businessService := service.NewBusinessService(businessRepo, resolver, pipeline, sanitizer, media)
	offerService := service.NewOfferService(offerRepo, resolver, pipeline, sanitizer, media)
	orderService := service.NewOrderService(orderRepo, offerRepo, resolver, pipeline, wsHub)
	feeService := service.NewFeeService(feeRuleRepo, orderRepo, resolver, pipeline)
	auditService := service.NewAuditService(auditRepo)
	contentService := service.NewContentService(attractionRepo, eventRepo, pipeline, sanitizer, media)
	dashboardService := service.NewDashboardService(dashboardRepo, orderRepo, resolver)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	businessHandler := handler.NewBusinessHandler(businessService)
	offerHandler := handler.NewOfferHandler(offerService)
	orderHandler := handler.NewOrderHandler(orderService)
	feeHandler := handler.NewFeeHandler(feeService)
	auditHandler := handler.NewAuditHandler(auditService)
	contentHandler := handler.NewContentHandler(contentService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("")
	userHandler.RegisterRoutes(api)
	businessHandler.RegisterRoutes(api)
	offerHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	feeHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	contentHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)

	log.Printf("Server listening on %s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
