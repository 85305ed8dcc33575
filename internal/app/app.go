package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ghostsapi/docs"
	"ghostsapi/internal/config"
	"ghostsapi/internal/handlers"
	"ghostsapi/internal/repositories"
	"ghostsapi/internal/routes"
	"ghostsapi/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database: ", err)
	}
	if err := repositories.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations: ", err)
	}

	// === Repos ===
	txm := repositories.NewTxManager(db)
	userRepo := repositories.NewUserRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	tokenRepo := repositories.NewActionTokenRepository(db)

	// === Services ===
	securityService := services.NewSecurityService(cfg.Auth.JWTSecret)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	tokenService := services.NewActionTokenService(tokenRepo, securityService)
	authService := services.NewAuthService(
		txm,
		userRepo,
		tokenService,
		securityService,
		emailService,
		time.Duration(cfg.Auth.AccessTokenTTLHours)*time.Hour,
		time.Duration(cfg.Auth.ActionTokenTTLMinutes)*time.Minute,
		cfg.Auth.FrontendBaseURL,
	)
	userService := services.NewUserService(userRepo)
	addressService := services.NewAddressService(addressRepo, userRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	addressHandler := handlers.NewAddressHandler(addressService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes (JWT guard lives inside SetupRoutes)
	routes.SetupRoutes(router, securityService, authHandler, userHandler, addressHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
