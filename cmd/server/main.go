package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/jcamil/bienes-raices/internal/config"
	"github.com/jcamil/bienes-raices/internal/constants"
	"github.com/jcamil/bienes-raices/internal/database"
	"github.com/jcamil/bienes-raices/internal/handlers"
	"github.com/jcamil/bienes-raices/internal/middleware"
	"github.com/jcamil/bienes-raices/internal/repository"
	"github.com/jcamil/bienes-raices/internal/services"
	"github.com/jcamil/bienes-raices/internal/storage"
	"github.com/jcamil/bienes-raices/internal/utils"
	"github.com/jcamil/bienes-raices/internal/views"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Uploads directory
	uploads, err := storage.NewUploads(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("Failed to prepare uploads directory: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.SetHTMLTemplate(views.Templates())
	r.Static("/public", "./public")

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.CSRF())
	r.Use(middleware.IdentifyUser())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	var mailer services.Mailer = services.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(cfg)
	}
	signer := utils.NewTokenSigner(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, signer, mailer, cfg.BaseURL)
	propertyService := services.NewPropertyService(propertyRepo, lookupRepo, messageRepo, uploads)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, uploads)
	appHandler := handlers.NewAppHandler(propertyService)
	apiHandler := handlers.NewAPIHandler(propertyService)

	// Public pages
	r.GET("/", appHandler.Home)
	r.GET("/404", appHandler.NotFound)
	r.GET("/categorias/:id", appHandler.Category)
	r.POST("/buscador", appHandler.Search)
	r.GET("/propiedad/:id", propertyHandler.Show)
	r.POST("/propiedad/:id", middleware.RequireAuth(), propertyHandler.SendMessage)

	// API
	r.GET("/api/propiedades", apiHandler.Properties)

	// Auth pages
	auth := r.Group("/auth")
	{
		auth.GET("/login", authHandler.LoginForm)
		auth.POST("/login", authHandler.Login)
		auth.POST("/cerrar-sesion", authHandler.Logout)
		auth.GET("/registro", authHandler.RegisterForm)
		auth.POST("/registro", authHandler.Register)
		auth.GET("/confirmar/:token", authHandler.Confirm)
		auth.GET("/olvide-password", authHandler.ForgotPasswordForm)
		auth.POST("/olvide-password", authHandler.ForgotPassword)
		auth.GET("/olvide-password/:token", authHandler.ResetPasswordForm)
		auth.POST("/olvide-password/:token", authHandler.ResetPassword)
	}

	// Owner pages (protected)
	r.GET("/mis-propiedades", middleware.RequireAuth(), propertyHandler.MyProperties)
	r.GET("/mensajes/:id", middleware.RequireAuth(), propertyHandler.Inbox)

	props := r.Group("/propiedades")
	props.Use(middleware.RequireAuth())
	{
		props.GET("/crear", propertyHandler.CreateForm)
		props.POST("/crear", propertyHandler.Create)
		props.GET("/agregar-imagen/:id", propertyHandler.AddImageForm)
		props.POST("/agregar-imagen/:id", propertyHandler.AddImage)
		props.GET("/editar/:id", propertyHandler.EditForm)
		props.POST("/editar/:id", propertyHandler.Edit)
		props.POST("/eliminar/:id", propertyHandler.Delete)
		props.POST("/:id", propertyHandler.TogglePublished)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
