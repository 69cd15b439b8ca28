// Main entry point for the Qiran API server.
// Bootstraps all components and starts the server.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qiranapp/qiran-backend/internal/admin"
	"github.com/qiranapp/qiran-backend/internal/auth"
	"github.com/qiranapp/qiran-backend/internal/common/database"
	"github.com/qiranapp/qiran-backend/internal/common/ratelimit"
	"github.com/qiranapp/qiran-backend/internal/config"
	"github.com/qiranapp/qiran-backend/internal/matching"
	"github.com/qiranapp/qiran-backend/internal/notification"
	"github.com/qiranapp/qiran-backend/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Qiran Marriage Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	// 4. Run database migrations
	log.Println("🔨 Step 4: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 5. Connect to Redis (optional; rate limiting and config caching
	// degrade gracefully without it)
	log.Println("📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without it", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping")
	}

	// 6. Rate limiter for discovery actions
	log.Println("🚦 Step 6: Initializing rate limiter...")
	limiter := ratelimit.NewLimiter(redisClient, map[string]ratelimit.Limit{
		matching.ActionLike:     {Max: cfg.LikesPerDay, Window: 24 * time.Hour},
		matching.ActionPass:     {Max: cfg.PassesPerDay, Window: 24 * time.Hour},
		matching.ActionFavorite: {Max: cfg.LikesPerDay, Window: 24 * time.Hour},
		matching.ActionDiscover: {Max: cfg.DiscoveryPerMin, Window: time.Minute},
	})
	log.Println("✅ Rate limiter initialized")

	// 7. Notifications
	log.Println("🔔 Step 7: Initializing notifications...")
	notificationRepo := notification.NewRepository(db)

	var emailProvider notification.EmailProvider
	switch cfg.EmailProvider {
	case "sendgrid":
		emailProvider = notification.NewSendGridEmailProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
		log.Println("   ✅ Using SendGrid for email")
	case "smtp":
		emailProvider = notification.NewSMTPEmailProvider(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
		log.Println("   ✅ Using SMTP for email")
	default:
		emailProvider = notification.NewMockEmailProvider()
		log.Println("   ⚠️  Using mock email provider (development mode)")
	}

	var smsProvider notification.SMSProvider
	switch cfg.SMSProvider {
	case "twilio":
		smsProvider = notification.NewTwilioSMSProvider(
			cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		log.Println("   ✅ Using Twilio for SMS")
	default:
		smsProvider = notification.NewMockSMSProvider()
		log.Println("   ⚠️  Using mock SMS provider (development mode)")
	}

	notificationService := notification.NewService(notificationRepo, emailProvider, smsProvider, notification.Options{
		EmailEnabled: cfg.EnableEmailNotifications,
		SMSEnabled:   cfg.EnableSMSNotifications,
	})
	notificationHandler := notification.NewHandler(notificationService)
	log.Println("✅ Notifications initialized")

	// 8. Authentication
	log.Println("🔐 Step 8: Initializing authentication...")
	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		BCryptCost:         cfg.BCryptCost,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication initialized")

	// 9. Profiles
	log.Println("👤 Step 9: Initializing profiles...")
	profileRepo := profile.NewRepository(db)

	var uploadService profile.UploadService
	if cfg.UseS3 {
		uploadService, err = profile.NewS3UploadService(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("   ⚠️  S3 init failed (%v), falling back to local storage", err)
			uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL)
		} else {
			log.Println("   ✅ Using S3 for photo storage")
		}
	} else {
		uploadService = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL)
		log.Println("   ✅ Using local photo storage")
	}

	profileService := profile.NewService(profileRepo, uploadService, cfg.MaxPhotos)
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profiles initialized")

	// 10. Matching engine
	log.Println("💞 Step 10: Initializing matching engine...")
	matchingRepo := matching.NewPostgresRepository(db)
	matchingHub := matching.NewHub()
	go matchingHub.Run()

	matchingService := matching.NewService(matchingRepo, redisClient, limiter, notificationService, matchingHub)
	matchingHandler := matching.NewHandler(matchingService, matchingHub)
	log.Println("✅ Matching engine initialized")

	// 11. Admin and moderation
	log.Println("🛡️  Step 11: Initializing admin...")
	adminRepo := admin.NewRepository(db)
	adminService := admin.NewService(adminRepo, matchingRepo, redisClient, notificationService)
	adminHandler := admin.NewHandler(adminService)
	log.Println("✅ Admin initialized")

	// 12. Routes
	log.Println("🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware)
	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	notification.RegisterRoutes(router, notificationHandler, authMiddleware)
	admin.RegisterRoutes(router, adminHandler, authMiddleware)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	log.Println("✅ Routes registered")

	// 13. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("========================================")
		log.Printf("🚀 Server listening on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown: ", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%q}`, time.Now().Format(time.RFC3339))
}

// loggingMiddleware logs every request with its duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

// corsMiddleware sets permissive CORS headers for the mobile clients
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
