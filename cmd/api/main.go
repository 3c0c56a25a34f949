package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/procert/registry-backend/internal/config"
	"github.com/procert/registry-backend/internal/handler"
	"github.com/procert/registry-backend/internal/middleware"
	"github.com/procert/registry-backend/internal/repository"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/database"
	"github.com/procert/registry-backend/pkg/email"
	"github.com/procert/registry-backend/pkg/jwt"
	"github.com/procert/registry-backend/pkg/logger"
	"github.com/procert/registry-backend/pkg/payment"
	"github.com/procert/registry-backend/pkg/qrcode"
	"github.com/procert/registry-backend/pkg/storage"
	"github.com/procert/registry-backend/pkg/utils"
)

func main() {
	// .env is optional outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zlog.Sync()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatalw("database init failed", "error", err)
	}

	store, err := newStorage(cfg)
	if err != nil {
		zlog.Fatalw("storage init failed", "error", err)
	}
	zlog.Infow("storage backend selected", "type", store.Type())

	// Repositories
	memberRepo := repository.NewMemberRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	limitsRepo := repository.NewLimitsRepository(db)

	// Outbound services
	tokenManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
	emailService := email.NewEmailService(cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName, zlog)
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.BackendURL)
	qrService := qrcode.NewQRService(cfg.BackendURL)

	// Services
	limitsService := service.NewLimitsService(limitsRepo, memberRepo, certRepo, zlog)
	memberService := service.NewMemberService(memberRepo, limitsService, store, emailService, cfg.BackendURL, zlog)
	certService := service.NewCertificateService(certRepo, limitsService, emailService, zlog)
	paymentService := service.NewPaymentService(paymentRepo, stripeService, limitsService, cfg.Stripe.PublishableKey, zlog)
	analyticsService := service.NewAnalyticsService(memberRepo, certRepo, paymentRepo)
	authService := service.NewAuthService(cfg.Admin, tokenManager)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	memberHandler := handler.NewMemberHandler(memberService, validator)
	certHandler := handler.NewCertificateHandler(certService, qrService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService, limitsService, cfg.Stripe.WebhookSecret, validator)
	uploadHandler := handler.NewUploadHandler(store)
	healthHandler := handler.NewHealthHandler(db, store, analyticsService)

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	api.Post("/login", authHandler.Login)
	api.Get("/health", healthHandler.Health)
	api.Get("/health/detailed", healthHandler.HealthDetailed)
	api.Get("/users/members", memberHandler.GetPublicMembers)
	api.Post("/users/members/verify", memberHandler.VerifyMember)
	api.Post("/certificates/verify", certHandler.VerifyCertificate)
	api.Get("/certificates/:number/qrcode", certHandler.CertificateQR)
	api.Get("/uploads/passports/:filename", uploadHandler.ServePassport)
	api.Get("/uploads/signatures/:filename", uploadHandler.ServeSignature)
	api.Get("/payment-config", paymentHandler.GetPaymentConfig)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Protected routes
	api.Use(middleware.AuthMiddleware(tokenManager))
	{
		api.Get("/getUsers", memberHandler.GetMembers)
		api.Post("/addUser", memberHandler.AddMember)
		api.Put("/updateUser/:id", memberHandler.UpdateMember)
		api.Delete("/deleteUser/:id", memberHandler.DeleteMember)
		api.Delete("/deleteAllUsers", memberHandler.DeleteAllMembers)

		api.Get("/certificates", certHandler.GetCertificates)
		api.Post("/certificates", certHandler.IssueCertificate)
		api.Put("/certificates/:id/revoke", certHandler.RevokeCertificate)
		api.Put("/certificates/:id/restore", certHandler.RestoreCertificate)
		api.Delete("/certificates/:id", certHandler.DeleteCertificate)
		api.Post("/certificates/bulk-delete", certHandler.BulkDeleteCertificates)

		api.Get("/limits-status", paymentHandler.GetLimitsStatus)
		api.Post("/verify-payment", paymentHandler.VerifyPayment)
		api.Post("/increase-limits", paymentHandler.IncreaseLimits)
		api.Post("/database-hosting", paymentHandler.DatabaseHosting)
		api.Get("/database-status", paymentHandler.DatabaseStatus)
		api.Get("/payment-history", paymentHandler.PaymentHistory)

		api.Get("/uploads", uploadHandler.ListFiles)
		api.Get("/analytics/summary", healthHandler.AnalyticsSummary)
	}

	zlog.Infow("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatalw("server stopped", "error", err)
	}
}

// newStorage picks the upload backend. An explicit STORAGE_TYPE wins;
// otherwise memory is used on detected cloud platforms (their filesystems
// are ephemeral) and local disk everywhere else.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	storageType := cfg.Storage.Type
	if storageType == "" {
		if cfg.CloudPlatformDetected() {
			storageType = "memory"
		} else {
			storageType = "local"
		}
	}

	switch storageType {
	case "s3":
		return storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		}, cfg.BackendURL)
	case "memory":
		return storage.NewMemoryStorage(cfg.BackendURL), nil
	default:
		return storage.NewLocalStorage(cfg.Storage.UploadsDir, cfg.BackendURL)
	}
}
