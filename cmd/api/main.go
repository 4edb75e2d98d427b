package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mimipoint/backend/internal/auth/hash"
	jwtutil "github.com/mimipoint/backend/internal/auth/jwt"
	"github.com/mimipoint/backend/internal/auth/oauth"
	"github.com/mimipoint/backend/internal/auth/service"
	"github.com/mimipoint/backend/internal/billing"
	"github.com/mimipoint/backend/internal/complaint"
	"github.com/mimipoint/backend/internal/config"
	lg "github.com/mimipoint/backend/internal/infra/log"
	"github.com/mimipoint/backend/internal/infra/server"
	"github.com/mimipoint/backend/internal/market"
	"github.com/mimipoint/backend/internal/migrate"
	"github.com/mimipoint/backend/internal/notify"
	"github.com/mimipoint/backend/internal/payment/paystack"
	postgresRepo "github.com/mimipoint/backend/internal/repo/postgres"
	redisRepo "github.com/mimipoint/backend/internal/repo/redis"
	httptransport "github.com/mimipoint/backend/internal/transport/http"
	"github.com/mimipoint/backend/internal/wallet"
)

func strongPassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if utf8.RuneCountInString(pwd) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range pwd {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validator.New()
	if err := validate.RegisterValidation("strongpwd", strongPassword); err != nil {
		zapLog.Fatal("register validator", zap.Error(err))
	}

	jwtUtil, err := jwtutil.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	userRepo := postgresRepo.NewUserRepo(db)
	oobTokenRepo := postgresRepo.NewOOBTokenRepo(db)
	walletRepo := postgresRepo.NewWalletRepo(db)
	transactionRepo := postgresRepo.NewTransactionRepo(db)
	planRepo := postgresRepo.NewPlanRepo(db)
	subscriptionRepo := postgresRepo.NewSubscriptionRepo(db)
	notificationRepo := postgresRepo.NewNotificationRepo(db)
	activityRepo := postgresRepo.NewActivityRepo(db)
	complaintRepo := postgresRepo.NewComplaintRepo(db)
	productRepo := postgresRepo.NewProductRepo(db)
	txManager := postgresRepo.NewTxManager(db)
	revocationRepo := redisRepo.NewRevocationRepo(redisCli)
	oauthCodeRepo := redisRepo.NewOAuthCodeRepo(redisCli)

	mailer := notify.NewBrevoMailer(cfg.BrevoBaseURL, cfg.BrevoAPIKey, cfg.SenderName, cfg.SenderEmail)
	pusher := notify.NewFCMPusher(cfg.FCMEndpoint, cfg.FCMAPIKey)
	dispatcher := notify.NewDispatcher(mailer, pusher, zapLog)

	gateway := paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	googleProvider := oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	tokenService := service.NewTokenService(oobTokenRepo, txManager, cfg.OOBTokenTTL)
	authService := service.NewAuthService(
		userRepo, revocationRepo, oauthCodeRepo, tokenService, activityRepo,
		hash.New(cfg.PasswordPepper), jwtUtil, googleProvider, dispatcher,
		validate, zapLog, cfg.FrontendURL, cfg.OAuthCodeTTL,
	)
	walletService := wallet.NewService(walletRepo, transactionRepo, activityRepo, txManager, gateway, zapLog)
	billingService := billing.NewService(planRepo, subscriptionRepo, walletService, zapLog)
	notificationService := notify.NewService(notificationRepo, userRepo, dispatcher)
	complaintService := complaint.NewService(complaintRepo, activityRepo, zapLog)
	marketService := market.NewService(productRepo, activityRepo, zapLog)

	handler := httptransport.NewHandler(
		authService, walletService, billingService, notificationService,
		complaintService, marketService, activityRepo, zapLog,
	)
	router := httptransport.NewRouter(handler, jwtUtil, revocationRepo, cfg, zapLog)

	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg.HTTPAddress, router, zapLog)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		zapLog.Info("shutdown signal received")
	case <-ctx.Done():
	}
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
