package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtutil "github.com/mimipoint/backend/internal/auth/jwt"
	"github.com/mimipoint/backend/internal/auth/service"
	"github.com/mimipoint/backend/internal/billing"
	"github.com/mimipoint/backend/internal/complaint"
	"github.com/mimipoint/backend/internal/config"
	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/market"
	"github.com/mimipoint/backend/internal/notify"
	"github.com/mimipoint/backend/internal/repo"
	"github.com/mimipoint/backend/internal/transport/http/middleware"
	"github.com/mimipoint/backend/internal/wallet"
)

type Handler struct {
	auth          service.AuthService
	wallets       *wallet.Service
	billing       *billing.Service
	notifications *notify.Service
	complaints    *complaint.Service
	market        *market.Service
	activities    repo.ActivityRepo
	log           *zap.Logger
}

func NewHandler(
	auth service.AuthService,
	wallets *wallet.Service,
	billingSvc *billing.Service,
	notifications *notify.Service,
	complaints *complaint.Service,
	marketSvc *market.Service,
	activities repo.ActivityRepo,
	log *zap.Logger,
) *Handler {
	return &Handler{
		auth:          auth,
		wallets:       wallets,
		billing:       billingSvc,
		notifications: notifications,
		complaints:    complaints,
		market:        marketSvc,
		activities:    activities,
		log:           log,
	}
}

func NewRouter(h *Handler, jwtUtil jwtutil.JWTUtil, revoked repo.TokenRepo, cfg *config.Config, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
		auth.POST("/validate", h.validate)
		auth.POST("/verify", h.verifyAccount)
		auth.POST("/verify/resend", h.resendVerification)
		auth.POST("/password-reset", h.requestPasswordReset)
		auth.POST("/password-reset/confirm", h.confirmPasswordReset)
		auth.POST("/2fa/verify", h.verifyTwoFactor)
		auth.POST("/2fa/resend", h.resendTwoFactor)
		auth.GET("/oauth/google/callback", h.oauthCallback)
		auth.POST("/oauth/redeem", h.redeemOAuthCode)
	}

	authed := router.Group("/", middleware.BearerAuth(jwtUtil, revoked))
	{
		authed.GET("/me", h.me)
		authed.PATCH("/me", h.updateProfile)
		authed.POST("/me/password", h.changePassword)
		authed.POST("/me/2fa/enable", h.enableTwoFactor)
		authed.POST("/me/2fa/disable", h.disableTwoFactor)
		authed.GET("/me/activities", h.listActivities)

		authed.GET("/wallets", h.listWallets)
		authed.GET("/wallets/:id", h.getWallet)
		authed.DELETE("/wallets/:id", h.deleteWallet)
		authed.POST("/wallets/:id/deposit", h.deposit)
		authed.POST("/wallets/:id/withdraw", h.withdraw)
		authed.POST("/wallets/:id/topup", h.initiateTopup)
		authed.POST("/payments/confirm", h.confirmTopup)
		authed.GET("/transactions", h.listTransactions)
		authed.GET("/transactions/:id", h.getTransaction)
		authed.DELETE("/transactions/:id", h.deleteTransaction)

		authed.GET("/plans", h.listPlans)
		authed.GET("/plans/:id", h.getPlan)
		authed.POST("/subscriptions", h.subscribe)
		authed.GET("/subscriptions/current", h.currentSubscription)
		authed.POST("/subscriptions/renew", h.renewSubscription)
		authed.POST("/subscriptions/change", h.changePlan)
		authed.DELETE("/subscriptions", h.cancelSubscription)

		authed.GET("/notifications", h.listNotifications)
		authed.POST("/notifications/:id/read", h.markNotificationRead)

		authed.POST("/complaints", h.createComplaint)
		authed.GET("/complaints", h.listComplaints)
		authed.GET("/complaints/:id", h.getComplaint)
		authed.DELETE("/complaints/:id", h.deleteComplaint)

		authed.POST("/products", h.createProduct)
		authed.GET("/products", h.listProducts)
		authed.GET("/products/mine", h.listMyProducts)
		authed.GET("/products/search", h.searchProducts)
		authed.GET("/products/:id", h.getProduct)
		authed.PUT("/products/:id", h.updateProduct)
		authed.DELETE("/products/:id", h.deleteProduct)
		authed.POST("/products/:id/reviews", h.createReview)
		authed.GET("/products/:id/reviews", h.listReviews)
		authed.PUT("/reviews/:id", h.updateReview)
		authed.DELETE("/reviews/:id", h.deleteReview)

		admin := authed.Group("/admin", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/plans", h.createPlan)
			admin.PUT("/plans/:id", h.updatePlan)
			admin.DELETE("/plans/:id", h.deletePlan)
			admin.POST("/notifications", h.createNotification)
			admin.GET("/transactions", h.adminListTransactions)
		}
	}

	return router
}

// handleError maps domain sentinels to stable status codes. Anything
// unrecognized collapses to a generic 500 so internals never leak.
func handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsPasswordMismatch(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case customErrors.IsAccountNotVerified(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "account not verified"})
	case customErrors.IsOAuthOnly(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "account uses oauth sign-in"})
	case customErrors.IsPermissionDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permission"})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case customErrors.IsInsufficientFunds(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient funds"})
	case customErrors.IsUpstreamProvider(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream provider failure"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func tokenPairJSON(pair model.TokenPair) gin.H {
	return gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    int(pair.AccessTTL.Seconds()),
		"user_id":       pair.UserID.String(),
	}
}

func userJSON(u model.User) gin.H {
	return gin.H{
		"id":                u.ID.String(),
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"email":             u.Email,
		"role":              u.Role,
		"phone":             u.Phone,
		"address":           u.Address,
		"state":             u.State,
		"country":           u.Country,
		"avatar":            u.Avatar,
		"bio":               u.Bio,
		"gender":            u.Gender,
		"is_verified":       u.IsVerified,
		"two_factor":        u.TwoFactorEnabled,
		"is_oauth":          u.IsOAuth,
		"login_provider":    u.LoginProvider,
		"profile_completed": u.ProfileCompleted,
	}
}
