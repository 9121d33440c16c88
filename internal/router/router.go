package router

import (
	"fmt"
	"strings"

	"github.com/padmaaja-rasooi/internal/cache"
	"github.com/padmaaja-rasooi/internal/config"
	adminhandlers "github.com/padmaaja-rasooi/internal/http/handlers/admin"
	publichandlers "github.com/padmaaja-rasooi/internal/http/handlers/public"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pr"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, try again later",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, try again later",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetSiteConfig)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/categories", publicHandler.ListCategories)
		}

		// 会员认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 会员接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/confirm", publicHandler.ConfirmOrder)
			user.POST("/orders/cancel", publicHandler.CancelOrder)

			user.POST("/payments", publicHandler.CreateCheckout)
			user.POST("/payments/verify", publicHandler.VerifyPayment)

			user.GET("/dashboard/genealogy", publicHandler.GetGenealogy)
			user.GET("/dashboard/team", publicHandler.GetTeam)
			user.GET("/dashboard/commissions", publicHandler.ListCommissions)
			user.GET("/commissions/stats", publicHandler.GetCommissionStats)

			user.POST("/payouts", publicHandler.ApplyPayout)
			user.GET("/payouts", publicHandler.ListPayouts)
			user.GET("/payouts/:id", publicHandler.GetPayout)
			user.GET("/dashboard/payouts", publicHandler.ListPayouts)

			user.GET("/wallet", publicHandler.GetWallet)
			user.GET("/wallet/transactions", publicHandler.ListWalletTransactions)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)

			authorized := admin.Use(
				AdminJWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo),
				AdminRBACMiddleware(c.AuthzService),
			)
			{
				authorized.PUT("/password", adminHandler.ChangePassword)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PATCH("/orders/:id", adminHandler.UpdateOrder)
				authorized.GET("/payments", adminHandler.ListPayments)

				authorized.GET("/users", adminHandler.ListUsers)
				authorized.GET("/users/:id", adminHandler.GetUser)
				authorized.PUT("/users/:id", adminHandler.UpdateUser)

				authorized.GET("/payouts", adminHandler.ListPayouts)
				authorized.PUT("/payouts/:id", adminHandler.ReviewPayout)
				authorized.POST("/wallets/adjust", adminHandler.AdjustWallet)

				authorized.GET("/commissions", adminHandler.ListCommissions)
				authorized.PATCH("/commissions/:id", adminHandler.UpdateCommission)
				authorized.GET("/commissions/settings", adminHandler.ListCommissionTiers)
				authorized.POST("/commissions/settings", adminHandler.UpsertCommissionTier)
				authorized.PUT("/commissions/settings/:id", adminHandler.UpdateCommissionTier)
				authorized.DELETE("/commissions/settings/:id", adminHandler.DeleteCommissionTier)

				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				authorized.GET("/settings", adminHandler.ListSettings)
				authorized.PUT("/settings", adminHandler.UpdateSetting)
			}
		}
	}

	return r
}
