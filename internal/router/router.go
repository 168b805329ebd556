package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/decalforge/decalforge/internal/authz"
	"github.com/decalforge/decalforge/internal/cache"
	"github.com/decalforge/decalforge/internal/config"
	adminhandlers "github.com/decalforge/decalforge/internal/http/handlers/admin"
	publichandlers "github.com/decalforge/decalforge/internal/http/handlers/public"
	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the storefront and back office routes.
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
		redisPrefix = "df"
	}
	redisClient := cache.Client()
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

	apiV1 := r.Group("/api/v1")
	{
		// Storefront, no auth required.
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/posts", publicHandler.ListPosts)
			public.GET("/posts/:slug", publicHandler.GetPost)
			public.GET("/gallery", publicHandler.ListGallery)
			public.GET("/gallery/categories", publicHandler.ListGalleryCategories)
			public.GET("/orders/track", publicHandler.TrackOrder)
		}

		// Guest cart and checkout, keyed by cart token.
		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/:product_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", publicHandler.DeleteCartItem)
			cart.POST("/discount-code", publicHandler.ApplyDiscountCode)
			cart.DELETE("/discount-code", publicHandler.RemoveDiscountCode)
		}
		apiV1.POST("/checkout", publicHandler.Checkout)

		apiV1.POST("/payments/webhook/stripe", publicHandler.StripeWebhook)

		// Back office.
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/profile", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				authorized.GET("/products", adminHandler.ListAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				authorized.GET("/posts", adminHandler.ListAdminPosts)
				authorized.GET("/posts/:id", adminHandler.GetAdminPost)
				authorized.POST("/posts", adminHandler.CreatePost)
				authorized.PUT("/posts/:id", adminHandler.UpdatePost)
				authorized.DELETE("/posts/:id", adminHandler.DeletePost)

				authorized.GET("/gallery", adminHandler.ListAdminGallery)
				authorized.POST("/gallery", adminHandler.CreateGalleryItem)
				authorized.PUT("/gallery/:id", adminHandler.UpdateGalleryItem)
				authorized.DELETE("/gallery/:id", adminHandler.DeleteGalleryItem)

				authorized.GET("/discount-codes", adminHandler.ListDiscountCodes)
				authorized.POST("/discount-codes", adminHandler.CreateDiscountCode)
				authorized.PUT("/discount-codes/:id", adminHandler.UpdateDiscountCode)
				authorized.DELETE("/discount-codes/:id", adminHandler.DeleteDiscountCode)

				authorized.GET("/orders", adminHandler.ListAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.POST("/orders/:id/refund", adminHandler.RefundOrder)
				authorized.POST("/orders/:id/cancel", adminHandler.CancelOrder)
				authorized.POST("/orders/:id/ship", adminHandler.ShipOrder)

				authorized.GET("/reports/payments", adminHandler.PaymentsReport)

				authorized.GET("/affiliates", adminHandler.ListAffiliates)
				authorized.GET("/affiliates/:id", adminHandler.GetAffiliate)
				authorized.POST("/affiliates", adminHandler.CreateAffiliate)
				authorized.PUT("/affiliates/:id", adminHandler.UpdateAffiliate)
				authorized.GET("/commissions", adminHandler.ListCommissions)

				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
