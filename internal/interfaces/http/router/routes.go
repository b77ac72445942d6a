package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the storefront API serves
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Address  *handler.AddressHandler
	Order    *handler.OrderHandler
	Callback *handler.PaymentCallbackHandler
	Session  *handler.SessionHandler
	Admin    *handler.AdminHandler
}

// AuthConfig supplies the token checks used by protected groups
type AuthConfig struct {
	Validator middleware.TokenValidator
	Blacklist auth.TokenBlacklist
	// AuthLimiter throttles sign-up and sign-in; nil disables it
	AuthLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// RegisterStorefront mounts the storefront API on engine: health probes at
// the root and every domain group under /api/v1.
func RegisterStorefront(engine *gin.Engine, h Handlers, cfg AuthConfig) *Router {
	engine.GET("/health", h.System.Health)
	engine.GET("/health/ready", h.System.Ready)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found", c.GetString(middleware.RequestIDKey)))
	})

	requireUser := middleware.JWTAuth(cfg.Validator, cfg.Blacklist, cfg.Logger)
	optionalUser := middleware.OptionalJWTAuth(cfg.Validator, cfg.Blacklist, cfg.Logger)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(NewDomainGroup("system", "/system").GET("/info", h.System.Info))
	r.Register(authGroup(h.Auth, requireUser, cfg.AuthLimiter))
	r.Register(catalogGroup(h.Catalog))
	r.Register(NewDomainGroup("shipping", "/shipping").GET("/quote", h.Order.ShippingQuote))
	r.Register(NewDomainGroup("payments", "/payments").POST("/phonepe/callback", h.Callback.PhonePe))
	r.Register(NewDomainGroup("cart", "/cart").Use(requireUser).
		GET("", h.Cart.List).
		GET("/summary", h.Cart.Summary).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:product_id", h.Cart.UpdateItem).
		DELETE("/items/:product_id", h.Cart.RemoveItem).
		DELETE("", h.Cart.Clear))
	r.Register(NewDomainGroup("addresses", "/addresses").Use(requireUser).
		GET("", h.Address.List).
		POST("", h.Address.Create).
		PUT("/:id", h.Address.Update).
		DELETE("/:id", h.Address.Delete).
		POST("/:id/default", h.Address.SetDefault))
	r.Register(NewDomainGroup("orders", "/orders").Use(requireUser).
		POST("", h.Order.Create).
		GET("", h.Order.List).
		GET("/:id", h.Order.Get).
		POST("/:id/cancel", h.Order.Cancel).
		POST("/:id/payment", h.Order.InitiatePayment).
		POST("/:id/payment/confirm", h.Order.ConfirmPayment).
		GET("/:id/tracking", h.Order.Track))
	r.Register(sessionGroup(h.Session, requireUser, optionalUser))
	r.Register(adminGroup(h.Admin, h.Catalog, requireUser))
	r.Setup()
	return r
}

func authGroup(h *handler.AuthHandler, requireUser gin.HandlerFunc, limiter *middleware.RateLimiter) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	public := g.Group("credentials", "")
	if limiter != nil {
		public.Use(middleware.RateLimit(limiter))
	}
	public.POST("/signup", h.SignUp).POST("/signin", h.SignIn)

	g.Group("account", "").Use(requireUser).
		POST("/signout", h.SignOut).
		GET("/me", h.Me).
		PUT("/me", h.UpdateProfile).
		PUT("/password", h.ChangePassword)
	return g
}

func catalogGroup(h *handler.CatalogHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "")
	g.Group("products", "/products").
		GET("", h.ListProducts).
		GET("/:id", h.GetProduct)
	g.Group("categories", "/categories").
		GET("", h.ListCategories).
		GET("/:id", h.GetCategory)
	return g
}

func sessionGroup(h *handler.SessionHandler, requireUser, optionalUser gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("session", "/session")
	g.Group("browse", "").Use(optionalUser).
		GET("", h.State).
		POST("/navigate", h.Navigate)
	g.Group("checkout", "").Use(requireUser).
		POST("/checkout", h.Checkout).
		POST("/payment/confirm", h.ConfirmPayment)
	return g
}

func adminGroup(h *handler.AdminHandler, catalog *handler.CatalogHandler, requireUser gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("admin", "/admin").Use(requireUser, middleware.RequireAdmin())
	g.GET("/dashboard", h.Dashboard)

	g.Group("orders", "/orders").
		GET("", h.ListOrders).
		GET("/:id", h.GetOrder).
		PUT("/:id/status", h.UpdateOrderStatus).
		POST("/:id/shipment", h.CreateShipment).
		DELETE("/:id/shipment", h.CancelShipment).
		GET("/:id/tracking", h.TrackShipment).
		POST("/:id/refund", h.Refund)

	g.Group("products", "/products").
		GET("", catalog.ListAllProducts).
		GET("/:id", catalog.GetAnyProduct).
		POST("", catalog.CreateProduct).
		PUT("/:id", catalog.UpdateProduct).
		POST("/:id/activate", catalog.ActivateProduct).
		POST("/:id/deactivate", catalog.DeactivateProduct)

	g.Group("categories", "/categories").
		GET("", catalog.ListAllCategories).
		POST("", catalog.CreateCategory).
		PUT("/:id", catalog.UpdateCategory)

	g.Group("images", "/images").
		POST("/presign", catalog.PresignImageUpload).
		DELETE("", catalog.DeleteImage)

	g.Group("users", "/users").
		GET("", h.ListUsers).
		PUT("/:id/role", h.SetUserRole)
	return g
}
