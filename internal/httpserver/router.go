package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/db"
	loggingmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/logging"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	CatalogHandler *CatalogHTTP
	RequireAuth    echo.MiddlewareFunc
	// CSRF guards cookie-authenticated writes under /api. Optional.
	CSRF echo.MiddlewareFunc
	// AllowOrigins enables credentialed CORS for the listed origins. Empty
	// means any origin without credentials.
	AllowOrigins []string
	DB           *gorm.DB
}

// New builds the echo instance with the common middleware chain and every
// route registered.
func New(log *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(ecM.RemoveTrailingSlash())
	e.Use(
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(log),
		ecM.Secure(),
		ecM.CORSWithConfig(corsConfig(d.AllowOrigins)),
	)

	Register(e, d)
	return e
}

func corsConfig(origins []string) ecM.CORSConfig {
	cfg := ecM.CORSConfig{
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	if d.CSRF != nil {
		api.Use(d.CSRF)
	}

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout, d.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	cart := api.Group("/cart", d.RequireAuth)
	cart.POST("", d.CartHandler.CreateCart)
	cart.GET("/:cartId", d.CartHandler.GetCart)
	cart.POST("/:cartId/products/:productId", d.CartHandler.AddProduct)
	cart.DELETE("/:cartId/products/:productId", d.CartHandler.RemoveProduct)

	order := api.Group("/order", d.RequireAuth)
	order.POST("/checkout", d.OrderHandler.Checkout)
	order.GET("/orders", d.OrderHandler.ListOrders)
}
