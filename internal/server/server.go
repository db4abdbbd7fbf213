package server

import (
	"stripe-integration-demo/internal/handler"
	"stripe-integration-demo/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(checkoutService service.CheckoutService, publishableKey string) *Server {
	e := echo.New()
	e.HideBanner = true

	e.File("/", "web/index.html")

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, publishableKey),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/config", s.checkoutHandler.WidgetConfig)

	// -------- catalog --------
	api.POST("/products", s.checkoutHandler.CreateCatalogItem)
	api.GET("/products", s.checkoutHandler.ListProducts)
	api.GET("/products/:id", s.checkoutHandler.GetProduct)
	api.PATCH("/products/:id", s.checkoutHandler.UpdateProduct)
	api.GET("/catalog", s.checkoutHandler.FullCatalog)
	api.POST("/catalog/seed", s.checkoutHandler.SeedCatalog)
	api.GET("/prices", s.checkoutHandler.PriceByLookupKey)

	// -------- payment links --------
	api.POST("/payment-links", s.checkoutHandler.ComposePaymentLink)
	api.GET("/payment-links/:id", s.checkoutHandler.GetPaymentLink)

	// -------- checkout --------
	api.POST("/payment-intents", s.checkoutHandler.BeginCheckout)
	api.GET("/payment-intents/:id", s.checkoutHandler.PaymentIntentStatus)
}

// Echo exposes the router for in-process tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
