package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/cart"
	"github.com/teukusulthan/ninetyn-client/internal/checkout"
	"github.com/teukusulthan/ninetyn-client/internal/guard"
	"github.com/teukusulthan/ninetyn-client/internal/handler"
	"github.com/teukusulthan/ninetyn-client/internal/middleware"
	"github.com/teukusulthan/ninetyn-client/internal/model"
	"github.com/teukusulthan/ninetyn-client/internal/session"
)

type Server struct {
	echo  *echo.Echo
	guard *guard.Guard

	authHandler     *handler.AuthHandler
	productHandler  *handler.ProductHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
}

func NewServer(
	backend *api.Client,
	sess *session.Session,
	crt *cart.Cart,
	flow *checkout.Flow,
	grd *guard.Guard,
) *Server {
	e := echo.New()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:  e,
		guard: grd,

		authHandler:     handler.NewAuthHandler(backend, sess),
		productHandler:  handler.NewProductHandler(backend),
		cartHandler:     handler.NewCartHandler(crt, backend),
		checkoutHandler: handler.NewCheckoutHandler(flow),
		orderHandler:    handler.NewOrderHandler(backend),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := e.Group("/auth")
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/logout", s.authHandler.Logout)
	auth.GET("/me", s.authHandler.Me)
	auth.POST("/refresh", s.authHandler.Refresh)

	// -------- catalog (public) --------
	e.GET("/products", s.productHandler.List)
	e.GET("/product/:id", s.productHandler.Get)

	// -------- catalog (supplier only) --------
	supplierOnly := middleware.RequireRole(s.guard, model.RoleSupplier)
	e.POST("/products", s.productHandler.Create, supplierOnly)
	e.PATCH("/product/:id", s.productHandler.Update, supplierOnly)
	e.DELETE("/product/:id", s.productHandler.SoftDelete, supplierOnly)
	e.PATCH("/product/:id/restore", s.productHandler.Restore, supplierOnly)

	// -------- cart (local, works logged out) --------
	crt := e.Group("/cart")
	crt.GET("", s.cartHandler.Get)
	crt.POST("/items", s.cartHandler.Add)
	crt.PATCH("/items/:id", s.cartHandler.SetQuantity)
	crt.DELETE("/items/:id", s.cartHandler.Remove)
	crt.DELETE("", s.cartHandler.Clear)

	// -------- checkout and history (any credential) --------
	loggedIn := middleware.RequireRole(s.guard, "")
	e.POST("/checkout", s.checkoutHandler.Cart, loggedIn)
	e.POST("/checkout/:id", s.checkoutHandler.Single, loggedIn)
	e.GET("/orders", s.orderHandler.List, loggedIn)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
