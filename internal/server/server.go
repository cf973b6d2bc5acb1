package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"courtside/internal/auth"
	"courtside/internal/banner"
	"courtside/internal/booking"
	"courtside/internal/config"
	"courtside/internal/order"
	"courtside/internal/payout"
	"courtside/internal/provider"
	"courtside/internal/shop"
	"courtside/internal/tournament"
	"courtside/internal/user"
	"courtside/internal/venue"
)

// Deps carries everything the router needs. Construction happens in main;
// the server only wires routes.
type Deps struct {
	DB          *sqlx.DB
	Config      *config.Config
	Users       *user.Handler
	UserRepo    user.Repository
	Venues      *venue.Handler
	Tournaments *tournament.Handler
	Shops       *shop.Handler
	Providers   *provider.Handler
	Banners     *banner.Handler
	Bookings    *booking.Handler
	Orders      *order.Handler
	Payouts     *payout.Handler
}

type Server struct {
	router *gin.Engine
	config *config.Config
	http   *http.Server
}

func New(d Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(ErrorMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	public := router.Group("/auth")
	{
		public.POST("/register", d.Users.Register)
		public.POST("/login", d.Users.Login)
		public.POST("/refresh", d.Users.Refresh)
	}

	// The gateway calls back unauthenticated; the handler acknowledges
	// everything it receives.
	router.POST("/payments/webhook", d.Orders.Webhook)

	authMiddleware := auth.AuthMiddleware(d.Config.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", d.Users.GetMe)
		protected.PUT("/me/device-token", d.Users.UpdateDeviceToken(d.UserRepo))

		protected.GET("/venues", d.Venues.ListVenues)
		protected.GET("/venues/:venueID", d.Venues.GetVenue)
		protected.POST("/venues", d.Venues.CreateVenue)
		protected.GET("/venues/:venueID/availability", d.Bookings.Availability)

		protected.GET("/tournaments", d.Tournaments.ListTournaments)
		protected.GET("/tournaments/:tournamentID", d.Tournaments.GetTournament)
		protected.GET("/tournaments/:tournamentID/sponsors", d.Tournaments.ListSponsors)
		protected.POST("/tournaments", d.Tournaments.CreateTournament)

		protected.GET("/shops", d.Shops.ListShops)
		protected.GET("/shops/:shopID", d.Shops.GetShop)
		protected.POST("/shops", d.Shops.CreateShop)

		protected.GET("/providers", d.Providers.ListProviders)
		protected.GET("/providers/:providerID", d.Providers.GetProvider)
		protected.POST("/providers", d.Providers.CreateProvider)

		protected.GET("/banners", d.Banners.ListBanners)
		protected.POST("/banners", d.Banners.CreateBanner)

		protected.POST("/bookings/checkout", d.Orders.CheckoutBooking)
		protected.GET("/bookings", d.Bookings.ListMyBookings)
		protected.GET("/bookings/:bookingID", d.Bookings.GetBooking)
		protected.POST("/bookings/:bookingID/cancel", d.Bookings.CancelBooking)

		protected.POST("/orders/tournament", d.Orders.CreateFor(order.TypeTournament))
		protected.POST("/orders/sponsor", d.Orders.CreateFor(order.TypeSponsor))
		protected.POST("/orders/banner", d.Orders.CreateFor(order.TypeBanner))
		protected.POST("/orders/shop", d.Orders.CreateFor(order.TypeShop))
		protected.POST("/orders/venue", d.Orders.CreateFor(order.TypeVenue))
		protected.POST("/orders/provider", d.Orders.CreateFor(order.TypeProvider))
		protected.POST("/orders/booking", d.Orders.CreateFor(order.TypeBooking))
		protected.GET("/orders", d.Orders.ListMyOrders)
		protected.GET("/orders/:orderID", d.Orders.GetOrder)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/orders", d.Orders.ListOrders)
		admin.GET("/venues/:venueID/bookings", d.Bookings.ListBookingsByVenue)

		admin.POST("/payouts", d.Payouts.Create)
		admin.GET("/payouts", d.Payouts.List)
		admin.GET("/payouts/attention", d.Payouts.ListNeedingAttention)
		admin.GET("/payouts/:payoutID", d.Payouts.Get)
		admin.POST("/payouts/:payoutID/retry", d.Payouts.Retry)
		admin.POST("/payouts/:payoutID/sync", d.Payouts.Sync)
	}

	router.GET("/health", Health)
	router.GET("/ready", Ready(d.DB))
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		config: d.Config,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
