package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zaiqa-kitchen/api/internal/cart"
	"github.com/zaiqa-kitchen/api/internal/catalog"
	"github.com/zaiqa-kitchen/api/internal/config"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
	"github.com/zaiqa-kitchen/api/internal/handler"
	mw "github.com/zaiqa-kitchen/api/internal/middleware"
	"github.com/zaiqa-kitchen/api/internal/notify"
	"github.com/zaiqa-kitchen/api/internal/service"
	"github.com/zaiqa-kitchen/api/internal/ws"
)

// Deps carries the shared infrastructure the routes are built on.
type Deps struct {
	Queries  *database.Queries
	Pool     *pgxpool.Pool
	Carts    cart.Repository
	Cache    *catalog.OptionCache
	Hub      *ws.Hub
	Notifier *notify.WhatsAppNotifier
}

// New creates a Chi router with all application routes wired up.
// Storefront routes are public; admin routes sit behind JWT auth.
func New(cfg *config.Config, deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",       // storefront dev server
			"http://localhost:5174",       // admin dev server
			"https://zaiqa.kitchen",       // production storefront
			"https://admin.zaiqa.kitchen", // production admin
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	queries := deps.Queries

	catalogSvc := catalog.NewService(queries, deps.Cache)
	cartSvc := cart.NewService(deps.Carts, queries, catalogSvc)

	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderSvc := service.NewOrderService(deps.Pool, newOrderStore, deps.Carts)

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	var cacheInvalidator handler.CacheInvalidator
	if deps.Cache != nil {
		cacheInvalidator = deps.Cache
	}
	categoryHandler := handler.NewCategoryHandler(queries, cacheInvalidator)
	itemHandler := handler.NewItemHandler(queries, catalogSvc, cacheInvalidator)
	variationHandler := handler.NewVariationHandler(queries)
	cartHandler := handler.NewCartHandler(cartSvc)
	// A typed nil pointer must not reach the interface field, the handler
	// nil-checks it.
	var notifier handler.Notifier
	if deps.Notifier != nil {
		notifier = deps.Notifier
	}
	var hub handler.Broadcaster
	if deps.Hub != nil {
		hub = deps.Hub
	}
	orderHandler := handler.NewOrderHandler(orderSvc, queries, hub, notifier)
	paymentHandler := handler.NewPaymentHandler(queries)
	reportsHandler := handler.NewReportsHandler(queries)
	sectionHandler := handler.NewSectionHandler(queries, deps.Pool)

	// Auth routes (public)
	authHandler.RegisterRoutes(r)

	// WebSocket routes (admin feed authenticates via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeAdminWS(deps.Hub, cfg.JWTSecret, w, r)
	})
	r.Get("/ws/orders/{number}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeOrderWS(deps.Hub, w, r)
	})

	// Storefront routes (public)
	itemHandler.RegisterPublicRoutes(r)
	sectionHandler.RegisterPublicRoutes(r)
	orderHandler.RegisterPublicRoutes(r)
	r.Route("/cart", cartHandler.RegisterRoutes)

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleStaff))

		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)
			paymentHandler.RegisterRoutes(r)
		})

		// Menu management and analytics need the full admin role.
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))

			r.Route("/categories", categoryHandler.RegisterRoutes)
			r.Route("/items", func(r chi.Router) {
				itemHandler.RegisterRoutes(r)
				r.Route("/{itemID}", variationHandler.RegisterRoutes)
			})
			r.Route("/sections", sectionHandler.RegisterRoutes)
			r.Route("/reports", reportsHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
