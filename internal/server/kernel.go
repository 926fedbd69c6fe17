package server

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/app/controllers"
	appgraphql "github.com/shashiranjanraj/pizzeria/app/graphql"
	"github.com/shashiranjanraj/pizzeria/app/listeners"
	"github.com/shashiranjanraj/pizzeria/app/repositories"
	"github.com/shashiranjanraj/pizzeria/app/routes"
	"github.com/shashiranjanraj/pizzeria/app/services"
	"github.com/shashiranjanraj/pizzeria/config"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/cache"
	"github.com/shashiranjanraj/pizzeria/pkg/database"
	"github.com/shashiranjanraj/pizzeria/pkg/event"
	"github.com/shashiranjanraj/pizzeria/pkg/graphql"
	"github.com/shashiranjanraj/pizzeria/pkg/metrics"
	"github.com/shashiranjanraj/pizzeria/pkg/middleware"
	"github.com/shashiranjanraj/pizzeria/pkg/reqid"
	"github.com/shashiranjanraj/pizzeria/pkg/response"
	"github.com/shashiranjanraj/pizzeria/pkg/router"
	"github.com/shashiranjanraj/pizzeria/pkg/ws"
)

// Deps are the process resources the kernel wires together. Redis and Hub
// may be nil; Now defaults to time.Now.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Tokens *auth.Tokens
	Hub    *ws.Hub
	Now    func() time.Time
}

// Kernel is the assembled HTTP application.
type Kernel struct {
	Router *router.Router
	Bus    *event.Bus
}

func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// NewKernel builds repositories, services and controllers over deps and
// mounts every route behind the global middleware stack:
//
//	metrics → recovery → request id → request log → CORS → rate limit
func NewKernel(deps Deps) (*Kernel, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	bus := event.NewBus()
	var feed listeners.Publisher
	if deps.Hub != nil {
		feed = deps.Hub
	}
	listeners.RegisterOrderListeners(bus, feed)

	userRepo := repositories.NewUserRepository(deps.DB)
	orderRepo := repositories.NewOrderRepository(deps.DB)

	users := services.NewUserService(userRepo, cache.New(deps.Redis, "user-ids", config.UserCacheTTL()))
	orders := services.NewOrderService(orderRepo, users, bus, deps.Now)
	authSvc := services.NewAuthService(users, services.NewPasswordAuthenticator(users), deps.Tokens, deps.Now)

	schema, err := appgraphql.NewSchema(orders)
	if err != nil {
		return nil, err
	}

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.NewLimiter(config.RateLimitPerMinute(), time.Minute).TrustProxies(config.TrustedProxies()...).Middleware)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, apperror.NotFound("No handler found for %s %s", req.Method, req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.Status(w, req, http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "health", healthHandler(deps.DB))

	api := routes.API{
		Tokens:  deps.Tokens,
		Auth:    controllers.NewAuthController(authSvc),
		Orders:  controllers.NewOrderController(orders),
		GraphQL: graphql.Handler(schema),
	}
	if deps.Hub != nil {
		api.Feed = deps.Hub.ServeHTTP
	}
	routes.RegisterAPI(r, api)

	return &Kernel{Router: r, Bus: bus}, nil
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context(), db); err != nil {
			response.Status(w, r, http.StatusServiceUnavailable)
			return
		}
		response.OK(w, map[string]string{"status": "ok"})
	}
}
