// Package kernel assembles the HTTP handler: global middleware, the
// operational endpoints and the API routes.
package kernel

import (
	"net/http"
	"time"

	appgql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/sse"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// Deps is what the kernel needs from the booted application.
type Deps struct {
	Services *services.Services
	Disk     storage.Disk
	// Hub is the admin live feed; nil disables /api/admin/ws and /api/admin/events.
	Hub *ws.Hub
	// RateLimit is requests per minute per IP; 0 means 200.
	RateLimit int
	// CORSOrigins overrides CORS_ALLOWED_ORIGINS.
	CORSOrigins []string
}

// New builds the router with every route registered. Use Handler on the
// result to serve it, or Routes to list it.
func New(d Deps) *router.Router {
	if d.Disk != nil {
		models.FileURL = d.Disk.URL
	}

	limit := d.RateLimit
	if limit <= 0 {
		limit = 200
	}

	origins := d.CORSOrigins
	if origins == nil {
		origins = config.CORSOrigins()
	}

	r := router.New()

	// outermost first: metrics see total latency, recovery guards everything
	// below it, request ids exist before anything logs
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.StorefrontCORS(origins)))
	r.Use(middleware.RateLimit(limit, time.Minute))

	r.HandleFunc("/metrics", metrics.Handler())

	if local, ok := d.Disk.(*storage.Local); ok {
		r.Mount("/storage", http.StripPrefix("/storage", local.FileServer()))
	}

	schema, err := appgql.NewSchema(d.Services)
	if err != nil {
		logger.Error("kernel: graphql schema disabled", "error", err)
	} else {
		gql := graphql.Handler(schema)
		r.Get("/api/graphql", "graphql.query", gql)
		r.Post("/api/graphql", "graphql.execute", gql)
	}

	var feed routes.Feed
	if d.Hub != nil {
		feed.WebSocket = d.Hub
		feed.Events = sse.Handler(d.Hub)
	}
	routes.RegisterAPI(r, d.Services, feed)

	return r
}
