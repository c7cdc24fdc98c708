// Package routes registers the storefront and admin REST routes.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Feed serves the admin live feed. Either handler may be nil.
type Feed struct {
	WebSocket http.Handler
	Events    http.Handler
}

// RegisterAPI mounts the public storefront and the signed-in customer routes
// under /api, then the admin routes under /api/admin.
func RegisterAPI(r *router.Router, s *services.Services, feed Feed) {
	authCtrl := controllers.NewAuthController(s.Auth)
	catalog := controllers.NewCatalogController(s)
	reviews := controllers.NewReviewController(s.Reviews)
	content := controllers.NewContentController(s)
	cart := controllers.NewCartController(s.Cart)
	favorites := controllers.NewFavoriteController(s.Favorites)
	comparison := controllers.NewComparisonController(s.Comparisons)
	orders := controllers.NewOrderController(s.Orders)

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(authCtrl.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authCtrl.Login))
	api.Post("/auth/refresh", "auth.refresh", ctx.Wrap(authCtrl.Refresh))
	api.Get("/auth/me", "auth.me", ctx.Wrap(authCtrl.Me), middleware.Authenticate)

	api.Get("/categories", "categories.index", ctx.Wrap(catalog.Categories))
	api.Get("/categories/{slug}", "categories.show", ctx.Wrap(catalog.Category))
	api.Get("/brands", "brands.index", ctx.Wrap(catalog.Brands))
	api.Get("/products", "products.index", ctx.Wrap(catalog.Products))
	api.Get("/products/{slug}", "products.show", ctx.Wrap(catalog.Product))
	api.Get("/products/{slug}/reviews", "reviews.index", ctx.Wrap(reviews.Index))
	api.Post("/products/{slug}/reviews", "reviews.store", ctx.Wrap(reviews.Store), middleware.OptionalAuth)
	api.Get("/catalog-menus", "catalog-menus.index", ctx.Wrap(catalog.Menus))
	api.Get("/catalog-menus/{slug}", "catalog-menus.show", ctx.Wrap(catalog.Menu))

	api.Get("/blog/categories", "blog.categories", ctx.Wrap(content.BlogCategories))
	api.Get("/blog/posts", "blog.posts", ctx.Wrap(content.BlogPosts))
	api.Get("/blog/posts/{slug}", "blog.posts.show", ctx.Wrap(content.BlogPost))
	api.Get("/delivery-methods", "delivery-methods.index", ctx.Wrap(content.DeliveryMethods))
	api.Get("/settings", "settings.show", ctx.Wrap(content.Settings))
	api.Post("/callback-requests", "callback-requests.store", ctx.Wrap(content.RequestCallback))

	me := api.Group("", middleware.Authenticate)

	me.Get("/cart", "cart.show", ctx.Wrap(cart.Show))
	me.Post("/cart", "cart.add", ctx.Wrap(cart.Add))
	me.Post("/cart/sync", "cart.sync", ctx.Wrap(cart.Sync))
	me.Put("/cart/{variant}", "cart.update", ctx.Wrap(cart.Update))
	me.Delete("/cart/{variant}", "cart.remove", ctx.Wrap(cart.Remove))
	me.Delete("/cart", "cart.clear", ctx.Wrap(cart.Clear))

	me.Get("/favorites", "favorites.index", ctx.Wrap(favorites.Index))
	me.Post("/favorites/sync", "favorites.sync", ctx.Wrap(favorites.Sync))
	me.Post("/favorites/{product}", "favorites.add", ctx.Wrap(favorites.Add))
	me.Delete("/favorites/{product}", "favorites.remove", ctx.Wrap(favorites.Remove))

	me.Get("/comparison", "comparison.index", ctx.Wrap(comparison.Index))
	me.Post("/comparison/sync", "comparison.sync", ctx.Wrap(comparison.Sync))
	me.Post("/comparison/{product}", "comparison.add", ctx.Wrap(comparison.Add))
	me.Delete("/comparison/groups/{category}", "comparison.groups.remove", ctx.Wrap(comparison.RemoveGroup))
	me.Delete("/comparison/{product}", "comparison.remove", ctx.Wrap(comparison.Remove))

	me.Get("/orders", "orders.index", ctx.Wrap(orders.Index))
	me.Post("/orders", "orders.checkout", ctx.Wrap(orders.Checkout))
	me.Get("/orders/{id}", "orders.show", ctx.Wrap(orders.Show))

	registerAdmin(api, s, feed)
}
