package routes

import (
	"github.com/shashiranjanraj/storefront/app/controllers/admin"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

func registerAdmin(api *router.Group, s *services.Services, feed Feed) {
	g := api.Group("/admin", middleware.Authenticate, rbac.Can(s.Users, seeders.PermAdminAccess))
	manage := func(resource string) *router.Group {
		return g.Group("", rbac.Can(s.Users, resource+".manage"))
	}

	products := admin.NewProductController(s.Products)
	variants := admin.NewVariantController(s.Variants)
	p := manage("products")
	p.Get("/products", "admin.products.index", ctx.Wrap(products.Index))
	p.Post("/products", "admin.products.store", ctx.Wrap(products.Store))
	p.Get("/products/{id}", "admin.products.show", ctx.Wrap(products.Show))
	p.Put("/products/{id}", "admin.products.update", ctx.Wrap(products.Update))
	p.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(products.Destroy))
	p.Get("/products/{id}/variants", "admin.variants.index", ctx.Wrap(variants.Index))
	p.Post("/products/{id}/variants", "admin.variants.store", ctx.Wrap(variants.Store))
	p.Get("/variants/{id}", "admin.variants.show", ctx.Wrap(variants.Show))
	p.Put("/variants/{id}", "admin.variants.update", ctx.Wrap(variants.Update))
	p.Delete("/variants/{id}", "admin.variants.destroy", ctx.Wrap(variants.Destroy))
	p.Post("/variants/{id}/images", "admin.variants.images.store", ctx.Wrap(variants.UploadImages))
	p.Delete("/variant-images/{id}", "admin.variant-images.destroy", ctx.Wrap(variants.DestroyImage))

	attributes := admin.NewAttributeController(s.Attributes)
	a := manage("attributes")
	a.Get("/attributes", "admin.attributes.index", ctx.Wrap(attributes.Index))
	a.Post("/attributes", "admin.attributes.store", ctx.Wrap(attributes.Store))
	a.Get("/attributes/{id}", "admin.attributes.show", ctx.Wrap(attributes.Show))
	a.Put("/attributes/{id}", "admin.attributes.update", ctx.Wrap(attributes.Update))
	a.Delete("/attributes/{id}", "admin.attributes.destroy", ctx.Wrap(attributes.Destroy))
	a.Post("/attributes/{id}/values", "admin.attribute-values.store", ctx.Wrap(attributes.StoreValue))
	a.Put("/attribute-values/{id}", "admin.attribute-values.update", ctx.Wrap(attributes.UpdateValue))
	a.Delete("/attribute-values/{id}", "admin.attribute-values.destroy", ctx.Wrap(attributes.DestroyValue))

	categories := admin.NewCategoryController(s.Categories)
	c := manage("categories")
	c.Get("/categories", "admin.categories.index", ctx.Wrap(categories.Index))
	c.Post("/categories", "admin.categories.store", ctx.Wrap(categories.Store))
	c.Get("/categories/{id}", "admin.categories.show", ctx.Wrap(categories.Show))
	c.Put("/categories/{id}", "admin.categories.update", ctx.Wrap(categories.Update))
	c.Delete("/categories/{id}", "admin.categories.destroy", ctx.Wrap(categories.Destroy))
	c.Post("/categories/{id}/image", "admin.categories.image", ctx.Wrap(categories.UploadImage))

	brands := admin.NewBrandController(s.Brands)
	b := manage("brands")
	b.Get("/brands", "admin.brands.index", ctx.Wrap(brands.Index))
	b.Post("/brands", "admin.brands.store", ctx.Wrap(brands.Store))
	b.Get("/brands/{id}", "admin.brands.show", ctx.Wrap(brands.Show))
	b.Put("/brands/{id}", "admin.brands.update", ctx.Wrap(brands.Update))
	b.Delete("/brands/{id}", "admin.brands.destroy", ctx.Wrap(brands.Destroy))
	b.Post("/brands/{id}/logo", "admin.brands.logo", ctx.Wrap(brands.UploadLogo))

	blog := admin.NewBlogController(s.Blog)
	bl := manage("blog")
	bl.Get("/blog/categories", "admin.blog.categories.index", ctx.Wrap(blog.Categories))
	bl.Post("/blog/categories", "admin.blog.categories.store", ctx.Wrap(blog.StoreCategory))
	bl.Get("/blog/categories/{id}", "admin.blog.categories.show", ctx.Wrap(blog.ShowCategory))
	bl.Put("/blog/categories/{id}", "admin.blog.categories.update", ctx.Wrap(blog.UpdateCategory))
	bl.Delete("/blog/categories/{id}", "admin.blog.categories.destroy", ctx.Wrap(blog.DestroyCategory))
	bl.Get("/blog/posts", "admin.blog.posts.index", ctx.Wrap(blog.Posts))
	bl.Post("/blog/posts", "admin.blog.posts.store", ctx.Wrap(blog.StorePost))
	bl.Get("/blog/posts/{id}", "admin.blog.posts.show", ctx.Wrap(blog.ShowPost))
	bl.Put("/blog/posts/{id}", "admin.blog.posts.update", ctx.Wrap(blog.UpdatePost))
	bl.Delete("/blog/posts/{id}", "admin.blog.posts.destroy", ctx.Wrap(blog.DestroyPost))
	bl.Post("/blog/posts/{id}/image", "admin.blog.posts.image", ctx.Wrap(blog.UploadPostImage))

	users := admin.NewUserController(s.Users)
	u := manage("users")
	u.Get("/users", "admin.users.index", ctx.Wrap(users.Index))
	u.Post("/users", "admin.users.store", ctx.Wrap(users.Store))
	u.Get("/users/{id}", "admin.users.show", ctx.Wrap(users.Show))
	u.Put("/users/{id}", "admin.users.update", ctx.Wrap(users.Update))
	u.Delete("/users/{id}", "admin.users.destroy", ctx.Wrap(users.Destroy))

	roles := admin.NewRoleController(s.Roles)
	r := manage("roles")
	r.Get("/roles", "admin.roles.index", ctx.Wrap(roles.Index))
	r.Post("/roles", "admin.roles.store", ctx.Wrap(roles.Store))
	r.Get("/roles/{id}", "admin.roles.show", ctx.Wrap(roles.Show))
	r.Put("/roles/{id}", "admin.roles.update", ctx.Wrap(roles.Update))
	r.Delete("/roles/{id}", "admin.roles.destroy", ctx.Wrap(roles.Destroy))
	r.Get("/permissions", "admin.permissions.index", ctx.Wrap(roles.Permissions))

	delivery := admin.NewDeliveryController(s.Delivery)
	d := manage("delivery")
	d.Get("/delivery-methods", "admin.delivery-methods.index", ctx.Wrap(delivery.Methods))
	d.Post("/delivery-methods", "admin.delivery-methods.store", ctx.Wrap(delivery.StoreMethod))
	d.Get("/delivery-methods/{id}", "admin.delivery-methods.show", ctx.Wrap(delivery.ShowMethod))
	d.Put("/delivery-methods/{id}", "admin.delivery-methods.update", ctx.Wrap(delivery.UpdateMethod))
	d.Delete("/delivery-methods/{id}", "admin.delivery-methods.destroy", ctx.Wrap(delivery.DestroyMethod))
	d.Get("/payment-methods", "admin.payment-methods.index", ctx.Wrap(delivery.Payments))
	d.Post("/payment-methods", "admin.payment-methods.store", ctx.Wrap(delivery.StorePayment))
	d.Get("/payment-methods/{id}", "admin.payment-methods.show", ctx.Wrap(delivery.ShowPayment))
	d.Put("/payment-methods/{id}", "admin.payment-methods.update", ctx.Wrap(delivery.UpdatePayment))
	d.Delete("/payment-methods/{id}", "admin.payment-methods.destroy", ctx.Wrap(delivery.DestroyPayment))

	callbacks := admin.NewCallbackController(s.Callbacks)
	cb := manage("callbacks")
	cb.Get("/callback-requests", "admin.callback-requests.index", ctx.Wrap(callbacks.Index))
	cb.Get("/callback-requests/{id}", "admin.callback-requests.show", ctx.Wrap(callbacks.Show))
	cb.Put("/callback-requests/{id}", "admin.callback-requests.update", ctx.Wrap(callbacks.Update))
	cb.Delete("/callback-requests/{id}", "admin.callback-requests.destroy", ctx.Wrap(callbacks.Destroy))

	reviews := admin.NewReviewController(s.Reviews)
	rv := manage("reviews")
	rv.Get("/reviews", "admin.reviews.index", ctx.Wrap(reviews.Index))
	rv.Get("/reviews/{id}", "admin.reviews.show", ctx.Wrap(reviews.Show))
	rv.Put("/reviews/{id}", "admin.reviews.update", ctx.Wrap(reviews.Update))
	rv.Delete("/reviews/{id}", "admin.reviews.destroy", ctx.Wrap(reviews.Destroy))

	menus := admin.NewMenuController(s.Menus)
	m := manage("menus")
	m.Get("/catalog-menus", "admin.catalog-menus.index", ctx.Wrap(menus.Index))
	m.Post("/catalog-menus", "admin.catalog-menus.store", ctx.Wrap(menus.Store))
	m.Get("/catalog-menus/{id}", "admin.catalog-menus.show", ctx.Wrap(menus.Show))
	m.Put("/catalog-menus/{id}", "admin.catalog-menus.update", ctx.Wrap(menus.Update))
	m.Delete("/catalog-menus/{id}", "admin.catalog-menus.destroy", ctx.Wrap(menus.Destroy))

	settings := admin.NewSettingController(s.Settings)
	st := manage("settings")
	st.Get("/settings/store", "admin.settings.store", ctx.Wrap(settings.Store))
	st.Put("/settings/store", "admin.settings.store.update", ctx.Wrap(settings.UpdateStore))
	st.Get("/settings/system", "admin.settings.system", ctx.Wrap(settings.System))
	st.Put("/settings/system", "admin.settings.system.update", ctx.Wrap(settings.UpdateSystem))

	orders := admin.NewOrderController(s.Orders)
	o := manage("orders")
	o.Get("/orders", "admin.orders.index", ctx.Wrap(orders.Index))
	o.Get("/orders/{id}", "admin.orders.show", ctx.Wrap(orders.Show))
	o.Put("/orders/{id}", "admin.orders.update", ctx.Wrap(orders.Update))

	if feed.WebSocket != nil {
		g.Get("/ws", "admin.ws", feed.WebSocket.ServeHTTP)
	}
	if feed.Events != nil {
		g.Get("/events", "admin.events", feed.Events.ServeHTTP)
	}
}
