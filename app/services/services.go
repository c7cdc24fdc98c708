// Package services holds the business rules of the store. Controllers call
// services; services compose repositories inside transactions, keep slugs
// unique, remove stored files, invalidate caches and fire domain events.
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/slug"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// Domain events.
const (
	EventOrderCreated    = "order.created"
	EventCallbackCreated = "callback.created"
	EventReviewCreated   = "review.created"
)

// Cache keys of the storefront read models.
const (
	KeyCategoryTree = "categories:tree"
	KeyMenus        = "catalog_menus:active"
	KeyStoreSetting = "settings:store"

	cacheTTL = time.Hour
)

// Deps are the collaborators shared by every service.
type Deps struct {
	DB     *gorm.DB
	Disk   storage.Disk
	Cache  cache.Store
	Events event.Firer
}

// Services is the registry handed to controllers.
type Services struct {
	Auth        *AuthService
	Users       *UserService
	Roles       *RoleService
	Categories  *CategoryService
	Brands      *BrandService
	Attributes  *AttributeService
	Products    *ProductService
	Variants    *VariantService
	Reviews     *ReviewService
	Blog        *BlogService
	Delivery    *DeliveryService
	Callbacks   *CallbackService
	Menus       *MenuService
	Settings    *SettingService
	Cart        *CartService
	Favorites   *FavoriteService
	Comparisons *ComparisonService
	Orders      *OrderService
}

func New(d Deps) *Services {
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	if d.Events == nil {
		d.Events = event.Nop{}
	}
	s := &Services{}
	s.Users = NewUserService(d)
	s.Auth = NewAuthService(d, s.Users)
	s.Roles = NewRoleService(d)
	s.Categories = NewCategoryService(d)
	s.Brands = NewBrandService(d)
	s.Attributes = NewAttributeService(d)
	s.Products = NewProductService(d, s.Categories)
	s.Variants = NewVariantService(d)
	s.Reviews = NewReviewService(d)
	s.Blog = NewBlogService(d)
	s.Delivery = NewDeliveryService(d)
	s.Callbacks = NewCallbackService(d)
	s.Menus = NewMenuService(d)
	s.Settings = NewSettingService(d)
	s.Cart = NewCartService(d)
	s.Favorites = NewFavoriteService(d)
	s.Comparisons = NewComparisonService(d, s.Categories)
	s.Orders = NewOrderService(d)
	return s
}

// makeSlug picks the slug for a row: the explicit one if given, otherwise
// the name, suffixed until no other row uses it.
func makeSlug(explicit, name string, taken func(candidate string) (bool, error)) (string, error) {
	base := strings.TrimSpace(explicit)
	if base == "" {
		base = name
	}
	return slug.Unique(slug.Make(base), taken)
}

// forget drops cache keys; a failing cache only costs staleness.
func (d Deps) forget(ctx context.Context, keys ...string) {
	if err := d.Cache.Forget(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache forget failed", "keys", keys, "error", err)
	}
}

// removeFiles deletes stored files after the rows referencing them are gone.
func (d Deps) removeFiles(ctx context.Context, paths ...string) {
	if d.Disk == nil {
		return
	}
	if err := storage.DeleteAll(ctx, d.Disk, paths...); err != nil {
		logger.WithCtx(ctx).Warn("file cleanup failed", "paths", paths, "error", err)
	}
}

// storeImage saves an uploaded image under dir; rejected files become a
// validation error on field.
func (d Deps) storeImage(ctx context.Context, field, dir string, fh *multipart.FileHeader) (string, error) {
	if d.Disk == nil {
		return "", errors.New("services: no storage disk configured")
	}
	p, err := storage.StoreImage(ctx, d.Disk, dir, fh, bind.MaxUploadBytes())
	var ue *storage.UploadError
	if errors.As(err, &ue) {
		return "", Invalid(field, fmt.Sprintf("The %s %s.", field, ue.Reason))
	}
	return p, err
}

func (d Deps) tx(ctx context.Context, fn func(ctx context.Context) error) error {
	return repositories.Transaction(ctx, d.DB, fn)
}
