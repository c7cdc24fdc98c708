package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// CartController manages the signed-in user's cart. Every mutation answers
// with the whole cart.
type CartController struct {
	service *services.CartService
}

func NewCartController(s *services.CartService) *CartController {
	return &CartController{service: s}
}

func (ctrl *CartController) Show(c *ctx.Context) {
	cart, err := ctrl.service.Get(c.Context(), c.UserID())
	Reply(c, cart, err)
}

func (ctrl *CartController) Add(c *ctx.Context) {
	var in services.CartAddInput
	if !c.BindJSON(&in) {
		return
	}
	cart, err := ctrl.service.Add(c.Context(), c.UserID(), in)
	Reply(c, cart, err)
}

func (ctrl *CartController) Update(c *ctx.Context) {
	variantID, ok := ID(c, "variant")
	if !ok {
		return
	}
	var in services.CartQuantityInput
	if !c.BindJSON(&in) {
		return
	}
	cart, err := ctrl.service.Update(c.Context(), c.UserID(), variantID, in)
	Reply(c, cart, err)
}

func (ctrl *CartController) Remove(c *ctx.Context) {
	variantID, ok := ID(c, "variant")
	if !ok {
		return
	}
	cart, err := ctrl.service.Remove(c.Context(), c.UserID(), variantID)
	Reply(c, cart, err)
}

func (ctrl *CartController) Clear(c *ctx.Context) {
	cart, err := ctrl.service.Clear(c.Context(), c.UserID())
	Reply(c, cart, err)
}

func (ctrl *CartController) Sync(c *ctx.Context) {
	var in services.CartSyncInput
	if !c.BindJSON(&in) {
		return
	}
	cart, err := ctrl.service.Sync(c.Context(), c.UserID(), in)
	Reply(c, cart, err)
}

type FavoriteController struct {
	service *services.FavoriteService
}

func NewFavoriteController(s *services.FavoriteService) *FavoriteController {
	return &FavoriteController{service: s}
}

func (ctrl *FavoriteController) Index(c *ctx.Context) {
	products, err := ctrl.service.Products(c.Context(), c.UserID())
	Reply(c, products, err)
}

func (ctrl *FavoriteController) Add(c *ctx.Context) {
	productID, ok := ID(c, "product")
	if !ok {
		return
	}
	products, err := ctrl.service.Add(c.Context(), c.UserID(), productID)
	Reply(c, products, err)
}

func (ctrl *FavoriteController) Remove(c *ctx.Context) {
	productID, ok := ID(c, "product")
	if !ok {
		return
	}
	products, err := ctrl.service.Remove(c.Context(), c.UserID(), productID)
	Reply(c, products, err)
}

func (ctrl *FavoriteController) Sync(c *ctx.Context) {
	var in services.ProductIDsInput
	if !c.BindJSON(&in) {
		return
	}
	products, err := ctrl.service.Sync(c.Context(), c.UserID(), in)
	Reply(c, products, err)
}

// ComparisonController answers every call with the grouped comparison list.
type ComparisonController struct {
	service *services.ComparisonService
}

func NewComparisonController(s *services.ComparisonService) *ComparisonController {
	return &ComparisonController{service: s}
}

func (ctrl *ComparisonController) groups(c *ctx.Context, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	groups, err := ctrl.service.Groups(c.Context(), c.UserID())
	Reply(c, groups, err)
}

func (ctrl *ComparisonController) Index(c *ctx.Context) {
	ctrl.groups(c, nil)
}

func (ctrl *ComparisonController) Add(c *ctx.Context) {
	productID, ok := ID(c, "product")
	if !ok {
		return
	}
	_, err := ctrl.service.Add(c.Context(), c.UserID(), productID)
	ctrl.groups(c, err)
}

func (ctrl *ComparisonController) Remove(c *ctx.Context) {
	productID, ok := ID(c, "product")
	if !ok {
		return
	}
	_, err := ctrl.service.Remove(c.Context(), c.UserID(), productID)
	ctrl.groups(c, err)
}

func (ctrl *ComparisonController) RemoveGroup(c *ctx.Context) {
	categoryID, ok := ID(c, "category")
	if !ok {
		return
	}
	groups, err := ctrl.service.RemoveGroup(c.Context(), c.UserID(), categoryID)
	Reply(c, groups, err)
}

func (ctrl *ComparisonController) Sync(c *ctx.Context) {
	var in services.ProductIDsInput
	if !c.BindJSON(&in) {
		return
	}
	_, err := ctrl.service.Sync(c.Context(), c.UserID(), in)
	ctrl.groups(c, err)
}

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{service: s}
}

func (ctrl *OrderController) Index(c *ctx.Context) {
	orders, meta, err := ctrl.service.ForUser(c.Context(), c.UserID(), c.Page())
	ReplyPage(c, orders, meta, err)
}

func (ctrl *OrderController) Show(c *ctx.Context) {
	id, ok := ID(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.service.FindForUser(c.Context(), id, c.UserID())
	Reply(c, order, err)
}

func (ctrl *OrderController) Checkout(c *ctx.Context) {
	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := ctrl.service.Checkout(c.Context(), c.UserID(), in)
	ReplyCreated(c, order, err)
}
