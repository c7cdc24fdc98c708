package admin

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type BlogController struct {
	service *services.BlogService
}

func NewBlogController(s *services.BlogService) *BlogController {
	return &BlogController{service: s}
}

func (ctrl *BlogController) Categories(c *ctx.Context) {
	items, meta, err := ctrl.service.ListCategories(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *BlogController) ShowCategory(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	cat, err := ctrl.service.FindCategory(c.Context(), cid)
	reply(c, cat, err)
}

func (ctrl *BlogController) StoreCategory(c *ctx.Context) {
	var in services.BlogCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := ctrl.service.CreateCategory(c.Context(), in)
	replyCreated(c, cat, err)
}

func (ctrl *BlogController) UpdateCategory(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.BlogCategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := ctrl.service.UpdateCategory(c.Context(), cid, in)
	reply(c, cat, err)
}

func (ctrl *BlogController) DestroyCategory(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.DeleteCategory(c.Context(), cid))
}

func (ctrl *BlogController) Posts(c *ctx.Context) {
	items, meta, err := ctrl.service.ListPosts(c.Context(), c.Query("q"), c.QueryUint("category_id"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *BlogController) ShowPost(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	post, err := ctrl.service.FindPost(c.Context(), pid)
	reply(c, post, err)
}

func (ctrl *BlogController) StorePost(c *ctx.Context) {
	var in services.BlogPostInput
	if !c.BindJSON(&in) {
		return
	}
	post, err := ctrl.service.CreatePost(c.Context(), in)
	replyCreated(c, post, err)
}

func (ctrl *BlogController) UpdatePost(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.BlogPostInput
	if !c.BindJSON(&in) {
		return
	}
	post, err := ctrl.service.UpdatePost(c.Context(), pid, in)
	reply(c, post, err)
}

func (ctrl *BlogController) DestroyPost(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.DeletePost(c.Context(), pid))
}

func (ctrl *BlogController) UploadPostImage(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	fh, ok := c.File("image")
	if !ok {
		return
	}
	post, err := ctrl.service.UploadPostImage(c.Context(), pid, fh)
	reply(c, post, err)
}

type MenuController struct {
	service *services.MenuService
}

func NewMenuController(s *services.MenuService) *MenuController {
	return &MenuController{service: s}
}

func (ctrl *MenuController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *MenuController) Show(c *ctx.Context) {
	mid, ok := id(c, "id")
	if !ok {
		return
	}
	m, err := ctrl.service.Find(c.Context(), mid)
	reply(c, m, err)
}

func (ctrl *MenuController) Store(c *ctx.Context) {
	var in services.MenuInput
	if !c.BindJSON(&in) {
		return
	}
	m, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, m, err)
}

func (ctrl *MenuController) Update(c *ctx.Context) {
	mid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.MenuInput
	if !c.BindJSON(&in) {
		return
	}
	m, err := ctrl.service.Update(c.Context(), mid, in)
	reply(c, m, err)
}

func (ctrl *MenuController) Destroy(c *ctx.Context) {
	mid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), mid))
}

type DeliveryController struct {
	service *services.DeliveryService
}

func NewDeliveryController(s *services.DeliveryService) *DeliveryController {
	return &DeliveryController{service: s}
}

func (ctrl *DeliveryController) Methods(c *ctx.Context) {
	items, meta, err := ctrl.service.ListMethods(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *DeliveryController) ShowMethod(c *ctx.Context) {
	did, ok := id(c, "id")
	if !ok {
		return
	}
	m, err := ctrl.service.FindMethod(c.Context(), did)
	reply(c, m, err)
}

func (ctrl *DeliveryController) StoreMethod(c *ctx.Context) {
	var in services.DeliveryMethodInput
	if !c.BindJSON(&in) {
		return
	}
	m, err := ctrl.service.CreateMethod(c.Context(), in)
	replyCreated(c, m, err)
}

func (ctrl *DeliveryController) UpdateMethod(c *ctx.Context) {
	did, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.DeliveryMethodInput
	if !c.BindJSON(&in) {
		return
	}
	m, err := ctrl.service.UpdateMethod(c.Context(), did, in)
	reply(c, m, err)
}

func (ctrl *DeliveryController) DestroyMethod(c *ctx.Context) {
	did, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.DeleteMethod(c.Context(), did))
}

func (ctrl *DeliveryController) Payments(c *ctx.Context) {
	items, meta, err := ctrl.service.ListPayments(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *DeliveryController) ShowPayment(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.service.FindPayment(c.Context(), pid)
	reply(c, p, err)
}

func (ctrl *DeliveryController) StorePayment(c *ctx.Context) {
	var in services.PaymentMethodInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := ctrl.service.CreatePayment(c.Context(), in)
	replyCreated(c, p, err)
}

func (ctrl *DeliveryController) UpdatePayment(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.PaymentMethodInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := ctrl.service.UpdatePayment(c.Context(), pid, in)
	reply(c, p, err)
}

func (ctrl *DeliveryController) DestroyPayment(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.DeletePayment(c.Context(), pid))
}

type SettingController struct {
	service *services.SettingService
}

func NewSettingController(s *services.SettingService) *SettingController {
	return &SettingController{service: s}
}

func (ctrl *SettingController) Store(c *ctx.Context) {
	s, err := ctrl.service.Store(c.Context())
	reply(c, s, err)
}

func (ctrl *SettingController) UpdateStore(c *ctx.Context) {
	var in services.Settings
	if !c.BindJSON(&in) {
		return
	}
	s, err := ctrl.service.UpdateStore(c.Context(), in)
	reply(c, s, err)
}

func (ctrl *SettingController) System(c *ctx.Context) {
	s, err := ctrl.service.System(c.Context())
	reply(c, s, err)
}

func (ctrl *SettingController) UpdateSystem(c *ctx.Context) {
	var in services.Settings
	if !c.BindJSON(&in) {
		return
	}
	s, err := ctrl.service.UpdateSystem(c.Context(), in)
	reply(c, s, err)
}

type CallbackController struct {
	service *services.CallbackService
}

func NewCallbackController(s *services.CallbackService) *CallbackController {
	return &CallbackController{service: s}
}

func (ctrl *CallbackController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("status"), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *CallbackController) Show(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	cb, err := ctrl.service.Find(c.Context(), cid)
	reply(c, cb, err)
}

func (ctrl *CallbackController) Update(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.CallbackStatusInput
	if !c.BindJSON(&in) {
		return
	}
	cb, err := ctrl.service.SetStatus(c.Context(), cid, in)
	reply(c, cb, err)
}

func (ctrl *CallbackController) Destroy(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), cid))
}

type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController(s *services.ReviewService) *ReviewController {
	return &ReviewController{service: s}
}

func (ctrl *ReviewController) Index(c *ctx.Context) {
	f := repositories.ReviewFilter{
		ProductID:  c.QueryUint("product_id"),
		IsApproved: c.QueryBool("is_approved"),
	}
	items, meta, err := ctrl.service.List(c.Context(), f, c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *ReviewController) Show(c *ctx.Context) {
	rid, ok := id(c, "id")
	if !ok {
		return
	}
	r, err := ctrl.service.Find(c.Context(), rid)
	reply(c, r, err)
}

func (ctrl *ReviewController) Update(c *ctx.Context) {
	rid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.ReviewModerationInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := ctrl.service.Moderate(c.Context(), rid, in)
	reply(c, r, err)
}

func (ctrl *ReviewController) Destroy(c *ctx.Context) {
	rid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), rid))
}
