package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// ContentController serves the blog, delivery options, store settings and
// callback requests.
type ContentController struct {
	blog      *services.BlogService
	delivery  *services.DeliveryService
	settings  *services.SettingService
	callbacks *services.CallbackService
}

func NewContentController(s *services.Services) *ContentController {
	return &ContentController{
		blog:      s.Blog,
		delivery:  s.Delivery,
		settings:  s.Settings,
		callbacks: s.Callbacks,
	}
}

func (ctrl *ContentController) BlogCategories(c *ctx.Context) {
	cats, err := ctrl.blog.AllCategories(c.Context())
	Reply(c, cats, err)
}

func (ctrl *ContentController) BlogPosts(c *ctx.Context) {
	posts, meta, err := ctrl.blog.Published(c.Context(), c.Query("category"), c.Page())
	ReplyPage(c, posts, meta, err)
}

func (ctrl *ContentController) BlogPost(c *ctx.Context) {
	post, err := ctrl.blog.Post(c.Context(), c.Param("slug"))
	Reply(c, post, err)
}

func (ctrl *ContentController) DeliveryMethods(c *ctx.Context) {
	methods, err := ctrl.delivery.Active(c.Context())
	Reply(c, methods, err)
}

func (ctrl *ContentController) Settings(c *ctx.Context) {
	settings, err := ctrl.settings.Store(c.Context())
	Reply(c, settings, err)
}

func (ctrl *ContentController) RequestCallback(c *ctx.Context) {
	var in services.CallbackInput
	if !c.BindJSON(&in) {
		return
	}
	cb, err := ctrl.callbacks.Create(c.Context(), in)
	ReplyCreated(c, cb, err)
}
