package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController(s *services.ReviewService) *ReviewController {
	return &ReviewController{service: s}
}

func (ctrl *ReviewController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.Approved(c.Context(), c.Param("slug"), c.Page())
	ReplyPage(c, items, meta, err)
}

// Store accepts JSON, or multipart with up to five files under "images".
func (ctrl *ReviewController) Store(c *ctx.Context) {
	var in services.ReviewInput
	if !c.Bind(&in) {
		return
	}
	review, err := ctrl.service.Submit(c.Context(), c.Param("slug"), c.UserID(), in, c.Files("images"))
	ReplyCreated(c, review, err)
}
