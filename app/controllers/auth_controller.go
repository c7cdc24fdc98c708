package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(s *services.AuthService) *AuthController {
	return &AuthController{service: s}
}

func (ctrl *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := ctrl.service.Register(c.Context(), in)
	ReplyCreated(c, res, err)
}

func (ctrl *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := ctrl.service.Login(c.Context(), in)
	Reply(c, res, err)
}

func (ctrl *AuthController) Refresh(c *ctx.Context) {
	var in services.RefreshInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := ctrl.service.Refresh(c.Context(), in)
	Reply(c, res, err)
}

func (ctrl *AuthController) Me(c *ctx.Context) {
	p, err := ctrl.service.Me(c.Context(), c.UserID())
	Reply(c, p, err)
}
