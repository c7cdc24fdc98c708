package admin

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(s *services.UserService) *UserController {
	return &UserController{service: s}
}

func (ctrl *UserController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *UserController) Show(c *ctx.Context) {
	uid, ok := id(c, "id")
	if !ok {
		return
	}
	u, err := ctrl.service.Find(c.Context(), uid)
	reply(c, u, err)
}

func (ctrl *UserController) Store(c *ctx.Context) {
	var in services.UserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, u, err)
}

func (ctrl *UserController) Update(c *ctx.Context) {
	uid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.UserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := ctrl.service.Update(c.Context(), uid, in)
	reply(c, u, err)
}

func (ctrl *UserController) Destroy(c *ctx.Context) {
	uid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), c.UserID(), uid))
}

type RoleController struct {
	service *services.RoleService
}

func NewRoleController(s *services.RoleService) *RoleController {
	return &RoleController{service: s}
}

func (ctrl *RoleController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *RoleController) Permissions(c *ctx.Context) {
	perms, err := ctrl.service.Permissions(c.Context())
	reply(c, perms, err)
}

func (ctrl *RoleController) Show(c *ctx.Context) {
	rid, ok := id(c, "id")
	if !ok {
		return
	}
	r, err := ctrl.service.Find(c.Context(), rid)
	reply(c, r, err)
}

func (ctrl *RoleController) Store(c *ctx.Context) {
	var in services.RoleInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, r, err)
}

func (ctrl *RoleController) Update(c *ctx.Context) {
	rid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.RoleInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := ctrl.service.Update(c.Context(), rid, in)
	reply(c, r, err)
}

// Destroy answers with the ids of the users moved to the customer role.
func (ctrl *RoleController) Destroy(c *ctx.Context) {
	rid, ok := id(c, "id")
	if !ok {
		return
	}
	moved, err := ctrl.service.Delete(c.Context(), rid)
	if err != nil {
		c.Fail(err)
		return
	}
	if moved == nil {
		moved = []uint{}
	}
	c.Success(map[string]any{"reassigned_user_ids": moved})
}

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{service: s}
}

func (ctrl *OrderController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("status"), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *OrderController) Show(c *ctx.Context) {
	oid, ok := id(c, "id")
	if !ok {
		return
	}
	o, err := ctrl.service.Find(c.Context(), oid)
	reply(c, o, err)
}

func (ctrl *OrderController) Update(c *ctx.Context) {
	oid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.OrderStatusInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := ctrl.service.SetStatus(c.Context(), oid, in)
	reply(c, o, err)
}
