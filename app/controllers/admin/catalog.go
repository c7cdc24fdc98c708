// Package admin holds the back-office handlers mounted under /api/admin.
// Each controller is guarded by its "<resource>.manage" permission.
package admin

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

var (
	id           = controllers.ID
	reply        = controllers.Reply
	replyCreated = controllers.ReplyCreated
	replyDeleted = controllers.ReplyDeleted
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(s *services.ProductService) *ProductController {
	return &ProductController{service: s}
}

func (ctrl *ProductController) Index(c *ctx.Context) {
	q := services.AdminProductQuery{
		Search:     c.Query("q"),
		CategoryID: c.QueryUint("category_id"),
		BrandID:    c.QueryUint("brand_id"),
	}
	items, meta, err := ctrl.service.List(c.Context(), q, c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *ProductController) Show(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.service.Find(c.Context(), pid)
	reply(c, p, err)
}

func (ctrl *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, p, err)
}

func (ctrl *ProductController) Update(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := ctrl.service.Update(c.Context(), pid, in)
	reply(c, p, err)
}

func (ctrl *ProductController) Destroy(c *ctx.Context) {
	pid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), pid))
}

type VariantController struct {
	service *services.VariantService
}

func NewVariantController(s *services.VariantService) *VariantController {
	return &VariantController{service: s}
}

func (ctrl *VariantController) Index(c *ctx.Context) {
	productID, ok := id(c, "id")
	if !ok {
		return
	}
	variants, err := ctrl.service.ForProduct(c.Context(), productID)
	reply(c, variants, err)
}

func (ctrl *VariantController) Show(c *ctx.Context) {
	vid, ok := id(c, "id")
	if !ok {
		return
	}
	v, err := ctrl.service.Find(c.Context(), vid)
	reply(c, v, err)
}

func (ctrl *VariantController) Store(c *ctx.Context) {
	productID, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.VariantInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := ctrl.service.Create(c.Context(), productID, in)
	replyCreated(c, v, err)
}

func (ctrl *VariantController) Update(c *ctx.Context) {
	vid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.VariantInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := ctrl.service.Update(c.Context(), vid, in)
	reply(c, v, err)
}

func (ctrl *VariantController) Destroy(c *ctx.Context) {
	vid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), vid))
}

// UploadImages stores the multipart "images" files on the variant.
func (ctrl *VariantController) UploadImages(c *ctx.Context) {
	vid, ok := id(c, "id")
	if !ok {
		return
	}
	if !c.BindForm(&struct{}{}) {
		return
	}
	files := c.Files("images")
	if len(files) == 0 {
		c.ValidationError(map[string]string{"images": "The images field is required."})
		return
	}
	images, err := ctrl.service.AddImages(c.Context(), vid, files)
	replyCreated(c, images, err)
}

func (ctrl *VariantController) DestroyImage(c *ctx.Context) {
	imageID, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.DeleteImage(c.Context(), imageID))
}

type AttributeController struct {
	service *services.AttributeService
}

func NewAttributeController(s *services.AttributeService) *AttributeController {
	return &AttributeController{service: s}
}

func (ctrl *AttributeController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *AttributeController) Show(c *ctx.Context) {
	aid, ok := id(c, "id")
	if !ok {
		return
	}
	a, err := ctrl.service.Find(c.Context(), aid)
	reply(c, a, err)
}

func (ctrl *AttributeController) Store(c *ctx.Context) {
	var in services.AttributeInput
	if !c.BindJSON(&in) {
		return
	}
	a, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, a, err)
}

func (ctrl *AttributeController) Update(c *ctx.Context) {
	aid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.AttributeInput
	if !c.BindJSON(&in) {
		return
	}
	a, err := ctrl.service.Update(c.Context(), aid, in)
	reply(c, a, err)
}

func (ctrl *AttributeController) Destroy(c *ctx.Context) {
	aid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), aid))
}

func (ctrl *AttributeController) StoreValue(c *ctx.Context) {
	aid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.AttributeValueInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := ctrl.service.AddValue(c.Context(), aid, in)
	replyCreated(c, v, err)
}

func (ctrl *AttributeController) UpdateValue(c *ctx.Context) {
	vid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.AttributeValueInput
	if !c.BindJSON(&in) {
		return
	}
	v, err := ctrl.service.UpdateValue(c.Context(), vid, in)
	reply(c, v, err)
}

func (ctrl *AttributeController) DestroyValue(c *ctx.Context) {
	vid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.DeleteValue(c.Context(), vid))
}

type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(s *services.CategoryService) *CategoryController {
	return &CategoryController{service: s}
}

// Index filters by parent_id when given; parent_id=0 lists the roots.
func (ctrl *CategoryController) Index(c *ctx.Context) {
	var parentID *uint
	if c.Query("parent_id") != "" {
		p := c.QueryUint("parent_id")
		parentID = &p
	}
	items, meta, err := ctrl.service.List(c.Context(), c.Query("q"), parentID, c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *CategoryController) Show(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	cat, err := ctrl.service.Find(c.Context(), cid)
	reply(c, cat, err)
}

func (ctrl *CategoryController) Store(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, cat, err)
}

func (ctrl *CategoryController) Update(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := ctrl.service.Update(c.Context(), cid, in)
	reply(c, cat, err)
}

func (ctrl *CategoryController) Destroy(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), cid))
}

func (ctrl *CategoryController) UploadImage(c *ctx.Context) {
	cid, ok := id(c, "id")
	if !ok {
		return
	}
	fh, ok := c.File("image")
	if !ok {
		return
	}
	cat, err := ctrl.service.UploadImage(c.Context(), cid, fh)
	reply(c, cat, err)
}

type BrandController struct {
	service *services.BrandService
}

func NewBrandController(s *services.BrandService) *BrandController {
	return &BrandController{service: s}
}

func (ctrl *BrandController) Index(c *ctx.Context) {
	items, meta, err := ctrl.service.List(c.Context(), c.Query("q"), c.Page())
	controllers.ReplyPage(c, items, meta, err)
}

func (ctrl *BrandController) Show(c *ctx.Context) {
	bid, ok := id(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.service.Find(c.Context(), bid)
	reply(c, b, err)
}

func (ctrl *BrandController) Store(c *ctx.Context) {
	var in services.BrandInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := ctrl.service.Create(c.Context(), in)
	replyCreated(c, b, err)
}

func (ctrl *BrandController) Update(c *ctx.Context) {
	bid, ok := id(c, "id")
	if !ok {
		return
	}
	var in services.BrandInput
	if !c.BindJSON(&in) {
		return
	}
	b, err := ctrl.service.Update(c.Context(), bid, in)
	reply(c, b, err)
}

func (ctrl *BrandController) Destroy(c *ctx.Context) {
	bid, ok := id(c, "id")
	if !ok {
		return
	}
	replyDeleted(c, ctrl.service.Delete(c.Context(), bid))
}

func (ctrl *BrandController) UploadLogo(c *ctx.Context) {
	bid, ok := id(c, "id")
	if !ok {
		return
	}
	fh, ok := c.File("logo")
	if !ok {
		return
	}
	b, err := ctrl.service.UploadLogo(c.Context(), bid, fh)
	reply(c, b, err)
}
