package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type MenuRepository struct {
	Repository[models.CatalogMenu]
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{NewRepository[models.CatalogMenu](db)}
}

func byOrder(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }

func (r *MenuRepository) tree(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Preload("Category").
		Preload("Sections", byOrder).
		Preload("Sections.Items", byOrder)
}

func (r *MenuRepository) Active(ctx context.Context) ([]models.CatalogMenu, error) {
	out := []models.CatalogMenu{}
	err := r.tree(ctx).Where("is_active = ?", true).Order("sort_order, id").Find(&out).Error
	return out, err
}

func (r *MenuRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.CatalogMenu, orm.Pagination, error) {
	q := Search(r.Query(ctx), term, "title").Preload("Category").Order("sort_order, id")
	return r.Paginate(q, page)
}

func (r *MenuRepository) FindTree(ctx context.Context, id uint) (*models.CatalogMenu, error) {
	var m models.CatalogMenu
	if err := r.tree(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ForCategory loads the menu of a root category; activeOnly hides inactive menus.
func (r *MenuRepository) ForCategory(ctx context.Context, categoryID uint, activeOnly bool) (*models.CatalogMenu, error) {
	q := r.tree(ctx).Where("product_category_id = ?", categoryID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var m models.CatalogMenu
	if err := q.First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ReplaceSections drops the menu's sections and items and inserts sections.
func (r *MenuRepository) ReplaceSections(ctx context.Context, menuID uint, sections []models.CatalogMenuSection) error {
	if err := r.deleteSections(ctx, menuID); err != nil {
		return err
	}
	for i := range sections {
		sections[i].ID = 0
		sections[i].CatalogMenuID = menuID
		for j := range sections[i].Items {
			sections[i].Items[j].ID = 0
		}
	}
	if len(sections) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&sections).Error
}

func (r *MenuRepository) deleteSections(ctx context.Context, menuID uint) error {
	db := r.DB(ctx)
	sections := db.Model(&models.CatalogMenuSection{}).Select("id").Where("catalog_menu_id = ?", menuID)
	if err := deleteWhere(db, "catalog_menu_items", "catalog_menu_section_id IN (?)", sections); err != nil {
		return err
	}
	return deleteWhere(db, "catalog_menu_sections", "catalog_menu_id = ?", menuID)
}

func (r *MenuRepository) DeleteTree(ctx context.Context, id uint) error {
	if err := r.deleteSections(ctx, id); err != nil {
		return err
	}
	return r.DB(ctx).Delete(&models.CatalogMenu{}, id).Error
}

// DetachCategory clears menu items pointing at a deleted category.
func (r *MenuRepository) DetachCategory(ctx context.Context, categoryID uint) error {
	return r.DB(ctx).Model(&models.CatalogMenuItem{}).
		Where("product_category_id = ?", categoryID).
		Update("product_category_id", nil).Error
}
