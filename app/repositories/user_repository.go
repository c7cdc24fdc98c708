package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// UserRepository handles database operations for users and their roles.
type UserRepository struct {
	Repository[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{NewRepository[models.User](db)}
}

// FindByEmail looks up a user by email, case-insensitively, with roles.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)), "Roles")
}

// HasPermission is the permission check: one join from the user's roles to
// the permission slug.
func (r *UserRepository) HasPermission(ctx context.Context, userID uint, slug string) (bool, error) {
	var n int64
	err := r.DB(ctx).Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.slug = ?", userID, slug).
		Count(&n).Error
	return n > 0, err
}

// PermissionSlugs lists every permission the user holds through any role.
func (r *UserRepository) PermissionSlugs(ctx context.Context, userID uint) ([]string, error) {
	slugs := []string{}
	err := r.DB(ctx).Table("permissions").
		Distinct("permissions.slug").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("permissions.slug").
		Pluck("permissions.slug", &slugs).Error
	return slugs, err
}

func (r *UserRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.User, orm.Pagination, error) {
	q := Search(r.Query(ctx).Preload("Roles"), term, "name", "email", "phone").Order("id desc")
	return r.Paginate(q, page)
}

// SyncRoles replaces the user's roles with roleIDs.
func (r *UserRepository) SyncRoles(ctx context.Context, user *models.User, roleIDs []uint) error {
	roles := []models.Role{}
	if len(roleIDs) > 0 {
		if err := r.DB(ctx).Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
			return err
		}
	}
	if err := r.DB(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return err
	}
	user.Roles = roles
	return nil
}

// DeleteCascade removes the user with their role pivots and customer lists.
func (r *UserRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	for _, table := range []string{"user_roles", "cart_items", "favorites", "comparisons"} {
		if err := deleteWhere(db, table, "user_id = ?", id); err != nil {
			return err
		}
	}
	return db.Delete(&models.User{}, id).Error
}

// RoleRepository handles roles and their permission pivots.
type RoleRepository struct {
	Repository[models.Role]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{NewRepository[models.Role](db)}
}

func (r *RoleRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.Role, orm.Pagination, error) {
	q := Search(r.Query(ctx).Preload("Permissions"), term, "name", "slug").Order("id")
	return r.Paginate(q, page)
}

func (r *RoleRepository) SyncPermissions(ctx context.Context, role *models.Role, ids []uint) error {
	perms := []models.Permission{}
	if len(ids) > 0 {
		if err := r.DB(ctx).Where("id IN ?", ids).Find(&perms).Error; err != nil {
			return err
		}
	}
	if err := r.DB(ctx).Model(role).Association("Permissions").Replace(perms); err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}

// SoleHolders returns the users whose only role is roleID.
func (r *RoleRepository) SoleHolders(ctx context.Context, roleID uint) ([]uint, error) {
	ids := []uint{}
	other := r.DB(ctx).Table("user_roles").Select("user_id").Where("role_id <> ?", roleID)
	err := r.DB(ctx).Table("user_roles").
		Where("role_id = ? AND user_id NOT IN (?)", roleID, other).
		Pluck("user_id", &ids).Error
	return ids, err
}

// Assign gives roleID to every user in userIDs.
func (r *RoleRepository) Assign(ctx context.Context, roleID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, map[string]any{"user_id": id, "role_id": roleID})
	}
	return r.DB(ctx).Table("user_roles").Create(&rows).Error
}

// DeleteCascade removes the role and its pivot rows.
func (r *RoleRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "role_permissions", "role_id = ?", id); err != nil {
		return err
	}
	if err := deleteWhere(db, "user_roles", "role_id = ?", id); err != nil {
		return err
	}
	return db.Delete(&models.Role{}, id).Error
}

type PermissionRepository struct {
	Repository[models.Permission]
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{NewRepository[models.Permission](db)}
}
