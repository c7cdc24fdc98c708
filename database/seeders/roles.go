package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

// PermAdminAccess guards the whole /api/admin group.
const PermAdminAccess = "admin.access"

// ManagedResources each get a "<resource>.manage" permission.
var ManagedResources = []string{
	"products", "attributes", "categories", "brands", "blog", "users", "roles",
	"delivery", "callbacks", "reviews", "menus", "settings", "orders",
}

// managerExcluded are the resources only admins manage.
var managerExcluded = map[string]bool{"users": true, "roles": true, "settings": true}

func permissionSlugs() []string {
	slugs := []string{PermAdminAccess}
	for _, r := range ManagedResources {
		slugs = append(slugs, r+".manage")
	}
	return slugs
}

func seedPermissions(db *gorm.DB) error {
	for _, slug := range permissionSlugs() {
		p := models.Permission{}
		if err := db.Where(models.Permission{Slug: slug}).
			Attrs(models.Permission{Name: slug}).
			FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRoles(db *gorm.DB) error {
	var all []models.Permission
	if err := db.Find(&all).Error; err != nil {
		return err
	}

	var managerPerms []models.Permission
	for _, p := range all {
		resource, isManage := cutManage(p.Slug)
		if isManage && managerExcluded[resource] {
			continue
		}
		managerPerms = append(managerPerms, p)
	}

	roles := []struct {
		slug, name string
		perms      []models.Permission
	}{
		{models.RoleAdmin, "Administrator", all},
		{models.RoleManager, "Manager", managerPerms},
		{models.RoleCustomer, "Customer", nil},
	}
	for _, r := range roles {
		role := models.Role{}
		if err := db.Where(models.Role{Slug: r.slug}).
			Attrs(models.Role{Name: r.name}).
			FirstOrCreate(&role).Error; err != nil {
			return err
		}
		if err := db.Model(&role).Association("Permissions").Replace(r.perms); err != nil {
			return err
		}
	}
	return nil
}

func cutManage(slug string) (string, bool) {
	const suffix = ".manage"
	if len(slug) > len(suffix) && slug[len(slug)-len(suffix):] == suffix {
		return slug[:len(slug)-len(suffix)], true
	}
	return "", false
}

func seedAdminUser(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@storefront.local")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "password"))
	if err != nil {
		return err
	}
	var admin models.Role
	if err := db.Where("slug = ?", models.RoleAdmin).First(&admin).Error; err != nil {
		return err
	}
	user := models.User{Name: "Administrator", Email: email, Password: hash, Roles: []models.Role{admin}}
	return db.Create(&user).Error
}
