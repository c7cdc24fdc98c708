package models

// User is a customer or staff account.
type User struct {
	Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
	Password string `gorm:"size:255;not null" json:"-"`
	Roles    []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// HasRole reports whether the loaded roles include slug.
func (u *User) HasRole(slug string) bool {
	for _, r := range u.Roles {
		if r.Slug == slug {
			return true
		}
	}
	return false
}

type Role struct {
	Model
	Name        string       `gorm:"size:255;not null" json:"name"`
	Slug        string       `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

type Permission struct {
	Model
	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
}

// Role slugs the application relies on.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)
