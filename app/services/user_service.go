package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type UserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"nullable,max=50"`
	Password string `json:"password" validate:"nullable,min=8"`
	RoleIDs  []uint `json:"role_ids"`
}

type UserService struct {
	Deps
	repo  *repositories.UserRepository
	roles *repositories.RoleRepository
}

func NewUserService(d Deps) *UserService {
	return &UserService{Deps: d, repo: repositories.NewUserRepository(d.DB), roles: repositories.NewRoleRepository(d.DB)}
}

// HasPermission backs the rbac middleware.
func (s *UserService) HasPermission(ctx context.Context, userID uint, permission string) (bool, error) {
	return s.repo.HasPermission(ctx, userID, permission)
}

func (s *UserService) List(ctx context.Context, term string, page orm.PageParams) ([]models.User, orm.Pagination, error) {
	return s.repo.List(ctx, term, page)
}

func (s *UserService) Find(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.repo.Find(ctx, id, "Roles")
	return u, missing(err, "User")
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if in.Password == "" {
		return nil, Invalid("password", "The password field is required.")
	}
	u := &models.User{}
	if err := s.save(ctx, u, in); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	u, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, u, in); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) save(ctx context.Context, u *models.User, in UserInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.repo.Exists(ctx, "email", email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return Invalid("email", "The email has already been taken.")
	}
	roleIDs := collection.Unique(in.RoleIDs)
	if roles, err := s.roles.FindMany(ctx, roleIDs); err != nil {
		return err
	} else if len(roles) != len(roleIDs) {
		return Invalid("role_ids", "The selected role ids is invalid.")
	}

	u.Name, u.Email, u.Phone = strings.TrimSpace(in.Name), email, in.Phone
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return err
		}
		u.Password = hash
	}
	return s.tx(ctx, func(ctx context.Context) error {
		var err error
		if u.ID == 0 {
			err = s.repo.Create(ctx, u)
		} else {
			err = s.repo.Save(ctx, u)
		}
		if err != nil {
			return err
		}
		return s.repo.SyncRoles(ctx, u, roleIDs)
	})
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return Invalid("user", "You cannot delete your own account.")
	}
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	return s.tx(ctx, func(ctx context.Context) error {
		return s.repo.DeleteCascade(ctx, id)
	})
}

type RoleInput struct {
	Name          string `json:"name" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"nullable,alpha_dash,max=255"`
	PermissionIDs []uint `json:"permission_ids"`
}

type RoleService struct {
	Deps
	repo  *repositories.RoleRepository
	perms *repositories.PermissionRepository
}

func NewRoleService(d Deps) *RoleService {
	return &RoleService{Deps: d, repo: repositories.NewRoleRepository(d.DB), perms: repositories.NewPermissionRepository(d.DB)}
}

func (s *RoleService) List(ctx context.Context, term string, page orm.PageParams) ([]models.Role, orm.Pagination, error) {
	return s.repo.List(ctx, term, page)
}

func (s *RoleService) Permissions(ctx context.Context) ([]models.Permission, error) {
	return s.perms.All(ctx, "slug")
}

func (s *RoleService) Find(ctx context.Context, id uint) (*models.Role, error) {
	r, err := s.repo.Find(ctx, id, "Permissions")
	return r, missing(err, "Role")
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	r := &models.Role{}
	if err := s.save(ctx, r, in); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RoleService) Update(ctx context.Context, id uint, in RoleInput) (*models.Role, error) {
	r, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, r, in); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RoleService) save(ctx context.Context, r *models.Role, in RoleInput) error {
	if r.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Name, func(c string) (bool, error) { return s.repo.Exists(ctx, "slug", c, r.ID) })
		if err != nil {
			return err
		}
		if r.Slug == models.RoleCustomer && sl != r.Slug {
			return Invalid("slug", "The customer role slug cannot be changed.")
		}
		r.Slug = sl
	}
	ids := collection.Unique(in.PermissionIDs)
	if perms, err := s.perms.FindMany(ctx, ids); err != nil {
		return err
	} else if len(perms) != len(ids) {
		return Invalid("permission_ids", "The selected permission ids is invalid.")
	}
	r.Name = strings.TrimSpace(in.Name)
	return s.tx(ctx, func(ctx context.Context) error {
		var err error
		if r.ID == 0 {
			err = s.repo.Create(ctx, r)
		} else {
			err = s.repo.Save(ctx, r)
		}
		if err != nil {
			return err
		}
		return s.repo.SyncPermissions(ctx, r, ids)
	})
}

// Delete removes a role. Users left without any role fall back to the
// customer role, which itself cannot be deleted. It returns the ids of the
// reassigned users.
func (s *RoleService) Delete(ctx context.Context, id uint) ([]uint, error) {
	role, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Slug == models.RoleCustomer {
		return nil, Invalid("role", "The customer role cannot be deleted.")
	}
	var reassigned []uint
	err = s.tx(ctx, func(ctx context.Context) error {
		customer, err := s.repo.FindBy(ctx, "slug", models.RoleCustomer)
		if err != nil {
			return missing(err, "Customer role")
		}
		holders, err := s.repo.SoleHolders(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.DeleteCascade(ctx, id); err != nil {
			return err
		}
		reassigned = holders
		return s.repo.Assign(ctx, customer.ID, holders)
	})
	return reassigned, err
}
