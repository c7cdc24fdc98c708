package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone" validate:"nullable,max=50"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	User *models.User `json:"user"`
	auth.TokenPair
}

// Profile is the authenticated user with the permission slugs they hold.
type Profile struct {
	*models.User
	Permissions []string `json:"permissions"`
}

type AuthService struct {
	Deps
	users *UserService
	roles *repositories.RoleRepository
}

func NewAuthService(d Deps, users *UserService) *AuthService {
	return &AuthService{Deps: d, users: users, roles: repositories.NewRoleRepository(d.DB)}
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.repo.Exists(ctx, "email", email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Invalid("email", "The email has already been taken.")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: strings.TrimSpace(in.Name), Email: email, Phone: in.Phone, Password: hash}
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.users.repo.Create(ctx, user); err != nil {
			return err
		}
		role, err := s.roles.FindBy(ctx, "slug", models.RoleCustomer)
		if repositories.IsNotFound(err) {
			logger.WithCtx(ctx).Warn("customer role missing; run the seeders", "user_id", user.ID)
			return nil
		}
		if err != nil {
			return err
		}
		return s.users.repo.SyncRoles(ctx, user, []uint{role.ID})
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.repo.FindByEmail(ctx, in.Email)
	if err != nil && !repositories.IsNotFound(err) {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.Password, in.Password) {
		return nil, Unauthorized("Invalid credentials")
	}
	return s.issue(user)
}

// Refresh trades a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	claims, err := auth.ValidateToken(in.RefreshToken, auth.TypeRefresh)
	if err != nil {
		return nil, Unauthorized("Invalid refresh token")
	}
	user, err := s.users.repo.Find(ctx, claims.UserID, "Roles")
	if repositories.IsNotFound(err) {
		return nil, Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.users.repo.Find(ctx, userID, "Roles")
	if err != nil {
		return nil, missing(err, "User")
	}
	perms, err := s.users.repo.PermissionSlugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Permissions: perms}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	pair, err := auth.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, TokenPair: pair}, nil
}
