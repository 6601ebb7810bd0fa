package services

import (
	"context"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/repositories"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/collection"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/rbac"
)

type UserUpdateInput struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// UserRoles pairs a user with its role names.
type UserRoles struct {
	User  models.User `json:"user"`
	Roles []string    `json:"roles"`
}

// RoleReport summarises what a user may do.
type RoleReport struct {
	User         models.User       `json:"user"`
	Roles        []string          `json:"roles"`
	IsAdmin      bool              `json:"is_admin"`
	Capabilities []rbac.Capability `json:"capabilities"`
}

// UserService is the user administration surface. Every method except
// RoleReport requires the ManageUsers capability.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService() *UserService {
	return &UserService{users: repositories.NewUserRepository()}
}

func (s *UserService) List(ctx context.Context, id auth.Identity) ([]models.User, error) {
	if err := requireCapability(id, rbac.ManageUsers); err != nil {
		return nil, err
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, internal("Failed to fetch users", err)
	}
	return users, nil
}

// Details returns a user with roles and addresses.
func (s *UserService) Details(ctx context.Context, id auth.Identity, userID uint) (models.User, error) {
	if err := requireCapability(id, rbac.ManageUsers); err != nil {
		return models.User{}, err
	}
	user, err := s.users.FindByID(ctx, userID, "Roles", "Addresses")
	if err != nil {
		return models.User{}, lookupError(err, "User not found", "Failed to fetch user details")
	}
	return user, nil
}

// Update overwrites name and email. The email must not belong to another
// user.
func (s *UserService) Update(ctx context.Context, id auth.Identity, userID uint, in UserUpdateInput) (models.User, error) {
	if err := requireCapability(id, rbac.ManageUsers); err != nil {
		return models.User{}, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, lookupError(err, "User not found", "Failed to update user")
	}
	taken, err := s.users.EmailTaken(ctx, in.Email, user.ID)
	if err != nil {
		return models.User{}, internal("Failed to update user", err)
	}
	if taken {
		return models.User{}, validationError("email", "The email has already been taken.")
	}

	user.Name, user.Email = in.Name, in.Email
	if err := s.users.UpdateProfile(ctx, &user); err != nil {
		return models.User{}, internal("Failed to update user", err)
	}
	return user, nil
}

// Delete removes a user. Callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id auth.Identity, userID uint) error {
	if err := requireCapability(id, rbac.ManageUsers); err != nil {
		return err
	}
	if userID == id.UserID {
		return &Error{Kind: KindForbidden, Message: "You cannot delete your own account."}
	}
	n, err := s.users.Delete(ctx, userID)
	if err := removed(n, err, "User not found", "Failed to delete user"); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("user deleted", "deleted_user_id", userID)
	return nil
}

func (s *UserService) Roles(ctx context.Context, id auth.Identity, userID uint) (UserRoles, error) {
	if err := requireCapability(id, rbac.ManageUsers); err != nil {
		return UserRoles{}, err
	}
	user, err := s.users.FindByID(ctx, userID, "Roles")
	if err != nil {
		return UserRoles{}, lookupError(err, "User not found", "Failed to fetch user roles")
	}
	return UserRoles{User: user, Roles: user.RoleNames()}, nil
}

// RoleReport looks a user up by email for the console. It is not exposed
// over HTTP.
func (s *UserService) RoleReport(ctx context.Context, email string) (RoleReport, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return RoleReport{}, lookupError(err, "User not found", "Failed to fetch user")
	}
	roles := user.RoleNames()
	report := RoleReport{User: user, Roles: roles, IsAdmin: rbac.HasRole(roles, rbac.Admin)}
	for _, name := range roles {
		if role, err := rbac.ParseRole(name); err == nil {
			report.Capabilities = append(report.Capabilities, rbac.Capabilities(role)...)
		}
	}
	report.Capabilities = collection.Unique(report.Capabilities)
	return report, nil
}
