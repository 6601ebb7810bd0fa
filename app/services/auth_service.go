package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/repositories"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/metrics"
	"github.com/shopfront/storefront/pkg/orm"
	"github.com/shopfront/storefront/pkg/rbac"
)

// ErrBadCredentials is the login failure message for both unknown emails and
// wrong passwords.
const ErrBadCredentials = "The provided credentials are incorrect."

type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// Session is what a successful register or login hands back. Token is empty
// after register.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
	Roles []string    `json:"roles"`
}

type AuthService struct {
	users  *repositories.UserRepository
	roles  *repositories.RoleRepository
	tokens *repositories.TokenRepository
	now    func() time.Time
}

func NewAuthService() *AuthService {
	return &AuthService{
		users:  repositories.NewUserRepository(),
		roles:  repositories.NewRoleRepository(),
		tokens: repositories.NewTokenRepository(),
		now:    time.Now,
	}
}

// Register creates an account holding the user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	taken, err := s.users.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return Session{}, internal("Failed to register", err)
	}
	if taken {
		return Session{}, validationError("email", "The email has already been taken.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, internal("Failed to register", err)
	}

	role, err := s.roles.Ensure(ctx, string(rbac.User))
	if err != nil {
		return Session{}, internal("Failed to register", err)
	}

	user := models.User{Name: in.Name, Email: in.Email, Password: hash, Roles: []models.Role{role}}
	if err := s.users.Create(ctx, &user); err != nil {
		return Session{}, internal("Failed to register", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return Session{User: user, Roles: user.RoleNames()}, nil
}

// Login checks the credentials and issues a bearer token backed by a
// personal access token row. Nothing is written when the check fails.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && !orm.IsNotFound(err) {
		return Session{}, internal("Failed to log in", err)
	}
	if err != nil || !auth.CheckPassword(user.Password, in.Password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return Session{}, &Error{Kind: KindUnauthorized, Message: ErrBadCredentials}
	}

	now := s.now()
	pat := models.PersonalAccessToken{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		Name:      "authToken",
		ExpiresAt: now.Add(time.Duration(config.TokenTTLHours()) * time.Hour),
	}
	token, err := auth.IssueToken(user.ID, pat.TokenID, pat.ExpiresAt)
	if err != nil {
		return Session{}, internal("Failed to log in", err)
	}
	if err := s.tokens.Create(ctx, &pat); err != nil {
		return Session{}, internal("Failed to log in", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.WithCtx(ctx).Info("user logged in", "user_id", user.ID)
	return Session{User: user, Token: token, Roles: user.RoleNames()}, nil
}

// Logout revokes every token the caller holds.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity) error {
	if _, err := s.tokens.DeleteForUser(ctx, id.UserID); err != nil {
		return internal("Failed to log out", err)
	}
	return nil
}

// Me returns the caller with roles loaded.
func (s *AuthService) Me(ctx context.Context, id auth.Identity) (models.User, error) {
	user, err := s.users.FindByID(ctx, id.UserID, "Roles")
	if err != nil {
		return models.User{}, lookupError(err, "User not found", "Failed to load user")
	}
	return user, nil
}

// Resolve implements auth.Resolver: the token must verify, its row must
// still exist and be unexpired, and its user must exist.
func (s *AuthService) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := auth.ParseToken(token)
	if err != nil {
		return auth.Identity{}, err
	}

	now := s.now()
	pat, err := s.tokens.FindLive(ctx, claims.ID, now)
	if err != nil {
		if orm.IsNotFound(err) {
			return auth.Identity{}, auth.ErrInvalidToken
		}
		return auth.Identity{}, err
	}
	if pat.UserID != claims.UserID {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, pat.UserID, "Roles")
	if err != nil {
		if orm.IsNotFound(err) {
			return auth.Identity{}, auth.ErrInvalidToken
		}
		return auth.Identity{}, err
	}

	if err := s.tokens.Touch(ctx, pat.ID, now); err != nil {
		logger.WithCtx(ctx).Warn("token touch failed", "error", err)
	}
	return auth.Identity{UserID: user.ID, TokenID: pat.TokenID, Roles: user.RoleNames()}, nil
}

// requireCapability returns a Forbidden error unless id holds c.
func requireCapability(id auth.Identity, c rbac.Capability) error {
	if !rbac.Can(id.Roles, c) {
		return &Error{Kind: KindForbidden, Message: "Unauthorized. Admin access required."}
	}
	return nil
}
