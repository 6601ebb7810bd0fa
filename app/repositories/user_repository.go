package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/orm"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks a user up by email with roles loaded.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := orm.DB(ctx).Preload("Roles").Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks a user up by id, preloading the named associations.
func (r *UserRepository) FindByID(ctx context.Context, id uint, preload ...string) (models.User, error) {
	q := orm.DB(ctx)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	var user models.User
	err := q.Where("id = ?", id).First(&user)
	return user, err
}

// EmailTaken reports whether another user (not exceptID) uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	q := orm.DB(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Exists()
}

// All returns every user with roles.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := orm.DB(ctx).Preload("Roles").Order("id").Get(&users)
	return users, err
}

// Create inserts user and attaches roles in one statement.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return orm.DB(ctx).Create(user)
}

// UpdateProfile writes name and email only.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return orm.DB(ctx).Model(user).Gorm().
		Updates(map[string]any{"name": user.Name, "email": user.Email}).Error
}

// Delete removes the user, its role links and its access tokens.
func (r *UserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	db := orm.DB(ctx).Gorm()
	user := models.User{ID: id}
	if err := db.Model(&user).Association("Roles").Clear(); err != nil {
		return 0, fmt.Errorf("detach roles: %w", err)
	}
	if err := db.Where("user_id = ?", id).Delete(&models.PersonalAccessToken{}).Error; err != nil {
		return 0, fmt.Errorf("revoke tokens: %w", err)
	}
	return orm.DB(ctx).Where("id = ?", id).Delete(&models.User{})
}

type RoleRepository struct{}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{}
}

// FindByName returns the role row named name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (models.Role, error) {
	var role models.Role
	err := orm.DB(ctx).Where("name = ?", name).First(&role)
	return role, err
}

// Ensure returns the role named name, creating it when missing.
func (r *RoleRepository) Ensure(ctx context.Context, name string) (models.Role, error) {
	role := models.Role{Name: name}
	err := orm.DB(ctx).Gorm().Where(models.Role{Name: name}).FirstOrCreate(&role).Error
	return role, err
}

type TokenRepository struct{}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{}
}

func (r *TokenRepository) Create(ctx context.Context, t *models.PersonalAccessToken) error {
	return orm.DB(ctx).Create(t)
}

// FindLive returns the token row for tokenID unless it has expired.
func (r *TokenRepository) FindLive(ctx context.Context, tokenID string, now time.Time) (models.PersonalAccessToken, error) {
	var t models.PersonalAccessToken
	err := orm.DB(ctx).Where("token_id = ? AND expires_at > ?", tokenID, now).First(&t)
	return t, err
}

// Touch records a use of the token.
func (r *TokenRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	return orm.DB(ctx).Model(&models.PersonalAccessToken{}).Gorm().
		Where("id = ?", id).UpdateColumn("last_used_at", at).Error
}

// DeleteForUser revokes every token of userID.
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Delete(&models.PersonalAccessToken{})
}
