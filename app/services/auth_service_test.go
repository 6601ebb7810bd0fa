package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/database"
	"github.com/shopfront/storefront/pkg/validate"
)

func countTokens(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&models.PersonalAccessToken{}).Count(&n).Error)
	return n
}

func TestAuthService_RegisterAssignsUserRole(t *testing.T) {
	setup(t)
	sess, err := NewAuthService().Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "password",
	})
	require.NoError(t, err)
	assert.NotZero(t, sess.User.ID)
	assert.Equal(t, []string{"user"}, sess.Roles)
	assert.Empty(t, sess.Token)
	assert.NotEqual(t, "password", sess.User.Password)
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	setup(t)
	svc := NewAuthService()
	ctx := context.Background()
	in := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	requireKind(t, err, KindValidation)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "email")
}

func TestRegisterInput_ShortPasswordFailsValidation(t *testing.T) {
	errs := validate.Struct(RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "short"})
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])
}

func TestAuthService_WrongPasswordIssuesNoToken(t *testing.T) {
	setup(t)
	register(t, "carol@example.com")
	svc := NewAuthService()

	_, err := svc.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "wrong-password"})
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, ErrBadCredentials, err.Error())

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "password"})
	requireKind(t, err, KindUnauthorized)

	assert.Zero(t, countTokens(t))
}

func TestAuthService_LoginResolveLogout(t *testing.T) {
	setup(t)
	id := register(t, "dave@example.com")
	svc := NewAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginInput{Email: "dave@example.com", Password: "password"})
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, int64(1), countTokens(t))

	resolved, err := svc.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, resolved.UserID)
	assert.Equal(t, []string{"user"}, resolved.Roles)
	assert.NotEmpty(t, resolved.TokenID)

	me, err := svc.Me(ctx, resolved)
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", me.Email)

	require.NoError(t, svc.Logout(ctx, resolved))
	_, err = svc.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_ResolveRejectsGarbage(t *testing.T) {
	setup(t)
	_, err := NewAuthService().Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
