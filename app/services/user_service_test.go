package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/pkg/auth"
)

func asAdmin(id auth.Identity) auth.Identity {
	id.Roles = []string{"admin"}
	return id
}

func TestUserService_DeleteSelfIsForbidden(t *testing.T) {
	setup(t)
	ctx := context.Background()
	me := asAdmin(register(t, "root@example.com"))
	victim := register(t, "victim@example.com")
	users := NewUserService()

	requireKind(t, users.Delete(ctx, me, me.UserID), KindForbidden)

	require.NoError(t, users.Delete(ctx, me, victim.UserID))
	_, err := users.Details(ctx, me, victim.UserID)
	requireKind(t, err, KindNotFound)

	requireKind(t, users.Delete(ctx, me, victim.UserID), KindNotFound)
}

func TestUserService_UpdateEmailUniqueExceptSelf(t *testing.T) {
	setup(t)
	ctx := context.Background()
	me := asAdmin(register(t, "a@example.com"))
	other := register(t, "b@example.com")
	users := NewUserService()

	_, err := users.Update(ctx, me, other.UserID, UserUpdateInput{Name: "B", Email: "a@example.com"})
	requireKind(t, err, KindValidation)

	updated, err := users.Update(ctx, me, other.UserID, UserUpdateInput{Name: "Bee", Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Bee", updated.Name)
}

func TestUserService_RequiresManageUsers(t *testing.T) {
	setup(t)
	user := register(t, "plain@example.com")
	_, err := NewUserService().List(context.Background(), user)
	requireKind(t, err, KindForbidden)
}

func TestUserService_RolesAndDetails(t *testing.T) {
	setup(t)
	ctx := context.Background()
	me := asAdmin(register(t, "boss@example.com"))
	users := NewUserService()

	_, err := NewAddressService().Add(ctx, me, AddressInput{Address: "2 Rue", City: "Nice", ZipCode: "06000", Country: "France"})
	require.NoError(t, err)

	roles, err := users.Roles(ctx, me, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, roles.Roles)

	details, err := users.Details(ctx, me, me.UserID)
	require.NoError(t, err)
	assert.Len(t, details.Addresses, 1)
	assert.Len(t, details.Roles, 1)

	report, err := users.RoleReport(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.False(t, report.IsAdmin)
	assert.Empty(t, report.Capabilities)

	all, err := users.List(ctx, me)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
