package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/database/migrations"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/storage"
	"github.com/shopfront/storefront/pkg/testkit"
)

var (
	admin = auth.Identity{UserID: 1000, Roles: []string{"admin"}}
	buyer = auth.Identity{UserID: 2000, Roles: []string{"user"}}
)

// pngBytes starts with the PNG signature so content sniffing accepts it.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func setup(t *testing.T) *storage.LocalDisk {
	t.Helper()
	testkit.SetupDB(t, migrations.Up)
	return testkit.SetupDisk(t)
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}

// register creates a user and returns its identity.
func register(t *testing.T, email string) auth.Identity {
	t.Helper()
	sess, err := NewAuthService().Register(context.Background(), RegisterInput{
		Name: "Test", Email: email, Password: "password",
	})
	require.NoError(t, err)
	return auth.Identity{UserID: sess.User.ID, Roles: sess.Roles}
}

func productInput(title string, price float64, stock int) ProductInput {
	return ProductInput{Title: title, Description: title + " description", Price: ptr(price), Stock: ptr(stock)}
}
