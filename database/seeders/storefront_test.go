package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/database/migrations"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/testkit"
)

func TestRunAllIsIdempotent(t *testing.T) {
	db := testkit.SetupDB(t, migrations.Up)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, db, &out))
	require.NoError(t, RunAll(ctx, db, &out))
	assert.Contains(t, out.String(), "Running seeder: products")

	var roles, users, products int64
	db.Model(&models.Role{}).Count(&roles)
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Product{}).Count(&products)
	assert.EqualValues(t, 2, roles)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 3, products)

	var admin models.User
	require.NoError(t, db.Preload("Roles").Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, []string{"admin"}, admin.RoleNames())
	assert.True(t, auth.CheckPassword(admin.Password, DemoPassword))
}

func TestSeededDiscounts(t *testing.T) {
	db := testkit.SetupDB(t, migrations.Up)
	require.NoError(t, RunAll(context.Background(), db, &bytes.Buffer{}))

	var tshirt, jean models.Product
	require.NoError(t, db.Where("title = ?", "T-shirt Basic").First(&tshirt).Error)
	require.NoError(t, db.Where("title = ?", "Jean Slim").First(&jean).Error)

	require.True(t, tshirt.DiscountedPrice.Valid)
	assert.Equal(t, "23.99", tshirt.DiscountedPrice.Decimal.StringFixed(2))
	assert.Equal(t, "images/1.jpeg", *tshirt.Image)
	assert.False(t, jean.DiscountedPrice.Valid)
}
