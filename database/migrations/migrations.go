// Package migrations registers the schema. Importing it (usually for side
// effects) makes every migration known to pkg/migration.
package migrations

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/migration"
)

func init() {
	migration.Register("2025_03_12_000001_create_roles_table", createTables{&models.Role{}})
	migration.Register("2025_03_12_000002_create_users_table", createTables{&models.User{}})
	migration.Register("2025_03_12_000003_create_personal_access_tokens_table", createTables{&models.PersonalAccessToken{}})
	migration.Register("2025_03_12_000004_create_products_table", createTables{&models.Product{}})
	migration.Register("2025_03_12_000005_create_orders_tables", createTables{
		&models.Order{}, &models.DetailOrder{}, &models.ExpeditionOrder{}, &models.Payment{},
	})
	migration.Register("2025_03_12_000006_create_shopping_tables", createTables{
		&models.CartItem{}, &models.WishlistItem{}, &models.Comment{},
	})
	migration.Register("2025_03_12_000007_create_addresses_table", createTables{&models.Address{}})
}

// createTables auto-migrates its models on Up and drops them in reverse on
// Down. Join tables declared through many2many are dropped with their owner.
type createTables []any

func (m createTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(m...)
}

func (m createTables) Down(db *gorm.DB) error {
	for i := len(m) - 1; i >= 0; i-- {
		if _, ok := m[i].(*models.User); ok {
			if err := db.Migrator().DropTable("user_roles"); err != nil {
				return err
			}
		}
		if err := db.Migrator().DropTable(m[i]); err != nil {
			return err
		}
	}
	return nil
}

// Up runs every pending migration against db.
func Up(ctx context.Context, db *gorm.DB) error {
	_, err := migration.New(db).Run(ctx)
	return err
}
