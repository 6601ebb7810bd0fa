package seeders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/rbac"
)

// DemoPassword is the password of the seeded accounts.
const DemoPassword = "password"

func init() {
	Register("roles", SeedRoles)
	Register("users", SeedUsers)
	Register("products", SeedProducts)
}

func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, r := range rbac.Roles {
		role := models.Role{Name: string(r)}
		if err := db.WithContext(ctx).Where(models.Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

func SeedUsers(ctx context.Context, db *gorm.DB) error {
	demo := []struct {
		name, email string
		role        rbac.Role
	}{
		{"Admin", "admin@example.com", rbac.Admin},
		{"User", "user@example.com", rbac.User},
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	tx := db.WithContext(ctx)
	for _, d := range demo {
		var role models.Role
		if err := tx.Where("name = ?", string(d.role)).First(&role).Error; err != nil {
			return err
		}

		user := models.User{Name: d.name, Email: d.email, Password: hash}
		res := tx.Where(models.User{Email: d.email}).FirstOrCreate(&user)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		if err := tx.Model(&user).Association("Roles").Append(&role); err != nil {
			return err
		}
	}
	return nil
}

func SeedProducts(ctx context.Context, db *gorm.DB) error {
	demo := []struct {
		title, description, category, image string
		price                               string
		stock                               int
		discount                            decimal.NullDecimal
	}{
		{"T-shirt Basic", "Cotton crew-neck T-shirt.", "clothing", "images/1.jpeg", "29.99", 100, decimal.NewNullDecimal(decimal.NewFromInt(20))},
		{"Jean Slim", "Slim fit denim jeans.", "clothing", "images/2.jpeg", "79.99", 50, decimal.NullDecimal{}},
		{"Sneakers Sport", "Lightweight running sneakers.", "shoes", "images/3.jpeg", "89.99", 30, decimal.NewNullDecimal(decimal.NewFromInt(15))},
	}

	tx := db.WithContext(ctx)
	for _, d := range demo {
		var n int64
		if err := tx.Model(&models.Product{}).Where("title = ?", d.title).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		category, image := d.category, d.image
		p := models.Product{
			Title:              d.title,
			Description:        d.description,
			Price:              decimal.RequireFromString(d.price),
			Stock:              d.stock,
			Category:           &category,
			Image:              &image,
			DiscountPercentage: d.discount,
		}
		p.Reprice()
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
