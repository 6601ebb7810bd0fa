package repositories

import (
	"context"
	"time"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/orm"
)

// AllProductsCacheKey holds the unfiltered catalog in the cache.
const AllProductsCacheKey = "products:all"

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// All returns the whole catalog, served from the cache when it is warm.
func (r *ProductRepository) All(ctx context.Context, ttl time.Duration) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB(ctx).Order("id").Cache(ctx, AllProductsCacheKey, ttl, &products)
	return products, err
}

// ByCategory returns the products in category, uncached.
func (r *ProductRepository) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB(ctx).Where("category = ?", category).Order("id").Get(&products)
	return products, err
}

func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := orm.DB(ctx).Where("id = ?", id).First(&p)
	return p, err
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	var p models.Product
	err := orm.DB(ctx).Where("slug = ?", slug).Order("id").First(&p)
	return p, err
}

// Exists reports whether a product with id exists.
func (r *ProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return orm.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Exists()
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return orm.DB(ctx).Create(p)
}

// Save writes every column of p.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return orm.DB(ctx).Save(p)
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return orm.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
}

// StockRow is the projection behind the stock endpoints.
type StockRow struct {
	ID    uint
	Title string
	Stock int
	Image *string
}

func stockQuery(ctx context.Context) *orm.Query {
	return orm.DB(ctx).Model(&models.Product{}).Select("id", "title", "stock", "image").Order("id")
}

// Stock lists every product's stock level.
func (r *ProductRepository) Stock(ctx context.Context) ([]StockRow, error) {
	var rows []StockRow
	err := stockQuery(ctx).Get(&rows)
	return rows, err
}

// LowStock lists products whose stock is strictly below threshold.
func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]StockRow, error) {
	var rows []StockRow
	err := stockQuery(ctx).Where("stock < ?", threshold).Get(&rows)
	return rows, err
}
