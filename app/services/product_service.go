package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/repositories"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/collection"
	"github.com/shopfront/storefront/pkg/event"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/metrics"
	"github.com/shopfront/storefront/pkg/rbac"
	"github.com/shopfront/storefront/pkg/storage"
)

// ProductChangedEvent is fired after every catalog mutation with a
// ProductChanged payload.
const ProductChangedEvent = "product.changed"

// ProductChanged describes one catalog mutation.
type ProductChanged struct {
	Action    string `json:"action"` // created | updated | deleted
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Stock     int    `json:"stock"`
}

// ProductInput carries every editable product field. Updates overwrite all
// of them.
type ProductInput struct {
	Title              string   `json:"title"               validate:"required,max=255"`
	Description        string   `json:"description"         validate:"required"`
	Price              *float64 `json:"price"               validate:"required,gte=0"`
	Stock              *int     `json:"stock"               validate:"required,integer,min=0"`
	Category           *string  `json:"category"            validate:"nullable,max=255"`
	Slug               *string  `json:"slug"                validate:"nullable,max=255"`
	Brand              *string  `json:"brand"               validate:"nullable,max=255"`
	Color              *string  `json:"color"               validate:"nullable,max=255"`
	Size               *string  `json:"size"                validate:"nullable,max=255"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"nullable,between=0,100"`
}

// ImageUpload is an uploaded image file read into memory.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// StockItem is one row of the stock reports. Image is the public URL.
type StockItem struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Stock int     `json:"stock"`
	Image *string `json:"image"`
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type ProductService struct {
	products *repositories.ProductRepository
	disk     storage.Disk
	slots    *ImageSlots
	cacheTTL time.Duration
}

func NewProductService(disk storage.Disk) *ProductService {
	return &ProductService{
		products: repositories.NewProductRepository(),
		disk:     disk,
		slots:    NewImageSlots(disk),
		cacheTTL: time.Duration(config.ProductCacheTTLSeconds()) * time.Second,
	}
}

// Slots exposes the image name allocator.
func (s *ProductService) Slots() *ImageSlots { return s.slots }

// List returns the catalog, or one category of it.
func (s *ProductService) List(ctx context.Context, category string) ([]models.Product, error) {
	var (
		products []models.Product
		err      error
	)
	if category == "" {
		products, err = s.products.All(ctx, s.cacheTTL)
	} else {
		products, err = s.products.ByCategory(ctx, category)
	}
	if err != nil {
		return nil, internal("Failed to fetch products", err)
	}
	for i := range products {
		s.present(&products[i])
	}
	return products, nil
}

// Get resolves key as an id when it is numeric and as a slug otherwise.
func (s *ProductService) Get(ctx context.Context, key string) (models.Product, error) {
	var (
		p   models.Product
		err error
	)
	if id, perr := strconv.ParseUint(key, 10, 64); perr == nil {
		p, err = s.products.Find(ctx, uint(id))
	} else {
		p, err = s.products.FindBySlug(ctx, key)
	}
	if err != nil {
		return models.Product{}, lookupError(err, "Product not found", "Failed to fetch product")
	}
	s.present(&p)
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, id auth.Identity, in ProductInput, img *ImageUpload) (models.Product, error) {
	if err := requireCapability(id, rbac.ManageCatalog); err != nil {
		return models.Product{}, err
	}
	if err := checkImage(img); err != nil {
		return models.Product{}, err
	}

	var p models.Product
	apply(&p, in)

	if img != nil {
		stored, err := s.storeImage(ctx, img)
		if err != nil {
			return models.Product{}, err
		}
		p.Image = &stored
	}

	if err := s.products.Create(ctx, &p); err != nil {
		if p.Image != nil {
			logger.WithCtx(ctx).Error("product save failed after image upload", "image", *p.Image, "error", err)
		}
		return models.Product{}, internal("Failed to create product", err)
	}

	s.changed(ctx, "created", p)
	s.present(&p)
	return p, nil
}

// Update overwrites every editable field. The image is replaced only when
// img is non-nil.
func (s *ProductService) Update(ctx context.Context, id auth.Identity, productID uint, in ProductInput, img *ImageUpload) (models.Product, error) {
	if err := requireCapability(id, rbac.ManageCatalog); err != nil {
		return models.Product{}, err
	}
	if err := checkImage(img); err != nil {
		return models.Product{}, err
	}

	p, err := s.products.Find(ctx, productID)
	if err != nil {
		return models.Product{}, lookupError(err, "Product not found", "Failed to update product")
	}
	apply(&p, in)

	if img != nil {
		if err := s.replaceImage(ctx, &p, img); err != nil {
			return models.Product{}, err
		}
	}

	if err := s.products.Save(ctx, &p); err != nil {
		return models.Product{}, internal("Failed to update product", err)
	}

	s.changed(ctx, "updated", p)
	s.present(&p)
	return p, nil
}

// UpdateImage stores img under the next image name and points the product
// at it.
func (s *ProductService) UpdateImage(ctx context.Context, id auth.Identity, productID uint, img *ImageUpload) (models.Product, error) {
	if err := requireCapability(id, rbac.ManageCatalog); err != nil {
		return models.Product{}, err
	}
	if img == nil {
		return models.Product{}, validationError("image", "The image field is required.")
	}
	if err := checkImage(img); err != nil {
		return models.Product{}, err
	}

	p, err := s.products.Find(ctx, productID)
	if err != nil {
		return models.Product{}, lookupError(err, "Product not found", "Failed to update product image")
	}
	if err := s.replaceImage(ctx, &p, img); err != nil {
		return models.Product{}, err
	}
	if err := s.products.Save(ctx, &p); err != nil {
		return models.Product{}, internal("Failed to update product image", err)
	}

	s.changed(ctx, "updated", p)
	s.present(&p)
	return p, nil
}

// Delete removes the product's stored image, then the row.
func (s *ProductService) Delete(ctx context.Context, id auth.Identity, productID uint) error {
	if err := requireCapability(id, rbac.ManageCatalog); err != nil {
		return err
	}

	p, err := s.products.Find(ctx, productID)
	if err != nil {
		return lookupError(err, "Product not found", "Failed to delete product")
	}

	if p.Image != nil && *p.Image != "" {
		if err := s.disk.Delete(ctx, diskPath(*p.Image)); err != nil {
			return internal("Failed to delete product image", err)
		}
		logger.WithCtx(ctx).Info("product image deleted", "product_id", p.ID, "path", *p.Image)
	}

	if _, err := s.products.Delete(ctx, p.ID); err != nil {
		return internal("Failed to delete product", err)
	}

	s.changed(ctx, "deleted", p)
	return nil
}

// Stock lists the stock level of every product.
func (s *ProductService) Stock(ctx context.Context, id auth.Identity) ([]StockItem, error) {
	if err := requireCapability(id, rbac.ViewStock); err != nil {
		return nil, err
	}
	rows, err := s.products.Stock(ctx)
	if err != nil {
		return nil, internal("Failed to fetch stock", err)
	}
	return s.stockItems(rows), nil
}

// LowStock lists products whose stock is below threshold.
func (s *ProductService) LowStock(ctx context.Context, id auth.Identity, threshold int) ([]StockItem, error) {
	if err := requireCapability(id, rbac.ViewStock); err != nil {
		return nil, err
	}
	rows, err := s.products.LowStock(ctx, threshold)
	if err != nil {
		return nil, internal("Failed to fetch low stock products", err)
	}
	return s.stockItems(rows), nil
}

func (s *ProductService) stockItems(rows []repositories.StockRow) []StockItem {
	return collection.Map(rows, func(r repositories.StockRow) StockItem {
		return StockItem{ID: r.ID, Title: r.Title, Stock: r.Stock, Image: s.imageURL(r.Image)}
	})
}

func (s *ProductService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	stored, err := s.slots.Store(ctx, img.Content)
	if err != nil {
		return "", internal("Failed to store image", err)
	}
	metrics.ImagesStored.Inc()
	logger.WithCtx(ctx).Info("product image stored", "path", stored, "original", img.Filename)
	return stored, nil
}

// replaceImage stores img and drops the file it replaces.
func (s *ProductService) replaceImage(ctx context.Context, p *models.Product, img *ImageUpload) error {
	stored, err := s.storeImage(ctx, img)
	if err != nil {
		return err
	}
	if p.Image != nil && *p.Image != "" && *p.Image != stored {
		if err := s.disk.Delete(ctx, diskPath(*p.Image)); err != nil {
			logger.WithCtx(ctx).Warn("old product image not deleted", "path", *p.Image, "error", err)
		}
	}
	p.Image = &stored
	return nil
}

func (s *ProductService) changed(ctx context.Context, action string, p models.Product) {
	event.Fire(ctx, ProductChangedEvent, ProductChanged{
		Action:    action,
		ProductID: p.ID,
		Title:     p.Title,
		Stock:     p.Stock,
	})
}

func (s *ProductService) present(p *models.Product) {
	p.ImageURL = s.imageURL(p.Image)
}

func (s *ProductService) imageURL(image *string) *string {
	if image == nil || *image == "" {
		return nil
	}
	u := s.disk.URL(diskPath(*image))
	return &u
}

func apply(p *models.Product, in ProductInput) {
	p.Title = in.Title
	p.Description = in.Description
	if in.Price != nil {
		p.Price = decimal.NewFromFloat(*in.Price).Round(2)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.Category = blankToNil(in.Category)
	p.Slug = blankToNil(in.Slug)
	p.Brand = blankToNil(in.Brand)
	p.Color = blankToNil(in.Color)
	p.Size = blankToNil(in.Size)
	p.DiscountPercentage = decimal.NullDecimal{}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = decimal.NewNullDecimal(decimal.NewFromFloat(*in.DiscountPercentage))
	}
	p.Reprice()
}

func checkImage(img *ImageUpload) error {
	if img == nil {
		return nil
	}
	if max := config.MaxImageBytes(); int64(len(img.Content)) > max {
		return validationError("image", fmt.Sprintf("The image may not be greater than %d kilobytes.", max/1024))
	}
	if !allowedImageTypes[http.DetectContentType(img.Content)] {
		return validationError("image", "The image must be a file of type: jpeg, png, jpg, gif.")
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// diskPath strips the public "storage/" prefix older rows carry.
func diskPath(image string) string {
	return strings.TrimPrefix(image, "storage/")
}
