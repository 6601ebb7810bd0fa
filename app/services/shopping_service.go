package services

import (
	"context"
	"strconv"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/repositories"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/metrics"
	"github.com/shopfront/storefront/pkg/rbac"
)

type CartInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"   validate:"required,integer,min=1"`
}

type WishlistInput struct {
	ProductID uint `json:"product_id" validate:"required"`
}

type CommentInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Comment   string `json:"comment"    validate:"required"`
	Rating    *int   `json:"rating"     validate:"required,integer,between=1,5"`
}

type AddressInput struct {
	Address string `json:"address"  validate:"required,max=255"`
	City    string `json:"city"     validate:"required,max=255"`
	ZipCode string `json:"zip_code" validate:"required,max=20"`
	Country string `json:"country"  validate:"required,max=255"`
}

// requireProduct returns NotFound unless productID exists.
func requireProduct(ctx context.Context, products *repositories.ProductRepository, productID uint) error {
	ok, err := products.Exists(ctx, productID)
	if err != nil {
		return internal("Failed to fetch product", err)
	}
	if !ok {
		return notFound("Product not found")
	}
	return nil
}

type CartService struct {
	cart     *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService() *CartService {
	return &CartService{cart: repositories.NewCartRepository(), products: repositories.NewProductRepository()}
}

// Add puts quantity of a product in the caller's cart, adding to the existing
// line when there is one. Stock is not checked.
func (s *CartService) Add(ctx context.Context, id auth.Identity, in CartInput) (models.CartItem, error) {
	if err := requireProduct(ctx, s.products, in.ProductID); err != nil {
		return models.CartItem{}, err
	}
	item, merged, err := s.cart.Add(ctx, id.UserID, in.ProductID, *in.Quantity)
	if err != nil {
		return models.CartItem{}, internal("Failed to add to cart", err)
	}
	metrics.CartAdds.WithLabelValues(strconv.FormatBool(merged)).Inc()
	return item, nil
}

// Remove drops the caller's line for productID. A product that is not in the
// cart is not an error.
func (s *CartService) Remove(ctx context.Context, id auth.Identity, productID uint) error {
	if err := requireProduct(ctx, s.products, productID); err != nil {
		return err
	}
	if _, err := s.cart.Remove(ctx, id.UserID, productID); err != nil {
		return internal("Failed to remove from cart", err)
	}
	return nil
}

func (s *CartService) List(ctx context.Context, id auth.Identity) ([]models.CartItem, error) {
	items, err := s.cart.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch cart", err)
	}
	return items, nil
}

func (s *CartService) Clear(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.cart.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to clear cart")
}

type WishlistService struct {
	wishlist *repositories.WishlistRepository
	products *repositories.ProductRepository
}

func NewWishlistService() *WishlistService {
	return &WishlistService{wishlist: repositories.NewWishlistRepository(), products: repositories.NewProductRepository()}
}

// Add puts a product on the caller's wishlist. Adding it again returns the
// existing entry with created false.
func (s *WishlistService) Add(ctx context.Context, id auth.Identity, in WishlistInput) (models.WishlistItem, bool, error) {
	if err := requireProduct(ctx, s.products, in.ProductID); err != nil {
		return models.WishlistItem{}, false, err
	}
	item, created, err := s.wishlist.FirstOrCreate(ctx, id.UserID, in.ProductID)
	if err != nil {
		return models.WishlistItem{}, false, internal("Failed to add to wishlist", err)
	}
	return item, created, nil
}

func (s *WishlistService) Remove(ctx context.Context, id auth.Identity, itemID uint) error {
	n, err := s.wishlist.Remove(ctx, id.UserID, itemID)
	return removed(n, err, "Wishlist item not found", "Failed to remove from wishlist")
}

func (s *WishlistService) List(ctx context.Context, id auth.Identity) ([]models.WishlistItem, error) {
	items, err := s.wishlist.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch wishlist", err)
	}
	return items, nil
}

func (s *WishlistService) Clear(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.wishlist.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to clear wishlist")
}

type CommentService struct {
	comments *repositories.CommentRepository
	products *repositories.ProductRepository
}

func NewCommentService() *CommentService {
	return &CommentService{comments: repositories.NewCommentRepository(), products: repositories.NewProductRepository()}
}

func (s *CommentService) Add(ctx context.Context, id auth.Identity, in CommentInput) (models.Comment, error) {
	if err := requireProduct(ctx, s.products, in.ProductID); err != nil {
		return models.Comment{}, err
	}
	c := models.Comment{ProductID: in.ProductID, UserID: id.UserID, Comment: in.Comment, Rating: *in.Rating}
	if err := s.comments.Create(ctx, &c); err != nil {
		return models.Comment{}, internal("Failed to add comment", err)
	}
	return c, nil
}

// Remove deletes the caller's oldest comment on productID.
func (s *CommentService) Remove(ctx context.Context, id auth.Identity, productID uint) error {
	n, err := s.comments.RemoveFirst(ctx, id.UserID, productID)
	return removed(n, err, "Comment not found", "Failed to delete comment")
}

// ListByProduct returns a product's comments with their authors.
func (s *CommentService) ListByProduct(ctx context.Context, productID uint) ([]models.Comment, error) {
	if err := requireProduct(ctx, s.products, productID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByProduct(ctx, productID)
	if err != nil {
		return nil, internal("Failed to fetch comments", err)
	}
	return comments, nil
}

// ClearByProduct deletes every comment on productID. Moderators only.
func (s *CommentService) ClearByProduct(ctx context.Context, id auth.Identity, productID uint) (int64, error) {
	if err := requireCapability(id, rbac.ModerateComments); err != nil {
		return 0, err
	}
	n, err := s.comments.ClearByProduct(ctx, productID)
	return cleared(n, err, "Failed to delete comments")
}

type AddressService struct {
	addresses *repositories.AddressRepository
}

func NewAddressService() *AddressService {
	return &AddressService{addresses: repositories.NewAddressRepository()}
}

func (s *AddressService) Add(ctx context.Context, id auth.Identity, in AddressInput) (models.Address, error) {
	a := models.Address{UserID: id.UserID, Address: in.Address, City: in.City, ZipCode: in.ZipCode, Country: in.Country}
	if err := s.addresses.Create(ctx, &a); err != nil {
		return models.Address{}, internal("Failed to add address", err)
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, id auth.Identity) ([]models.Address, error) {
	rows, err := s.addresses.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch addresses", err)
	}
	return rows, nil
}

func (s *AddressService) Update(ctx context.Context, id auth.Identity, addressID uint, in AddressInput) (models.Address, error) {
	a, err := s.addresses.Find(ctx, id.UserID, addressID)
	if err != nil {
		return models.Address{}, lookupError(err, "Address not found", "Failed to update address")
	}
	a.Address, a.City, a.ZipCode, a.Country = in.Address, in.City, in.ZipCode, in.Country
	if err := s.addresses.Save(ctx, &a); err != nil {
		return models.Address{}, internal("Failed to update address", err)
	}
	return a, nil
}

func (s *AddressService) Remove(ctx context.Context, id auth.Identity, addressID uint) error {
	n, err := s.addresses.Delete(ctx, id.UserID, addressID)
	return removed(n, err, "Address not found", "Failed to delete address")
}

func (s *AddressService) Clear(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.addresses.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to delete addresses")
}
