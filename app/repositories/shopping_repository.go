package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/orm"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository { return &CartRepository{} }

func (r *CartRepository) List(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := orm.DB(ctx).Scopes(ownedBy(userID)).Preload("Product").Order("id").Get(&items)
	return items, err
}

// Add inserts a line for (user, product) or increments the existing line's
// quantity in the same statement, and reports whether a line was merged.
func (r *CartRepository) Add(ctx context.Context, userID, productID uint, qty int) (models.CartItem, bool, error) {
	var item models.CartItem
	merged := false
	err := orm.DB(ctx).Gorm().Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item).Error
		switch {
		case err == nil:
			merged = true
			item.Quantity += qty
			return tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", qty)).Error
		case orm.IsNotFound(err):
			item = models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
			return tx.Create(&item).Error
		default:
			return err
		}
	})
	return item, merged, err
}

func (r *CartRepository) Remove(ctx context.Context, userID, productID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Where("product_id = ?", productID).Delete(&models.CartItem{})
}

func (r *CartRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Delete(&models.CartItem{})
}

type WishlistRepository struct{}

func NewWishlistRepository() *WishlistRepository { return &WishlistRepository{} }

func (r *WishlistRepository) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := orm.DB(ctx).Scopes(ownedBy(userID)).Preload("Product").Order("id").Get(&items)
	return items, err
}

// FirstOrCreate returns the caller's entry for productID, creating it when
// missing, and reports whether it was created.
func (r *WishlistRepository) FirstOrCreate(ctx context.Context, userID, productID uint) (models.WishlistItem, bool, error) {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	res := orm.DB(ctx).Gorm().
		Where(models.WishlistItem{UserID: userID, ProductID: productID}).
		FirstOrCreate(&item)
	return item, res.RowsAffected > 0, res.Error
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, id uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).Delete(&models.WishlistItem{})
}

func (r *WishlistRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Delete(&models.WishlistItem{})
}

type CommentRepository struct{}

func NewCommentRepository() *CommentRepository { return &CommentRepository{} }

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return orm.DB(ctx).Create(c)
}

// ListByProduct returns a product's comments with their authors, oldest first.
func (r *CommentRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := orm.DB(ctx).Preload("User").Where("product_id = ?", productID).Order("id").Get(&comments)
	return comments, err
}

// RemoveFirst deletes the caller's oldest comment on productID.
func (r *CommentRepository) RemoveFirst(ctx context.Context, userID, productID uint) (int64, error) {
	var c models.Comment
	err := orm.DB(ctx).Scopes(ownedBy(userID)).Where("product_id = ?", productID).Order("id").First(&c)
	if orm.IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return orm.DB(ctx).Where("id = ?", c.ID).Delete(&models.Comment{})
}

func (r *CommentRepository) ClearByProduct(ctx context.Context, productID uint) (int64, error) {
	return orm.DB(ctx).Where("product_id = ?", productID).Delete(&models.Comment{})
}

type AddressRepository struct{}

func NewAddressRepository() *AddressRepository { return &AddressRepository{} }

func (r *AddressRepository) List(ctx context.Context, userID uint) ([]models.Address, error) {
	var rows []models.Address
	err := orm.DB(ctx).Scopes(ownedBy(userID)).Order("id").Get(&rows)
	return rows, err
}

func (r *AddressRepository) Find(ctx context.Context, userID, id uint) (models.Address, error) {
	var a models.Address
	err := orm.DB(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).First(&a)
	return a, err
}

func (r *AddressRepository) Create(ctx context.Context, a *models.Address) error {
	return orm.DB(ctx).Create(a)
}

func (r *AddressRepository) Save(ctx context.Context, a *models.Address) error {
	return orm.DB(ctx).Save(a)
}

func (r *AddressRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).Delete(&models.Address{})
}

func (r *AddressRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Delete(&models.Address{})
}
