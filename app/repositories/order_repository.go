package repositories

import (
	"context"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/pkg/orm"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) owned(ctx context.Context, userID uint) *orm.Query {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Order("id")
}

func (r *OrderRepository) List(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.owned(ctx, userID).Get(&orders)
	return orders, err
}

func (r *OrderRepository) ListByStatus(ctx context.Context, userID uint, status string) ([]models.Order, error) {
	var orders []models.Order
	err := r.owned(ctx, userID).Where("status = ?", status).Get(&orders)
	return orders, err
}

func (r *OrderRepository) ListByDate(ctx context.Context, userID uint, date models.Date) ([]models.Order, error) {
	var orders []models.Order
	err := r.owned(ctx, userID).Where("date_order = ?", date).Get(&orders)
	return orders, err
}

// ListBetween returns orders dated within [start, end].
func (r *OrderRepository) ListBetween(ctx context.Context, userID uint, start, end models.Date) ([]models.Order, error) {
	var orders []models.Order
	err := r.owned(ctx, userID).Where("date_order BETWEEN ? AND ?", start, end).Get(&orders)
	return orders, err
}

// Find returns the caller's order; withLines also loads details (with their
// products), the expedition and payments.
func (r *OrderRepository) Find(ctx context.Context, userID, id uint, withLines bool) (models.Order, error) {
	q := orm.DB(ctx).Scopes(ownedBy(userID))
	if withLines {
		q = q.Preload("Details.Product").Preload("Expedition").Preload("Payments")
	}
	var order models.Order
	err := q.Where("id = ?", id).First(&order)
	return order, err
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return orm.DB(ctx).Create(o)
}

// Update overwrites status and date_order of the caller's order.
func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	return orm.DB(ctx).Model(o).Scopes(ownedBy(o.UserID)).Gorm().
		Updates(map[string]any{"status": o.Status, "date_order": o.DateOrder}).Error
}

func (r *OrderRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).Delete(&models.Order{})
}

func (r *OrderRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedBy(userID)).Delete(&models.Order{})
}

// DetailRepository stores order lines.
type DetailRepository struct{}

func NewDetailRepository() *DetailRepository { return &DetailRepository{} }

func (r *DetailRepository) Create(ctx context.Context, d *models.DetailOrder) error {
	return orm.DB(ctx).Create(d)
}

func (r *DetailRepository) List(ctx context.Context, userID uint) ([]models.DetailOrder, error) {
	var rows []models.DetailOrder
	err := orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Get(&rows)
	return rows, err
}

func (r *DetailRepository) Find(ctx context.Context, userID, id uint) (models.DetailOrder, error) {
	var row models.DetailOrder
	err := orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Where("id = ?", id).First(&row)
	return row, err
}

func (r *DetailRepository) Save(ctx context.Context, d *models.DetailOrder) error {
	return orm.DB(ctx).Save(d)
}

func (r *DetailRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Where("id = ?", id).Delete(&models.DetailOrder{})
}

func (r *DetailRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Delete(&models.DetailOrder{})
}

// PaymentRepository stores payment records.
type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository { return &PaymentRepository{} }

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return orm.DB(ctx).Create(p)
}

func (r *PaymentRepository) List(ctx context.Context, userID uint) ([]models.Payment, error) {
	var rows []models.Payment
	err := orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Get(&rows)
	return rows, err
}

func (r *PaymentRepository) Find(ctx context.Context, userID, id uint) (models.Payment, error) {
	var row models.Payment
	err := orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Where("id = ?", id).First(&row)
	return row, err
}

func (r *PaymentRepository) Save(ctx context.Context, p *models.Payment) error {
	return orm.DB(ctx).Save(p)
}

func (r *PaymentRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Where("id = ?", id).Delete(&models.Payment{})
}

func (r *PaymentRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Delete(&models.Payment{})
}

// ExpeditionRepository stores shipment records.
type ExpeditionRepository struct{}

func NewExpeditionRepository() *ExpeditionRepository { return &ExpeditionRepository{} }

func (r *ExpeditionRepository) Create(ctx context.Context, e *models.ExpeditionOrder) error {
	return orm.DB(ctx).Create(e)
}

// ExistsForOrder reports whether orderID already has an expedition.
func (r *ExpeditionRepository) ExistsForOrder(ctx context.Context, orderID uint) (bool, error) {
	return orm.DB(ctx).Model(&models.ExpeditionOrder{}).Where("order_id = ?", orderID).Exists()
}

func (r *ExpeditionRepository) List(ctx context.Context, userID uint) ([]models.ExpeditionOrder, error) {
	var rows []models.ExpeditionOrder
	err := orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Get(&rows)
	return rows, err
}

func (r *ExpeditionRepository) Find(ctx context.Context, userID, id uint) (models.ExpeditionOrder, error) {
	var row models.ExpeditionOrder
	err := orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Where("id = ?", id).First(&row)
	return row, err
}

func (r *ExpeditionRepository) Save(ctx context.Context, e *models.ExpeditionOrder) error {
	return orm.DB(ctx).Save(e)
}

func (r *ExpeditionRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Where("id = ?", id).Delete(&models.ExpeditionOrder{})
}

func (r *ExpeditionRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	return orm.DB(ctx).Scopes(ownedThroughMissingColumn(userID)).Delete(&models.ExpeditionOrder{})
}
