package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/repositories"
	"github.com/shopfront/storefront/pkg/auth"
	"github.com/shopfront/storefront/pkg/logger"
	"github.com/shopfront/storefront/pkg/metrics"
)

type OrderInput struct {
	Status    string `json:"status"     validate:"required,in=pending,paid,shipped,delivered,cancelled"`
	DateOrder string `json:"date_order" validate:"required,date"`
}

type DetailInput struct {
	OrderID   uint `json:"order_id"   validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"   validate:"required,integer,min=1"`
}

// DetailUpdateInput overwrites a line's quantity and price.
type DetailUpdateInput struct {
	Quantity *int     `json:"quantity" validate:"required,integer,min=1"`
	Price    *float64 `json:"price"    validate:"required,gte=0"`
}

type ExpeditionInput struct {
	OrderID          uint   `json:"order_id"          validate:"required"`
	Transporter      string `json:"transporter"       validate:"required,max=255"`
	ExpeditionStatus string `json:"expedition_status" validate:"required,max=50"`
	ExpeditionDate   string `json:"expedition_date"   validate:"required,date"`
	TrackingNumber   string `json:"tracking_number"   validate:"required,max=255"`
}

type ExpeditionUpdateInput struct {
	Transporter      string `json:"transporter"       validate:"required,max=255"`
	ExpeditionStatus string `json:"expedition_status" validate:"required,max=50"`
	ExpeditionDate   string `json:"expedition_date"   validate:"required,date"`
	TrackingNumber   string `json:"tracking_number"   validate:"required,max=255"`
}

type PaymentInput struct {
	OrderID       uint     `json:"order_id"       validate:"required"`
	PaymentMethod string   `json:"payment_method" validate:"required,max=50"`
	PaymentStatus string   `json:"payment_status" validate:"required,max=50"`
	Amount        *float64 `json:"amount"         validate:"required,gte=0"`
}

type PaymentUpdateInput struct {
	PaymentMethod string   `json:"payment_method" validate:"required,max=50"`
	PaymentStatus string   `json:"payment_status" validate:"required,max=50"`
	Amount        *float64 `json:"amount"         validate:"required,gte=0"`
}

// OrderService owns orders and their lines, expedition and payments. Every
// method is scoped to the caller passed in.
type OrderService struct {
	orders      *repositories.OrderRepository
	details     *repositories.DetailRepository
	expeditions *repositories.ExpeditionRepository
	payments    *repositories.PaymentRepository
	products    *repositories.ProductRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:      repositories.NewOrderRepository(),
		details:     repositories.NewDetailRepository(),
		expeditions: repositories.NewExpeditionRepository(),
		payments:    repositories.NewPaymentRepository(),
		products:    repositories.NewProductRepository(),
	}
}

func (s *OrderService) List(ctx context.Context, id auth.Identity) ([]models.Order, error) {
	orders, err := s.orders.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListByStatus(ctx context.Context, id auth.Identity, status string) ([]models.Order, error) {
	orders, err := s.orders.ListByStatus(ctx, id.UserID, status)
	if err != nil {
		return nil, internal("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListByDate(ctx context.Context, id auth.Identity, date string) ([]models.Order, error) {
	d, err := models.ParseDate(date)
	if err != nil {
		return nil, validationError("date_order", "The date_order is not a valid date.")
	}
	orders, err := s.orders.ListByDate(ctx, id.UserID, d)
	if err != nil {
		return nil, internal("Failed to fetch orders", err)
	}
	return orders, nil
}

// ListBetween returns orders dated from start to end inclusive.
func (s *OrderService) ListBetween(ctx context.Context, id auth.Identity, start, end string) ([]models.Order, error) {
	from, err := models.ParseDate(start)
	if err != nil {
		return nil, validationError("start_date", "The start_date is not a valid date.")
	}
	to, err := models.ParseDate(end)
	if err != nil {
		return nil, validationError("end_date", "The end_date is not a valid date.")
	}
	if to.Before(from.Time) {
		return nil, validationError("end_date", "The end_date must be a date after or equal to start_date.")
	}
	orders, err := s.orders.ListBetween(ctx, id.UserID, from, to)
	if err != nil {
		return nil, internal("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) Create(ctx context.Context, id auth.Identity, in OrderInput) (models.Order, error) {
	date, err := models.ParseDate(in.DateOrder)
	if err != nil {
		return models.Order{}, validationError("date_order", "The date_order is not a valid date.")
	}
	order := models.Order{UserID: id.UserID, Status: in.Status, DateOrder: date}
	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, internal("Failed to create order", err)
	}
	metrics.OrdersCreated.Inc()
	logger.WithCtx(ctx).Info("order created", "order_id", order.ID)
	return order, nil
}

// Get returns the caller's order with its lines, expedition and payments.
func (s *OrderService) Get(ctx context.Context, id auth.Identity, orderID uint) (models.Order, error) {
	order, err := s.orders.Find(ctx, id.UserID, orderID, true)
	if err != nil {
		return models.Order{}, lookupError(err, "Order not found", "Failed to fetch order")
	}
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, id auth.Identity, orderID uint, in OrderInput) (models.Order, error) {
	order, err := s.orders.Find(ctx, id.UserID, orderID, false)
	if err != nil {
		return models.Order{}, lookupError(err, "Order not found", "Failed to update order")
	}
	date, err := models.ParseDate(in.DateOrder)
	if err != nil {
		return models.Order{}, validationError("date_order", "The date_order is not a valid date.")
	}
	order.Status = in.Status
	order.DateOrder = date
	if err := s.orders.Update(ctx, &order); err != nil {
		return models.Order{}, internal("Failed to update order", err)
	}
	return order, nil
}

func (s *OrderService) Remove(ctx context.Context, id auth.Identity, orderID uint) error {
	n, err := s.orders.Delete(ctx, id.UserID, orderID)
	return removed(n, err, "Order not found", "Failed to delete order")
}

// Clear deletes all of the caller's orders and reports how many went.
func (s *OrderService) Clear(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.orders.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to delete orders")
}

// ownedOrder loads the caller's order, or NotFound.
func (s *OrderService) ownedOrder(ctx context.Context, id auth.Identity, orderID uint) (models.Order, error) {
	order, err := s.orders.Find(ctx, id.UserID, orderID, false)
	if err != nil {
		return models.Order{}, lookupError(err, "Order not found", "Failed to fetch order")
	}
	return order, nil
}

// AddDetail adds a line to one of the caller's orders at the product's
// current price. Stock is not reserved.
func (s *OrderService) AddDetail(ctx context.Context, id auth.Identity, in DetailInput) (models.DetailOrder, error) {
	order, err := s.ownedOrder(ctx, id, in.OrderID)
	if err != nil {
		return models.DetailOrder{}, err
	}
	product, err := s.products.Find(ctx, in.ProductID)
	if err != nil {
		return models.DetailOrder{}, lookupError(err, "Product not found", "Failed to add order detail")
	}

	detail := models.DetailOrder{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  *in.Quantity,
		Price:     product.Price,
	}
	if err := s.details.Create(ctx, &detail); err != nil {
		return models.DetailOrder{}, internal("Failed to add order detail", err)
	}
	return detail, nil
}

// AddExpedition records the shipment of one of the caller's orders. An
// order has at most one expedition.
func (s *OrderService) AddExpedition(ctx context.Context, id auth.Identity, in ExpeditionInput) (models.ExpeditionOrder, error) {
	order, err := s.ownedOrder(ctx, id, in.OrderID)
	if err != nil {
		return models.ExpeditionOrder{}, err
	}
	date, err := models.ParseDate(in.ExpeditionDate)
	if err != nil {
		return models.ExpeditionOrder{}, validationError("expedition_date", "The expedition_date is not a valid date.")
	}
	exists, err := s.expeditions.ExistsForOrder(ctx, order.ID)
	if err != nil {
		return models.ExpeditionOrder{}, internal("Failed to add expedition", err)
	}
	if exists {
		return models.ExpeditionOrder{}, validationError("order_id", "The order already has an expedition.")
	}

	exp := models.ExpeditionOrder{
		OrderID:          order.ID,
		Transporter:      in.Transporter,
		ExpeditionStatus: in.ExpeditionStatus,
		ExpeditionDate:   date,
		TrackingNumber:   in.TrackingNumber,
	}
	if err := s.expeditions.Create(ctx, &exp); err != nil {
		return models.ExpeditionOrder{}, internal("Failed to add expedition", err)
	}
	return exp, nil
}

func (s *OrderService) AddPayment(ctx context.Context, id auth.Identity, in PaymentInput) (models.Payment, error) {
	order, err := s.ownedOrder(ctx, id, in.OrderID)
	if err != nil {
		return models.Payment{}, err
	}
	payment := models.Payment{
		OrderID:       order.ID,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: in.PaymentStatus,
		Amount:        decimal.NewFromFloat(*in.Amount).Round(2),
	}
	if err := s.payments.Create(ctx, &payment); err != nil {
		return models.Payment{}, internal("Failed to add payment", err)
	}
	return payment, nil
}

// The detail, expedition and payment tables carry no owner column, so the
// owner-scoped reads and writes below match no rows: lists are empty,
// lookups are NotFound and clears remove nothing.

func (s *OrderService) ListDetails(ctx context.Context, id auth.Identity) ([]models.DetailOrder, error) {
	rows, err := s.details.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch order details", err)
	}
	return rows, nil
}

func (s *OrderService) UpdateDetail(ctx context.Context, id auth.Identity, detailID uint, in DetailUpdateInput) (models.DetailOrder, error) {
	row, err := s.details.Find(ctx, id.UserID, detailID)
	if err != nil {
		return models.DetailOrder{}, lookupError(err, "Order detail not found", "Failed to update order detail")
	}
	row.Quantity = *in.Quantity
	row.Price = decimal.NewFromFloat(*in.Price).Round(2)
	if err := s.details.Save(ctx, &row); err != nil {
		return models.DetailOrder{}, internal("Failed to update order detail", err)
	}
	return row, nil
}

func (s *OrderService) RemoveDetail(ctx context.Context, id auth.Identity, detailID uint) error {
	n, err := s.details.Delete(ctx, id.UserID, detailID)
	return removed(n, err, "Order detail not found", "Failed to delete order detail")
}

func (s *OrderService) ClearDetails(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.details.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to delete order details")
}

func (s *OrderService) ListExpeditions(ctx context.Context, id auth.Identity) ([]models.ExpeditionOrder, error) {
	rows, err := s.expeditions.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch expeditions", err)
	}
	return rows, nil
}

func (s *OrderService) GetExpedition(ctx context.Context, id auth.Identity, expeditionID uint) (models.ExpeditionOrder, error) {
	row, err := s.expeditions.Find(ctx, id.UserID, expeditionID)
	if err != nil {
		return models.ExpeditionOrder{}, lookupError(err, "Expedition not found", "Failed to fetch expedition")
	}
	return row, nil
}

func (s *OrderService) UpdateExpedition(ctx context.Context, id auth.Identity, expeditionID uint, in ExpeditionUpdateInput) (models.ExpeditionOrder, error) {
	row, err := s.expeditions.Find(ctx, id.UserID, expeditionID)
	if err != nil {
		return models.ExpeditionOrder{}, lookupError(err, "Expedition not found", "Failed to update expedition")
	}
	date, err := models.ParseDate(in.ExpeditionDate)
	if err != nil {
		return models.ExpeditionOrder{}, validationError("expedition_date", "The expedition_date is not a valid date.")
	}
	row.Transporter = in.Transporter
	row.ExpeditionStatus = in.ExpeditionStatus
	row.ExpeditionDate = date
	row.TrackingNumber = in.TrackingNumber
	if err := s.expeditions.Save(ctx, &row); err != nil {
		return models.ExpeditionOrder{}, internal("Failed to update expedition", err)
	}
	return row, nil
}

func (s *OrderService) RemoveExpedition(ctx context.Context, id auth.Identity, expeditionID uint) error {
	n, err := s.expeditions.Delete(ctx, id.UserID, expeditionID)
	return removed(n, err, "Expedition not found", "Failed to delete expedition")
}

func (s *OrderService) ClearExpeditions(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.expeditions.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to delete expeditions")
}

func (s *OrderService) ListPayments(ctx context.Context, id auth.Identity) ([]models.Payment, error) {
	rows, err := s.payments.List(ctx, id.UserID)
	if err != nil {
		return nil, internal("Failed to fetch payments", err)
	}
	return rows, nil
}

func (s *OrderService) UpdatePayment(ctx context.Context, id auth.Identity, paymentID uint, in PaymentUpdateInput) (models.Payment, error) {
	row, err := s.payments.Find(ctx, id.UserID, paymentID)
	if err != nil {
		return models.Payment{}, lookupError(err, "Payment not found", "Failed to update payment")
	}
	row.PaymentMethod = in.PaymentMethod
	row.PaymentStatus = in.PaymentStatus
	row.Amount = decimal.NewFromFloat(*in.Amount).Round(2)
	if err := s.payments.Save(ctx, &row); err != nil {
		return models.Payment{}, internal("Failed to update payment", err)
	}
	return row, nil
}

func (s *OrderService) RemovePayment(ctx context.Context, id auth.Identity, paymentID uint) error {
	n, err := s.payments.Delete(ctx, id.UserID, paymentID)
	return removed(n, err, "Payment not found", "Failed to delete payment")
}

func (s *OrderService) ClearPayments(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.payments.Clear(ctx, id.UserID)
	return cleared(n, err, "Failed to delete payments")
}

// removed turns a single-row delete result into NotFound when nothing
// matched.
func removed(n int64, err error, missing, failed string) error {
	if err != nil {
		return internal(failed, err)
	}
	if n == 0 {
		return notFound(missing)
	}
	return nil
}

func cleared(n int64, err error, failed string) (int64, error) {
	if err != nil {
		return 0, internal(failed, err)
	}
	return n, nil
}
