package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/app/models"
)

func TestOrderService_CreateAndScopedGet(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	owner := register(t, "owner@example.com")
	other := register(t, "other@example.com")
	orders := NewOrderService()

	product, err := NewProductService(disk).Create(ctx, admin, productInput("Lamp", 25.5, 4), nil)
	require.NoError(t, err)

	order, err := orders.Create(ctx, owner, OrderInput{Status: models.OrderPending, DateOrder: "2025-03-12"})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, order.UserID)

	detail, err := orders.AddDetail(ctx, owner, DetailInput{OrderID: order.ID, ProductID: product.ID, Quantity: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "25.50", detail.Price.StringFixed(2))

	_, err = orders.AddPayment(ctx, owner, PaymentInput{OrderID: order.ID, PaymentMethod: "card", PaymentStatus: "paid", Amount: ptr(51.0)})
	require.NoError(t, err)

	got, err := orders.Get(ctx, owner, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Details, 1)
	require.NotNil(t, got.Details[0].Product)
	assert.Equal(t, "Lamp", got.Details[0].Product.Title)
	assert.Len(t, got.Payments, 1)
	assert.Equal(t, "2025-03-12", got.DateOrder.String())

	_, err = orders.Get(ctx, other, order.ID)
	requireKind(t, err, KindNotFound)

	_, err = orders.AddDetail(ctx, other, DetailInput{OrderID: order.ID, ProductID: product.ID, Quantity: ptr(1)})
	requireKind(t, err, KindNotFound)

	_, err = orders.AddDetail(ctx, owner, DetailInput{OrderID: order.ID, ProductID: 9999, Quantity: ptr(1)})
	requireKind(t, err, KindNotFound)
}

func TestOrderService_AtMostOneExpedition(t *testing.T) {
	setup(t)
	ctx := context.Background()
	owner := register(t, "ship@example.com")
	orders := NewOrderService()

	order, err := orders.Create(ctx, owner, OrderInput{Status: models.OrderPaid, DateOrder: "2025-03-12"})
	require.NoError(t, err)

	in := ExpeditionInput{OrderID: order.ID, Transporter: "DHL", ExpeditionStatus: "sent", ExpeditionDate: "2025-03-13", TrackingNumber: "TRK1"}
	exp, err := orders.AddExpedition(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-13", exp.ExpeditionDate.String())

	_, err = orders.AddExpedition(ctx, owner, in)
	requireKind(t, err, KindValidation)

	got, err := orders.Get(ctx, owner, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Expedition)
	assert.Equal(t, "TRK1", got.Expedition.TrackingNumber)
}

func TestOrderService_SubResourcesMatchNothingThroughOwnerScope(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	owner := register(t, "lines@example.com")
	orders := NewOrderService()

	product, err := NewProductService(disk).Create(ctx, admin, productInput("Pen", 2, 10), nil)
	require.NoError(t, err)
	order, err := orders.Create(ctx, owner, OrderInput{Status: models.OrderPending, DateOrder: "2025-03-12"})
	require.NoError(t, err)
	detail, err := orders.AddDetail(ctx, owner, DetailInput{OrderID: order.ID, ProductID: product.ID, Quantity: ptr(1)})
	require.NoError(t, err)
	payment, err := orders.AddPayment(ctx, owner, PaymentInput{OrderID: order.ID, PaymentMethod: "cash", PaymentStatus: "pending", Amount: ptr(2.0)})
	require.NoError(t, err)

	details, err := orders.ListDetails(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, details)

	_, err = orders.UpdateDetail(ctx, owner, detail.ID, DetailUpdateInput{Quantity: ptr(3), Price: ptr(2.0)})
	requireKind(t, err, KindNotFound)
	requireKind(t, orders.RemoveDetail(ctx, owner, detail.ID), KindNotFound)
	requireKind(t, orders.RemovePayment(ctx, owner, payment.ID), KindNotFound)

	n, err := orders.ClearPayments(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The rows themselves are untouched.
	got, err := orders.Get(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Details, 1)
	assert.Len(t, got.Payments, 1)
}

func TestOrderService_Filters(t *testing.T) {
	setup(t)
	ctx := context.Background()
	owner := register(t, "filters@example.com")
	orders := NewOrderService()

	for _, o := range []OrderInput{
		{Status: models.OrderPending, DateOrder: "2025-01-10"},
		{Status: models.OrderPaid, DateOrder: "2025-02-10"},
		{Status: models.OrderPaid, DateOrder: "2025-03-10"},
	} {
		_, err := orders.Create(ctx, owner, o)
		require.NoError(t, err)
	}

	paid, err := orders.ListByStatus(ctx, owner, models.OrderPaid)
	require.NoError(t, err)
	assert.Len(t, paid, 2)

	onDate, err := orders.ListByDate(ctx, owner, "2025-02-10")
	require.NoError(t, err)
	assert.Len(t, onDate, 1)

	between, err := orders.ListBetween(ctx, owner, "2025-01-10", "2025-02-28")
	require.NoError(t, err)
	assert.Len(t, between, 2)

	_, err = orders.ListBetween(ctx, owner, "2025-03-01", "2025-01-01")
	requireKind(t, err, KindValidation)

	_, err = orders.ListByDate(ctx, owner, "10/02/2025")
	requireKind(t, err, KindValidation)
}

func TestOrderService_UpdateRemoveClear(t *testing.T) {
	setup(t)
	ctx := context.Background()
	owner := register(t, "crud@example.com")
	other := register(t, "intruder@example.com")
	orders := NewOrderService()

	order, err := orders.Create(ctx, owner, OrderInput{Status: models.OrderPending, DateOrder: "2025-03-12"})
	require.NoError(t, err)

	updated, err := orders.Update(ctx, owner, order.ID, OrderInput{Status: models.OrderShipped, DateOrder: "2025-03-15"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	_, err = orders.Update(ctx, other, order.ID, OrderInput{Status: models.OrderCancelled, DateOrder: "2025-03-15"})
	requireKind(t, err, KindNotFound)
	requireKind(t, orders.Remove(ctx, other, order.ID), KindNotFound)

	require.NoError(t, orders.Remove(ctx, owner, order.ID))

	_, err = orders.Create(ctx, owner, OrderInput{Status: models.OrderPending, DateOrder: "2025-03-12"})
	require.NoError(t, err)
	n, err := orders.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
