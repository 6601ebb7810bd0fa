package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderStatuses is the closed set accepted on create and update.
var OrderStatuses = []string{OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled}

type Order struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	Status     string           `gorm:"size:50;not null;default:pending;index" json:"status"`
	DateOrder  Date             `gorm:"type:date;not null;index" json:"date_order"`
	Details    []DetailOrder    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Expedition *ExpeditionOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"expedition,omitempty"`
	Payments   []Payment        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// DetailOrder is one line of an order. Price is the product price at the
// time the line was added.
type DetailOrder struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Product   *Product        `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ExpeditionOrder is the shipment record; an order has at most one.
type ExpeditionOrder struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Transporter      string    `gorm:"size:255;not null" json:"transporter"`
	ExpeditionStatus string    `gorm:"size:50;not null" json:"expedition_status"`
	ExpeditionDate   Date      `gorm:"type:date;not null" json:"expedition_date"`
	TrackingNumber   string    `gorm:"size:255;not null" json:"tracking_number"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	PaymentStatus string          `gorm:"size:50;not null" json:"payment_status"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
