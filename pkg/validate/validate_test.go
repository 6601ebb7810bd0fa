package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront/pkg/validate"
)

type productInput struct {
	Title    string   `json:"title"               validate:"required,max=255"`
	Price    *float64 `json:"price"               validate:"required,gte=0"`
	Stock    *int     `json:"stock"               validate:"required,integer,min=0"`
	Category string   `json:"category"            validate:"nullable,max=10"`
	Discount *float64 `json:"discount_percentage" validate:"nullable,between=0,100"`
}

func ptr[T any](v T) *T { return &v }

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{Title: "Mug", Price: ptr(9.5), Stock: ptr(0)})
	assert.False(t, validate.HasErrors(errs), "got %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{Title: "  "})
	assert.Equal(t, "The title field is required.", errs["title"])
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
	assert.NotContains(t, errs, "category")
}

func TestPointerZeroIsPresent(t *testing.T) {
	errs := validate.Struct(productInput{Title: "x", Price: ptr(0.0), Stock: ptr(0)})
	assert.Empty(t, errs)
}

func TestNumericBounds(t *testing.T) {
	errs := validate.Struct(productInput{Title: "x", Price: ptr(-1.0), Stock: ptr(-2)})
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
}

func TestBetween(t *testing.T) {
	errs := validate.Struct(productInput{Title: "x", Price: ptr(1.0), Stock: ptr(1), Discount: ptr(120.0)})
	assert.Equal(t, "The discount_percentage must be between 0 and 100.", errs["discount_percentage"])

	errs = validate.Struct(productInput{Title: "x", Price: ptr(1.0), Stock: ptr(1), Discount: ptr(100.0)})
	assert.Empty(t, errs)
}

func TestStringLength(t *testing.T) {
	errs := validate.Struct(productInput{Title: "x", Price: ptr(1.0), Stock: ptr(1), Category: "far too long"})
	assert.Contains(t, errs, "category")
}

func TestEmailAndMin(t *testing.T) {
	type in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	errs := validate.Struct(in{Email: "not-an-email", Password: "short"})
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The password must be at least 8 characters.", errs["password"])

	assert.Empty(t, validate.Struct(in{Email: "ana@example.com", Password: "password"}))
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,paid,shipped,max=10"`
	}
	assert.Empty(t, validate.Struct(in{Status: "paid"}))
	assert.Equal(t, "The selected status is invalid.", validate.Struct(in{Status: "lost"})["status"])
}

func TestDateRule(t *testing.T) {
	type in struct {
		Date string `json:"date_order" validate:"required,date"`
	}
	assert.Empty(t, validate.Struct(in{Date: "2024-02-29"}))
	assert.Contains(t, validate.Struct(in{Date: "29/02/2024"}), "date_order")
	assert.Contains(t, validate.Struct(in{Date: "2023-02-29"}), "date_order")
}

func TestIntegerRuleOnFloat(t *testing.T) {
	type in struct {
		Quantity *float64 `json:"quantity" validate:"required,integer"`
	}
	assert.Empty(t, validate.Struct(in{Quantity: ptr(3.0)}))
	assert.Contains(t, validate.Struct(in{Quantity: ptr(2.5)}), "quantity")
}
