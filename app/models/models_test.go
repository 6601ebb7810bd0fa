package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		price, discount string
		want            string
	}{
		{"29.99", "20", "23.99"},
		{"79.99", "15", "67.99"},
		{"10.00", "33.33", "6.67"},
		{"0.05", "50", "0.03"},
	}
	for _, tc := range cases {
		got := DiscountedPrice(decimal.RequireFromString(tc.price),
			decimal.NewNullDecimal(decimal.RequireFromString(tc.discount)))
		require.True(t, got.Valid)
		assert.Equal(t, tc.want, got.Decimal.StringFixed(2), "%s at %s%%", tc.price, tc.discount)
	}
}

func TestDiscountedPriceAbsent(t *testing.T) {
	price := decimal.RequireFromString("12.00")
	assert.False(t, DiscountedPrice(price, decimal.NullDecimal{}).Valid)
	assert.False(t, DiscountedPrice(price, decimal.NewNullDecimal(decimal.Zero)).Valid)
}

func TestProductJSON(t *testing.T) {
	p := Product{Title: "Cap", Price: decimal.RequireFromString("9.50")}
	p.Reprice()
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, 9.5, out["price"])
	assert.Nil(t, out["discounted_price"])
	assert.Nil(t, out["image_url"])
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-05-01T00:00:00Z"))
	assert.Equal(t, "2024-05-01", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 6, 2, 13, 4, 0, 0, time.FixedZone("X", 3600))))
	assert.Equal(t, "2024-06-02", d.String())

	require.NoError(t, d.Scan([]byte("2024-07-03")))
	assert.Equal(t, "2024-07-03", d.String())

	assert.Error(t, d.Scan(42))
}

func TestRoleNames(t *testing.T) {
	u := User{Roles: []Role{{Name: "admin"}, {Name: "user"}}}
	assert.Equal(t, []string{"admin", "user"}, u.RoleNames())
	assert.Equal(t, []string{}, User{}.RoleNames())
}
