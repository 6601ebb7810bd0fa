package kernel

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/app/routes"
	"github.com/shopfront/storefront/database/migrations"
	"github.com/shopfront/storefront/database/seeders"
	"github.com/shopfront/storefront/pkg/testkit"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type session struct {
	User struct {
		ID uint `json:"id"`
	} `json:"user"`
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}

type product struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title"`
	Image    *string `json:"image"`
	ImageURL *string `json:"image_url"`
}

func newApp(t *testing.T) http.Handler {
	t.Helper()
	db := testkit.SetupDB(t, migrations.Up)
	disk := testkit.SetupDisk(t)

	ctx := context.Background()
	require.NoError(t, seeders.SeedRoles(ctx, db))
	require.NoError(t, seeders.SeedUsers(ctx, db))

	r, err := New(routes.NewServices(disk), disk, nil)
	require.NoError(t, err)
	return r.Handler()
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := testkit.Do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s session
	testkit.DecodeData(t, rec, &s)
	require.NotEmpty(t, s.Token)
	return s.Token
}

func registerBuyer(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := testkit.Do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Buyer", "email": email, "password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return login(t, h, email, "secret-pass")
}

func createProduct(t *testing.T, h http.Handler, token, title string, stock int) product {
	t.Helper()
	rec := testkit.Do(t, h, http.MethodPost, "/api/products", token, map[string]any{
		"title": title, "description": title + " description", "price": 10, "stock": stock,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p product
	testkit.DecodeData(t, rec, &p)
	return p
}

func TestCheckoutFlow(t *testing.T) {
	h := newApp(t)
	adminToken := login(t, h, "admin@example.com", seeders.DemoPassword)
	buyerToken := registerBuyer(t, h, "buyer@example.com")

	p := createProduct(t, h, adminToken, "Mug", 10)

	rec := testkit.Do(t, h, http.MethodPost, "/api/cart", buyerToken, map[string]any{
		"product_id": p.ID, "quantity": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = testkit.Do(t, h, http.MethodGet, "/api/cart", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lines []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	testkit.DecodeData(t, rec, &lines)
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)

	rec = testkit.Do(t, h, http.MethodPost, "/api/orders", buyerToken, map[string]any{
		"status": "pending", "date_order": "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID uint `json:"id"`
	}
	testkit.DecodeData(t, rec, &order)

	rec = testkit.Do(t, h, http.MethodPost, "/api/order-details", buyerToken, map[string]any{
		"order_id": order.ID, "product_id": p.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = testkit.Do(t, h, http.MethodGet, "/api/orders/range?start=2024-04-01&end=2024-05-31", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var orders []struct {
		ID uint `json:"id"`
	}
	testkit.DecodeData(t, rec, &orders)
	assert.Len(t, orders, 1)
}

func TestAuthorization(t *testing.T) {
	h := newApp(t)
	adminToken := login(t, h, "admin@example.com", seeders.DemoPassword)
	buyerToken := registerBuyer(t, h, "buyer@example.com")

	rec := testkit.Do(t, h, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, h, http.MethodGet, "/api/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, h, http.MethodGet, "/api/products/stock", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized. Admin access required.", testkit.Decode(t, rec).Message)

	rec = testkit.Do(t, h, http.MethodGet, "/api/products/stock", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(t, h, http.MethodPost, "/api/products", buyerToken, map[string]any{
		"title": "Nope", "description": "x", "price": 1, "stock": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testkit.Do(t, h, http.MethodGet, "/api/users", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testkit.Do(t, h, http.MethodGet, "/api/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(t, h, http.MethodPost, "/api/logout", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = testkit.Do(t, h, http.MethodGet, "/api/user", buyerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidationAndNotFound(t *testing.T) {
	h := newApp(t)

	rec := testkit.Do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name": "X", "email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := testkit.Decode(t, rec)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")

	rec = testkit.Do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, h, http.MethodGet, "/api/products/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testkit.Do(t, h, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", testkit.Decode(t, rec).Message)
}

func TestProductImageUploadIsServed(t *testing.T) {
	h := newApp(t)
	adminToken := login(t, h, "admin@example.com", seeders.DemoPassword)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Poster"))
	require.NoError(t, mw.WriteField("description", "A poster"))
	require.NoError(t, mw.WriteField("price", "12.50"))
	require.NoError(t, mw.WriteField("stock", "4"))
	require.NoError(t, mw.WriteField("discount_percentage", "10"))
	part, err := mw.CreateFormFile("image", "poster.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p product
	testkit.DecodeData(t, rec, &p)
	require.NotNil(t, p.Image)
	assert.Equal(t, "images/1.jpeg", *p.Image)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "http://localhost/storage/images/1.jpeg", *p.ImageURL)

	rec = testkit.Do(t, h, http.MethodGet, "/storage/images/1.jpeg", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestCatalogGraphQL(t *testing.T) {
	h := newApp(t)
	adminToken := login(t, h, "admin@example.com", seeders.DemoPassword)
	createProduct(t, h, adminToken, "Lamp", 3)

	rec := testkit.Do(t, h, http.MethodPost, "/api/graphql", "", map[string]string{
		"query": `{ products { title stock discounted_price } }`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":{"products":[{"title":"Lamp","stock":3,"discounted_price":null}]}}`,
		rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newApp(t)
	testkit.Do(t, h, http.MethodGet, "/api/products", "", nil)

	rec := testkit.Do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}
