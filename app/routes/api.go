// Package routes registers the storefront API on the router.
package routes

import (
	"time"

	"github.com/shopfront/storefront/app/controllers"
	"github.com/shopfront/storefront/app/graphql"
	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/pkg/ctx"
	pkggraphql "github.com/shopfront/storefront/pkg/graphql"
	"github.com/shopfront/storefront/pkg/middleware"
	"github.com/shopfront/storefront/pkg/rbac"
	"github.com/shopfront/storefront/pkg/router"
	"github.com/shopfront/storefront/pkg/storage"
	"github.com/shopfront/storefront/pkg/ws"
)

// Services is the set of application services the routes dispatch to.
type Services struct {
	Auth      *services.AuthService
	Products  *services.ProductService
	Orders    *services.OrderService
	Cart      *services.CartService
	Wishlist  *services.WishlistService
	Comments  *services.CommentService
	Addresses *services.AddressService
	Users     *services.UserService
}

// NewServices builds every service, storing product images on disk.
func NewServices(disk storage.Disk) *Services {
	return &Services{
		Auth:      services.NewAuthService(),
		Products:  services.NewProductService(disk),
		Orders:    services.NewOrderService(),
		Cart:      services.NewCartService(),
		Wishlist:  services.NewWishlistService(),
		Comments:  services.NewCommentService(),
		Addresses: services.NewAddressService(),
		Users:     services.NewUserService(),
	}
}

// RegisterAPI mounts every /api route. feed serves the admin stock feed and
// may be nil, in which case the route is not registered.
func RegisterAPI(r *router.Router, svc *Services, feed *ws.Hub) error {
	authC := controllers.NewAuthController(svc.Auth)
	productC := controllers.NewProductController(svc.Products)
	orderC := controllers.NewOrderController(svc.Orders)
	cartC := controllers.NewCartController(svc.Cart)
	wishlistC := controllers.NewWishlistController(svc.Wishlist)
	commentC := controllers.NewCommentController(svc.Comments)
	addressC := controllers.NewAddressController(svc.Addresses)
	userC := controllers.NewUserController(svc.Users)

	w := ctx.Wrap

	api := r.Group("/api")

	// Public
	throttled := api.Group("", middleware.RateLimit(config.AuthRateLimit(), time.Minute))
	throttled.Post("/register", "auth.register", w(authC.Register))
	throttled.Post("/login", "auth.login", w(authC.Login))

	api.Get("/products", "products.index", w(productC.Index))
	api.Get("/products/{product}", "products.show", w(productC.Show))
	api.Get("/comments/products/{product}", "comments.index", w(commentC.Index))

	schema, err := pkggraphql.NewSchema(graphql.Query(svc.Products))
	if err != nil {
		return err
	}
	api.Post("/graphql", "graphql", pkggraphql.Handler(schema))

	// Authenticated
	authed := api.Group("", middleware.Auth(svc.Auth))
	authed.Post("/logout", "auth.logout", w(authC.Logout))
	authed.Get("/user", "auth.me", w(authC.Me))

	cart := authed.Group("/cart")
	cart.Get("", "cart.index", w(cartC.Index))
	cart.Post("", "cart.store", w(cartC.Store))
	cart.Delete("", "cart.clear", w(cartC.Clear))
	cart.Delete("/{product}", "cart.destroy", w(cartC.Destroy))

	wishlist := authed.Group("/wishlist")
	wishlist.Get("", "wishlist.index", w(wishlistC.Index))
	wishlist.Post("", "wishlist.store", w(wishlistC.Store))
	wishlist.Delete("", "wishlist.clear", w(wishlistC.Clear))
	wishlist.Delete("/{item}", "wishlist.destroy", w(wishlistC.Destroy))

	authed.Post("/comments", "comments.store", w(commentC.Store))
	authed.Delete("/comments/{product}", "comments.destroy", w(commentC.Destroy))

	orders := authed.Group("/orders")
	orders.Get("", "orders.index", w(orderC.Index))
	orders.Post("", "orders.store", w(orderC.Store))
	orders.Delete("", "orders.clear", w(orderC.Clear))
	orders.Get("/status/{status}", "orders.by_status", w(orderC.ByStatus))
	orders.Get("/date/{date}", "orders.by_date", w(orderC.ByDate))
	orders.Get("/range", "orders.range", w(orderC.Range))
	orders.Get("/{order}", "orders.show", w(orderC.Show))
	orders.Put("/{order}", "orders.update", w(orderC.Update))
	orders.Delete("/{order}", "orders.destroy", w(orderC.Destroy))

	details := authed.Group("/order-details")
	details.Get("", "order_details.index", w(orderC.Details))
	details.Post("", "order_details.store", w(orderC.AddDetail))
	details.Delete("", "order_details.clear", w(orderC.ClearDetails))
	details.Put("/{detail}", "order_details.update", w(orderC.UpdateDetail))
	details.Delete("/{detail}", "order_details.destroy", w(orderC.RemoveDetail))

	payments := authed.Group("/payments")
	payments.Get("", "payments.index", w(orderC.Payments))
	payments.Post("", "payments.store", w(orderC.AddPayment))
	payments.Delete("", "payments.clear", w(orderC.ClearPayments))
	payments.Put("/{payment}", "payments.update", w(orderC.UpdatePayment))
	payments.Delete("/{payment}", "payments.destroy", w(orderC.RemovePayment))

	expeditions := authed.Group("/expeditions")
	expeditions.Get("", "expeditions.index", w(orderC.Expeditions))
	expeditions.Post("", "expeditions.store", w(orderC.AddExpedition))
	expeditions.Delete("", "expeditions.clear", w(orderC.ClearExpeditions))
	expeditions.Get("/{expedition}", "expeditions.show", w(orderC.ShowExpedition))
	expeditions.Put("/{expedition}", "expeditions.update", w(orderC.UpdateExpedition))
	expeditions.Delete("/{expedition}", "expeditions.destroy", w(orderC.RemoveExpedition))

	addresses := authed.Group("/addresses")
	addresses.Get("", "addresses.index", w(addressC.Index))
	addresses.Post("", "addresses.store", w(addressC.Store))
	addresses.Delete("", "addresses.clear", w(addressC.Clear))
	addresses.Put("/{address}", "addresses.update", w(addressC.Update))
	addresses.Delete("/{address}", "addresses.destroy", w(addressC.Destroy))

	// Admin
	catalog := authed.Group("/products", rbac.Require(rbac.ManageCatalog))
	catalog.Post("", "products.store", w(productC.Store))
	catalog.Put("/{product}", "products.update", w(productC.Update))
	catalog.Delete("/{product}", "products.destroy", w(productC.Destroy))
	catalog.Post("/{product}/image", "products.image", w(productC.UpdateImage))

	stock := authed.Group("/products", rbac.Require(rbac.ViewStock))
	stock.Get("/stock", "products.stock", w(productC.Stock))
	stock.Get("/low-stock", "products.low_stock", w(productC.LowStock))

	if feed != nil {
		// Browsers cannot set headers on a WebSocket handshake.
		api.Get("/products/stock/feed", "products.stock_feed", feed.ServeHTTP,
			middleware.AuthQuery(svc.Auth), rbac.Require(rbac.ViewStock))
	}

	users := authed.Group("", rbac.Require(rbac.ManageUsers))
	users.Get("/users", "users.index", w(userC.Index))
	users.Get("/users/{user}", "users.show", w(userC.Show))
	users.Put("/users/{user}", "users.update", w(userC.Update))
	users.Delete("/users/{user}", "users.destroy", w(userC.Destroy))
	users.Get("/user/{user}/roles", "users.roles", w(userC.Roles))
	return nil
}
