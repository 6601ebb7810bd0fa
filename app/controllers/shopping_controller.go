package controllers

import (
	"net/http"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/ctx"
)

type CartController struct {
	service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

func (h *CartController) Index(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	items, err := h.service.List(c.Context(), id)
	respond(c, items, err)
}

func (h *CartController) Store(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.CartInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.service.Add(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Product added to cart", item)
}

// Destroy removes the line for the product in the path.
func (h *CartController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	done(c, "Product removed from cart", h.service.Remove(c.Context(), id, productID))
}

func (h *CartController) Clear(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.Clear(c.Context(), id)
	clearedResponse(c, "Cart cleared", n, err)
}

type WishlistController struct {
	service *services.WishlistService
}

func NewWishlistController(service *services.WishlistService) *WishlistController {
	return &WishlistController{service: service}
}

func (h *WishlistController) Index(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	items, err := h.service.List(c.Context(), id)
	respond(c, items, err)
}

func (h *WishlistController) Store(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.WishlistInput
	if !c.BindJSON(&in) {
		return
	}
	item, created, err := h.service.Add(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	if !created {
		c.Message(http.StatusOK, "Product already in wishlist", item)
		return
	}
	c.Created("Product added to wishlist", item)
}

func (h *WishlistController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	itemID, ok := c.ParamUint("item")
	if !ok {
		return
	}
	done(c, "Product removed from wishlist", h.service.Remove(c.Context(), id, itemID))
}

func (h *WishlistController) Clear(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.Clear(c.Context(), id)
	clearedResponse(c, "Wishlist cleared", n, err)
}

type CommentController struct {
	service *services.CommentService
}

func NewCommentController(service *services.CommentService) *CommentController {
	return &CommentController{service: service}
}

func (h *CommentController) Index(c *ctx.Context) {
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	comments, err := h.service.ListByProduct(c.Context(), productID)
	respond(c, comments, err)
}

func (h *CommentController) Store(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.CommentInput
	if !c.BindJSON(&in) {
		return
	}
	comment, err := h.service.Add(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Comment added", comment)
}

// Destroy removes the caller's comments on the product in the path.
func (h *CommentController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	done(c, "Comment deleted", h.service.Remove(c.Context(), id, productID))
}

func (h *CommentController) Clear(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	n, err := h.service.ClearByProduct(c.Context(), id, productID)
	clearedResponse(c, "Comments deleted", n, err)
}

type AddressController struct {
	service *services.AddressService
}

func NewAddressController(service *services.AddressService) *AddressController {
	return &AddressController{service: service}
}

func (h *AddressController) Index(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	rows, err := h.service.List(c.Context(), id)
	respond(c, rows, err)
}

func (h *AddressController) Store(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.Add(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Address added", row)
}

func (h *AddressController) Update(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	addressID, ok := c.ParamUint("address")
	if !ok {
		return
	}
	var in services.AddressInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.Update(c.Context(), id, addressID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Address updated", row)
}

func (h *AddressController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	addressID, ok := c.ParamUint("address")
	if !ok {
		return
	}
	done(c, "Address deleted", h.service.Remove(c.Context(), id, addressID))
}

func (h *AddressController) Clear(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.Clear(c.Context(), id)
	clearedResponse(c, "Addresses deleted", n, err)
}
