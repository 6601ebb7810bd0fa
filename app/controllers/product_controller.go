package controllers

import (
	"net/http"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/pkg/ctx"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index lists the catalog, optionally narrowed with ?category=.
func (h *ProductController) Index(c *ctx.Context) {
	products, err := h.service.List(c.Context(), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(products)
}

// Show accepts a numeric id or a slug.
func (h *ProductController) Show(c *ctx.Context) {
	p, err := h.service.Get(c.Context(), c.Param("product"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

// Store takes JSON or multipart/form-data with an optional "image" part.
func (h *ProductController) Store(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.Bind(&in) {
		return
	}
	img, ok := imageUpload(c)
	if !ok {
		return
	}
	p, err := h.service.Create(c.Context(), id, in, img)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Product created", p)
}

func (h *ProductController) Update(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.Bind(&in) {
		return
	}
	img, ok := imageUpload(c)
	if !ok {
		return
	}
	p, err := h.service.Update(c.Context(), id, productID, in, img)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Product updated", p)
}

func (h *ProductController) UpdateImage(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	img, ok := imageUpload(c)
	if !ok {
		return
	}
	p, err := h.service.UpdateImage(c.Context(), id, productID, img)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Image updated", p)
}

func (h *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	productID, ok := c.ParamUint("product")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Context(), id, productID); err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Product deleted", nil)
}

func (h *ProductController) Stock(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	items, err := h.service.Stock(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(items)
}

// LowStock uses ?threshold= when given, else LOW_STOCK_THRESHOLD.
func (h *ProductController) LowStock(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	threshold := c.QueryInt("threshold", config.LowStockThreshold())
	items, err := h.service.LowStock(c.Context(), id, threshold)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(items)
}
