package controllers

import (
	"net/http"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/ctx"
)

// OrderController serves orders and their details, payments and
// expeditions.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (h *OrderController) Index(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orders, err := h.service.List(c.Context(), id)
	respond(c, orders, err)
}

func (h *OrderController) ByStatus(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orders, err := h.service.ListByStatus(c.Context(), id, c.Param("status"))
	respond(c, orders, err)
}

func (h *OrderController) ByDate(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orders, err := h.service.ListByDate(c.Context(), id, c.Param("date"))
	respond(c, orders, err)
}

// Range filters on ?start=&end=, both inclusive.
func (h *OrderController) Range(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orders, err := h.service.ListBetween(c.Context(), id, c.Query("start"), c.Query("end"))
	respond(c, orders, err)
}

func (h *OrderController) Store(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := h.service.Create(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Order created", order)
}

func (h *OrderController) Show(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orderID, ok := c.ParamUint("order")
	if !ok {
		return
	}
	order, err := h.service.Get(c.Context(), id, orderID)
	respond(c, order, err)
}

func (h *OrderController) Update(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orderID, ok := c.ParamUint("order")
	if !ok {
		return
	}
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := h.service.Update(c.Context(), id, orderID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Order updated", order)
}

func (h *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	orderID, ok := c.ParamUint("order")
	if !ok {
		return
	}
	done(c, "Order deleted", h.service.Remove(c.Context(), id, orderID))
}

func (h *OrderController) Clear(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.Clear(c.Context(), id)
	clearedResponse(c, "Orders deleted", n, err)
}

// ── Details ──────────────────────────────────────────────────────────────────

func (h *OrderController) Details(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	rows, err := h.service.ListDetails(c.Context(), id)
	respond(c, rows, err)
}

func (h *OrderController) AddDetail(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.DetailInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.AddDetail(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Order detail added", row)
}

func (h *OrderController) UpdateDetail(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	detailID, ok := c.ParamUint("detail")
	if !ok {
		return
	}
	var in services.DetailUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.UpdateDetail(c.Context(), id, detailID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Order detail updated", row)
}

func (h *OrderController) RemoveDetail(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	detailID, ok := c.ParamUint("detail")
	if !ok {
		return
	}
	done(c, "Order detail deleted", h.service.RemoveDetail(c.Context(), id, detailID))
}

func (h *OrderController) ClearDetails(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.ClearDetails(c.Context(), id)
	clearedResponse(c, "Order details deleted", n, err)
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (h *OrderController) Payments(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	rows, err := h.service.ListPayments(c.Context(), id)
	respond(c, rows, err)
}

func (h *OrderController) AddPayment(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.PaymentInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.AddPayment(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Payment added", row)
}

func (h *OrderController) UpdatePayment(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	paymentID, ok := c.ParamUint("payment")
	if !ok {
		return
	}
	var in services.PaymentUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.UpdatePayment(c.Context(), id, paymentID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Payment updated", row)
}

func (h *OrderController) RemovePayment(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	paymentID, ok := c.ParamUint("payment")
	if !ok {
		return
	}
	done(c, "Payment deleted", h.service.RemovePayment(c.Context(), id, paymentID))
}

func (h *OrderController) ClearPayments(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.ClearPayments(c.Context(), id)
	clearedResponse(c, "Payments deleted", n, err)
}

// ── Expeditions ──────────────────────────────────────────────────────────────

func (h *OrderController) Expeditions(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	rows, err := h.service.ListExpeditions(c.Context(), id)
	respond(c, rows, err)
}

func (h *OrderController) ShowExpedition(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	expeditionID, ok := c.ParamUint("expedition")
	if !ok {
		return
	}
	row, err := h.service.GetExpedition(c.Context(), id, expeditionID)
	respond(c, row, err)
}

func (h *OrderController) AddExpedition(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in services.ExpeditionInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.AddExpedition(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("Expedition added", row)
}

func (h *OrderController) UpdateExpedition(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	expeditionID, ok := c.ParamUint("expedition")
	if !ok {
		return
	}
	var in services.ExpeditionUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.service.UpdateExpedition(c.Context(), id, expeditionID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusOK, "Expedition updated", row)
}

func (h *OrderController) RemoveExpedition(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	expeditionID, ok := c.ParamUint("expedition")
	if !ok {
		return
	}
	done(c, "Expedition deleted", h.service.RemoveExpedition(c.Context(), id, expeditionID))
}

func (h *OrderController) ClearExpeditions(c *ctx.Context) {
	id, ok := c.MustIdentity()
	if !ok {
		return
	}
	n, err := h.service.ClearExpeditions(c.Context(), id)
	clearedResponse(c, "Expeditions deleted", n, err)
}
