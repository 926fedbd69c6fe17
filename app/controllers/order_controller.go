package controllers

import (
	"github.com/shashiranjanraj/pizzeria/app/services"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create handles POST /api/orders with a JSON array of orders.
func (c *OrderController) Create(cx *ctx.Context) {
	caller, ok := cx.Identity()
	if !ok {
		cx.Fail(apperror.Unauthorized("Full authentication is required to access this resource"))
		return
	}

	var reqs []services.OrderRequest
	if !cx.BindJSON(&reqs) {
		return
	}

	out, err := c.service.CreateOrder(cx.Context(), caller, reqs)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Created(out)
}

// List handles GET /api/orders?page=&size=&sortBy=.
func (c *OrderController) List(cx *ctx.Context) {
	page, err := cx.QueryInt("page", 0)
	if err != nil {
		cx.Fail(err)
		return
	}
	size, err := cx.QueryInt("size", services.DefaultPageSize)
	if err != nil {
		cx.Fail(err)
		return
	}

	out, err := c.service.ListAllOrders(cx.Context(), page, size, cx.DefaultQuery("sortBy", services.DefaultSortBy))
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.OK(out)
}

// ListOfUser handles GET /api/orders/user?userId=.
func (c *OrderController) ListOfUser(cx *ctx.Context) {
	userID, err := cx.QueryID("userId")
	if err != nil {
		cx.Fail(err)
		return
	}

	out, err := c.service.ListOrdersOfUser(cx.Context(), userID)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.OK(out)
}

// Cancel handles PATCH /api/orders/{orderId}.
func (c *OrderController) Cancel(cx *ctx.Context) {
	id, err := cx.ParamID("orderId")
	if err != nil {
		cx.Fail(err)
		return
	}
	if err := c.service.CancelOrder(cx.Context(), id); err != nil {
		cx.Fail(err)
		return
	}
	cx.NoContent()
}

// Delete handles DELETE /api/orders/{orderId}.
func (c *OrderController) Delete(cx *ctx.Context) {
	id, err := cx.ParamID("orderId")
	if err != nil {
		cx.Fail(err)
		return
	}
	if err := c.service.DeleteOrder(cx.Context(), id); err != nil {
		cx.Fail(err)
		return
	}
	cx.NoContent()
}
