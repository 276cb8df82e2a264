package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := currentUser(c, l, "checkout_error")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.Checkout(ctx, userID))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := currentUser(c, l, "list_orders_error")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.ListOrders(ctx, userID))
}
