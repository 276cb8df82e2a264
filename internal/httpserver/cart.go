package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func currentUser(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	userID, ok := auth.UserID(c)
	if !ok {
		l.Warn(event, "status", 401, "reason", "no user in context")
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return userID, nil
}

func uuidParam(c echo.Context, l *slog.Logger, event, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		l.Warn(event, "status", 400, "reason", name+" is not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a uuid")
	}
	return id, nil
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create")

	userID, err := currentUser(c, l, "create_cart_error")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.CreateCart(ctx, userID))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := currentUser(c, l, "get_cart_error")
	if err != nil {
		return err
	}
	cartID, err := uuidParam(c, l, "get_cart_error", "cartId")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.GetCartView(ctx, cartID, userID))
}

func (h *CartHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_product")

	userID, err := currentUser(c, l, "add_to_cart_error")
	if err != nil {
		return err
	}
	cartID, err := uuidParam(c, l, "add_to_cart_error", "cartId")
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, l, "add_to_cart_error", "productId")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.AddProduct(ctx, userID, cartID, productID))
}

func (h *CartHTTP) RemoveProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_product")

	userID, err := currentUser(c, l, "remove_from_cart_error")
	if err != nil {
		return err
	}
	cartID, err := uuidParam(c, l, "remove_from_cart_error", "cartId")
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, l, "remove_from_cart_error", "productId")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.RemoveProduct(ctx, userID, cartID, productID))
}
