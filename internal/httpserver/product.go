package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	return respond(c, h.Svc.ListProducts(c.Request().Context()))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuidParam(c, l, "get_product_failed", "id")
	if err != nil {
		return err
	}
	return respond(c, h.Svc.GetProduct(ctx, id))
}

// SearchProducts serves ?q=&page=&size=.
func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	page, size := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))
	return respond(c, h.Svc.SearchProducts(c.Request().Context(), c.QueryParam("q"), page, size))
}
