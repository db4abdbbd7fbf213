package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stripe-integration-demo/internal/dto"
	"stripe-integration-demo/internal/payments"
	"stripe-integration-demo/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	publishableKey  string
}

func NewCheckoutHandler(checkoutService service.CheckoutService, publishableKey string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		publishableKey:  publishableKey,
	}
}

// httpError translates payments error kinds to HTTP statuses. Provider
// credential and transport failures are the server's problem, not the
// caller's, so they map to 502.
func httpError(err error) error {
	var perr *payments.Error
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Kind {
	case payments.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, perr.Message)
	case payments.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, perr.Message)
	default:
		return echo.NewHTTPError(http.StatusBadGateway, perr.Message)
	}
}

// WidgetConfig hands the publishable key to the checkout page. The secret
// key never leaves the server.
func (h *CheckoutHandler) WidgetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, &dto.WidgetConfig{
		PublishableKey: h.publishableKey,
	})
}

func (h *CheckoutHandler) CreateCatalogItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCatalogItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	item, err := h.checkoutService.CreateCatalogItem(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *CheckoutHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.checkoutService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CheckoutHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.checkoutService.UpdateProduct(ctx, c.Param("id"), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, product)
}

// ListProducts returns one page; pass the previous response's next_cursor as
// ?starting_after= to continue.
func (h *CheckoutHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	limit := int64(10)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	page, err := h.checkoutService.ListProducts(ctx, limit, c.QueryParam("starting_after"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, page)
}

func (h *CheckoutHandler) FullCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.checkoutService.FullCatalog(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CheckoutHandler) PriceByLookupKey(c echo.Context) error {
	ctx := c.Request().Context()

	lookupKey := c.QueryParam("lookup_key")
	if lookupKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing lookup_key")
	}

	price, err := h.checkoutService.PriceByLookupKey(ctx, lookupKey)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, price)
}

func (h *CheckoutHandler) SeedCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SeedCatalogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	items, err := h.checkoutService.SeedCatalog(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, items)
}

func (h *CheckoutHandler) ComposePaymentLink(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ComposePaymentLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	link, err := h.checkoutService.ComposePaymentLink(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, link)
}

func (h *CheckoutHandler) GetPaymentLink(c echo.Context) error {
	ctx := c.Request().Context()

	link, err := h.checkoutService.GetPaymentLink(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, link)
}

func (h *CheckoutHandler) BeginCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BeginCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkoutService.BeginCheckout(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *CheckoutHandler) PaymentIntentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.checkoutService.PaymentIntentStatus(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, status)
}
