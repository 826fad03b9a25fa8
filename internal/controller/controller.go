package controller

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/service"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const defaultMultipartMemory = 32 << 20

type Controller struct {
	checkoutService     service.CheckoutService
	notificationService service.NotificationService
}

func CreateCheckoutController(g *echo.Group, checkoutService service.CheckoutService, notificationService service.NotificationService, checkoutMiddleware ...echo.MiddlewareFunc) {
	c := Controller{
		checkoutService:     checkoutService,
		notificationService: notificationService,
	}

	g.Any("/checkout", c.Checkout, checkoutMiddleware...)
	g.Any("/ipn", c.Notification)
}

func (c *Controller) Checkout(e echo.Context) error {
	if e.Request().Method != http.MethodPost {
		return response.WriteErrorResponse(e, errs.ErrMethodNotAllowed)
	}

	// The body is JSON whatever its Content-Type says.
	payload := dto.CheckoutRequest{}
	if err := e.Echo().JSONSerializer.Deserialize(e, &payload); err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Checkout").Msg("")
		return response.WriteErrorResponse(e, errs.ErrInvalidRequestData)
	}

	resp, err := c.checkoutService.Checkout(e.Request().Context(), payload)
	if err != nil {
		if errs.GetErrorStatusCode(err) == http.StatusBadRequest {
			return response.WriteErrorResponse(e, err)
		}
		return response.WriteFailureResponse(e, err)
	}

	return e.JSON(http.StatusOK, resp)
}

func (c *Controller) Notification(e echo.Context) error {
	if e.Request().Method != http.MethodPost {
		return response.WriteTextResponse(e, errs.ErrMethodNotAllowed)
	}

	fields, err := postFields(e.Request())
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Notification").Msg("")
		return response.WriteTextResponse(e, errs.ErrInvalidRequestData)
	}

	notification := domain.NotificationFromValues(fields)

	err = c.notificationService.HandleNotification(e.Request().Context(), notification)

	return response.WriteTextResponse(e, err)
}

// postFields reads urlencoded and multipart bodies. Query parameters never join the signed field set.
func postFields(req *http.Request) (url.Values, error) {
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := req.ParseMultipartForm(defaultMultipartMemory); err != nil {
			return nil, err
		}
		return req.PostForm, nil
	}

	if err := req.ParseForm(); err != nil {
		return nil, err
	}
	return req.PostForm, nil
}
