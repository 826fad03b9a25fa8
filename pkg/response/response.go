package response

import (
	"net/http"

	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is returned for requests rejected before any processing.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FailureResponse is returned when checkout processing fails downstream.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Message = message
	resp.Data = data

	return c.JSON(http.StatusOK, resp)
}

func WriteErrorResponse(c echo.Context, err error) error {
	return c.JSON(errs.GetErrorStatusCode(err), ErrorResponse{Error: err.Error()})
}

func WriteFailureResponse(c echo.Context, err error) error {
	return c.JSON(errs.GetErrorStatusCode(err), FailureResponse{Success: false, Error: err.Error()})
}

// WriteTextResponse answers server-to-server callers that expect a plain body.
func WriteTextResponse(c echo.Context, err error) error {
	if err == nil {
		return c.String(http.StatusOK, "OK")
	}

	statusCode := errs.GetErrorStatusCode(err)
	if statusCode == http.StatusInternalServerError {
		return c.String(statusCode, http.StatusText(statusCode))
	}

	return c.String(statusCode, err.Error())
}
