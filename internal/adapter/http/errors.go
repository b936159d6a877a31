package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loan-ledger/internal/domain/access"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/errs"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

// Map domain errors → HTTP codes
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, loan.ErrCreditLimitExceeded):
		return http.StatusBadRequest, "credit_limit_exceeded"
	case errors.Is(err, payment.ErrExceedsDebt):
		return http.StatusBadRequest, "payment_exceeds_debt"
	case errors.Is(err, payment.ErrNotPending):
		return http.StatusConflict, "not_pending"
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, customer.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, payment.ErrDetailNotFound),
		errors.Is(err, access.ErrKeyNotFound),
		errors.Is(err, access.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, access.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, access.ErrForbidden), errors.Is(err, access.ErrInvalidSecret):
		return http.StatusForbidden, "forbidden"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(c echo.Context, log *zap.Logger, err error) error {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err),
		)
		return c.JSON(status, ErrorResponse{Error: "internal error", Code: code})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "bad_request"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "validation_failed",
		Details: ToFieldErrors(err),
	})
}

// MethodNotAllowed answers mutation attempts on read-only resources.
func MethodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, http.MethodGet)
	return c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed", Code: "method_not_allowed"})
}

// ErrorHandler renders router and middleware errors in the ErrorResponse shape.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			_ = writeError(c, log, err)
			return
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		if he.Code >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("route", c.Path()), zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: msg})
	}
}

// pathID reads a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func invalidParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name, Code: "bad_request"})
}
