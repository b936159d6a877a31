package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-ledger/internal/usecase/paging"
)

type listQuery struct {
	Page       paging.Page
	CustomerID uint64
	PaymentID  uint64
	LoanID     uint64
}

func bindListQuery(c echo.Context) (listQuery, error) {
	var q listQuery
	err := echo.QueryParamsBinder(c).
		Int("limit", &q.Page.Limit).
		Int("offset", &q.Page.Offset).
		Uint64("customer_id", &q.CustomerID).
		Uint64("payment_id", &q.PaymentID).
		Uint64("loan_id", &q.LoanID).
		BindError()
	return q, err
}

func invalidQuery(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "bad_request"})
}
