package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"loan-ledger/internal/usecase/loan"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *zap.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *zap.Logger) *LoanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanHandler{uc: uc, log: log}
}

type createLoanReq struct {
	ExternalID         string          `json:"external_id"          validate:"required,max=60"`
	CustomerID         uint64          `json:"customer_id"          validate:"required"`
	Amount             decimal.Decimal `json:"amount"               validate:"decgt0,money2"`
	ContractVersion    *string         `json:"contract_version"     validate:"omitempty,max=30"`
	MaximumPaymentDate Timestamp       `json:"maximum_payment_date" validate:"required"`
	TakenAt            *Timestamp      `json:"taken_at"`
}

type updateLoanReq struct {
	ContractVersion *string    `json:"contract_version" validate:"omitempty,max=30"`
	TakenAt         *Timestamp `json:"taken_at"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		ExternalID:         req.ExternalID,
		CustomerID:         req.CustomerID,
		Amount:             req.Amount,
		ContractVersion:    req.ContractVersion,
		MaximumPaymentDate: req.MaximumPaymentDate.Time,
		TakenAt:            req.TakenAt.ptr(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	q, err := bindListQuery(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), q.CustomerID, q.Page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), id, loan.UpdateLoanInput{
		ContractVersion: req.ContractVersion,
		TakenAt:         req.TakenAt.ptr(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
