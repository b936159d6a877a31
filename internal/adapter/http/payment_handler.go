package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "loan-ledger/internal/domain/payment"
	"loan-ledger/internal/usecase/payment"
)

type PaymentHandler struct {
	uc  *payment.Usecase
	log *zap.Logger
}

func NewPaymentHandler(uc *payment.Usecase, log *zap.Logger) *PaymentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentHandler{uc: uc, log: log}
}

type createPaymentReq struct {
	ExternalID  string          `json:"external_id"  validate:"required,max=60"`
	CustomerID  uint64          `json:"customer_id"  validate:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"decgt0,money2"`
	PaidAt      Timestamp       `json:"paid_at"      validate:"required"`
}

type updatePaymentReq struct {
	PaidAt *Timestamp `json:"paid_at"`
}

// CreatePayment returns 201 with the Pending payment and its per-loan details.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), payment.CreatePaymentInput{
		ExternalID:  req.ExternalID,
		CustomerID:  req.CustomerID,
		TotalAmount: req.TotalAmount,
		PaidAt:      req.PaidAt.Time,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	out, err := h.uc.Confirm(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
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

func (h *PaymentHandler) GetPayment(c echo.Context) error {
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

func (h *PaymentHandler) UpdatePayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Request().Context(), id, payment.UpdatePaymentInput{PaidAt: req.PaidAt.ptr()})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Payment details are written only by allocation; the API exposes reads.

func (h *PaymentHandler) ListDetails(c echo.Context) error {
	q, err := bindListQuery(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	f := domain.DetailFilter{PaymentID: q.PaymentID, LoanID: q.LoanID}
	out, err := h.uc.ListDetails(c.Request().Context(), f, q.Page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) GetDetail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	out, err := h.uc.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
