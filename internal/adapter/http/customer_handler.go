package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "loan-ledger/internal/domain/customer"
	"loan-ledger/internal/usecase/customer"
)

type CustomerHandler struct {
	uc  *customer.Usecase
	log *zap.Logger
}

func NewCustomerHandler(uc *customer.Usecase, log *zap.Logger) *CustomerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerHandler{uc: uc, log: log}
}

type createCustomerReq struct {
	ExternalID    string          `json:"external_id"    validate:"required,max=60"`
	Score         decimal.Decimal `json:"score"          validate:"decgte0,money2"`
	PreapprovedAt Timestamp       `json:"preapproved_at" validate:"required"`
}

type updateCustomerReq struct {
	Status        *domain.Status `json:"status"         validate:"omitempty,oneof=1 2"`
	PreapprovedAt *Timestamp     `json:"preapproved_at"`
}

// CreateCustomer accepts a single object or an array; an array is stored
// all-or-nothing.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var raw json.RawMessage
	if err := c.Bind(&raw); err != nil {
		return invalidBody(c)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return invalidBody(c)
	}

	if raw[0] != '[' {
		var req createCustomerReq
		if err := json.Unmarshal(raw, &req); err != nil {
			return invalidBody(c)
		}
		if err := c.Validate(&req); err != nil {
			return validationFailed(c, err)
		}
		out, err := h.uc.Create(c.Request().Context(), req.input())
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(http.StatusCreated, out)
	}

	var reqs []createCustomerReq
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return invalidBody(c)
	}
	in := make([]customer.CreateCustomerInput, len(reqs))
	var details []FieldError
	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			for _, fe := range ToFieldErrors(err) {
				fe.Field = "[" + strconv.Itoa(i) + "]." + fe.Field
				details = append(details, fe)
			}
		}
		in[i] = reqs[i].input()
	}
	if len(details) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Code: "validation_failed", Details: details})
	}
	out, err := h.uc.CreateMany(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (r createCustomerReq) input() customer.CreateCustomerInput {
	return customer.CreateCustomerInput{ExternalID: r.ExternalID, Score: r.Score, PreapprovedAt: r.PreapprovedAt.Time}
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	q, err := bindListQuery(c)
	if err != nil {
		return invalidQuery(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), q.Page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
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

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	var req updateCustomerReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), id, customer.UpdateCustomerInput{
		Status:        req.Status,
		PreapprovedAt: req.PreapprovedAt.ptr(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CustomerHandler) GetBalance(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidParam(c, "id")
	}
	out, err := h.uc.Balance(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
