package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpadp "loan-ledger/internal/adapter/http"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/testutil/sqlitedb"
	"loan-ledger/internal/usecase/access"
	usecasecustomer "loan-ledger/internal/usecase/customer"
	usecasepayment "loan-ledger/internal/usecase/payment"
)

const adminSecret = "bootstrap-secret"

type env struct {
	t        *testing.T
	e        *echo.Echo
	adminKey string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{AdminSecretKey: adminSecret, BcryptCost: bcrypt.MinCost, IdempTTLSecs: 60}
	ev := &env{t: t, e: New(cfg, sqlitedb.Open(t), rdb, nil)}

	rec := ev.do(http.MethodPost, "/register-admin", "", map[string]string{"username": "root", "password": "correct-horse"},
		map[string]string{httpadp.HeaderAdminSecret: adminSecret})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var k access.IssuedKey
	decode(t, rec, &k)
	ev.adminKey = k.APIKey
	return ev
}

func (ev *env) do(method, path, key string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	ev.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ev.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(echo.HeaderAuthorization, "Api-Key "+key)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)
	return rec
}

func (ev *env) admin(method, path string, body any) *httptest.ResponseRecorder {
	ev.t.Helper()
	return ev.do(method, path, ev.adminKey, body, nil)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er httpadp.ErrorResponse
	decode(t, rec, &er)
	return er.Code
}

func (ev *env) createCustomer(ext, score string) customer.Customer {
	ev.t.Helper()
	rec := ev.admin(http.MethodPost, "/api/customers", map[string]string{
		"external_id": ext, "score": score, "preapproved_at": "2024-01-01T00:00:00Z",
	})
	require.Equal(ev.t, http.StatusCreated, rec.Code, rec.Body.String())
	var c customer.Customer
	decode(ev.t, rec, &c)
	return c
}

func (ev *env) createLoan(customerID uint64, ext, amount, due string) *httptest.ResponseRecorder {
	ev.t.Helper()
	return ev.admin(http.MethodPost, "/api/loans", map[string]any{
		"external_id": ext, "customer_id": customerID, "amount": amount, "maximum_payment_date": due,
	})
}

func (ev *env) createPayment(customerID uint64, ext, total string, hdr map[string]string) *httptest.ResponseRecorder {
	ev.t.Helper()
	return ev.do(http.MethodPost, "/api/payments", ev.adminKey, map[string]any{
		"external_id": ext, "customer_id": customerID, "total_amount": total, "paid_at": "2024-02-01T10:00:00Z",
	}, hdr)
}

func (ev *env) getLoan(id uint64) loan.Loan {
	ev.t.Helper()
	rec := ev.admin(http.MethodGet, "/api/loans/"+strconv.FormatUint(id, 10), nil)
	require.Equal(ev.t, http.StatusOK, rec.Code)
	var l loan.Loan
	decode(ev.t, rec, &l)
	return l
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestHealth(t *testing.T) {
	ev := newEnv(t)
	rec := ev.do(http.MethodGet, "/health", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, rec, &body)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, map[string]string{"db": "ok", "redis": "ok"}, body.Checks)
}

func TestRegisterAdmin(t *testing.T) {
	ev := newEnv(t)

	rec := ev.do(http.MethodPost, "/register-admin", "", map[string]string{"username": "other", "password": "long-enough"},
		map[string]string{httpadp.HeaderAdminSecret: "wrong"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ev.do(http.MethodPost, "/register-admin", "", map[string]string{"username": "other", "password": "long-enough", "admin_secret": adminSecret}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ev.do(http.MethodPost, "/register-admin", "", map[string]string{"username": "x", "password": "short"},
		map[string]string{httpadp.HeaderAdminSecret: adminSecret})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthAndRoles(t *testing.T) {
	ev := newEnv(t)

	rec := ev.do(http.MethodGet, "/api/customers", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ev.admin(http.MethodPost, "/api/register-user", map[string]string{"username": "clerk", "password": "clerk-password"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var clerk access.IssuedKey
	decode(t, rec, &clerk)

	rec = ev.admin(http.MethodPost, "/api/register-user", map[string]string{"username": "clerk", "password": "clerk-password"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ev.do(http.MethodGet, "/api/customers", clerk.APIKey, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ev.do(http.MethodPost, "/api/customers", clerk.APIKey, map[string]string{
		"external_id": "c-1", "score": "100", "preapproved_at": "2024-01-01",
	}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ev.do(http.MethodPost, "/api/register-user", clerk.APIKey, map[string]string{"username": "x", "password": "x-password"}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ev.admin(http.MethodDelete, "/api/api-keys/"+clerk.Prefix, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ev.do(http.MethodGet, "/api/customers", clerk.APIKey, nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ev.admin(http.MethodDelete, "/api/api-keys/zzzzzzzz", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenarioA_BalanceWithoutLoans(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-a", "4000")

	rec := ev.admin(http.MethodGet, "/api/customers/"+strconv.FormatUint(c.ID, 10)+"/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var b usecasecustomer.BalanceDTO
	decode(t, rec, &b)
	require.Equal(t, "cust-a", b.ExternalID)
	requireDec(t, "0", b.TotalDebt)
	requireDec(t, "4000", b.AvailableAmount)
}

func TestScenarioB_CreditLimit(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-b", "4000")

	rec := ev.createLoan(c.ID, "loan-b", "5000", "2024-02-12")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "credit_limit_exceeded", errCode(t, rec))

	rec = ev.admin(http.MethodGet, "/api/loans?customer_id="+strconv.FormatUint(c.ID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loans []loan.Loan
	decode(t, rec, &loans)
	require.Empty(t, loans)

	rec = ev.createLoan(c.ID, "loan-b1", "4000", "2024-02-12")
	require.Equal(t, http.StatusCreated, rec.Code)
	var l loan.Loan
	decode(t, rec, &l)
	require.Equal(t, loan.StatusActive, l.Status)
	requireDec(t, "4000", l.Outstanding)

	rec = ev.createLoan(c.ID, "loan-b2", "0.01", "2024-02-12")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenariosCDE_PaymentWaterfall(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-c", "4000")

	rec := ev.createLoan(c.ID, "loan-c1", "1000", "2024-02-12")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var l1 loan.Loan
	decode(t, rec, &l1)
	rec = ev.createLoan(c.ID, "loan-c2", "500", "2024-03-12T00:00:00Z")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var l2 loan.Loan
	decode(t, rec, &l2)

	// D: over the debt
	rec = ev.createPayment(c.ID, "pay-d", "2000", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "payment_exceeds_debt", errCode(t, rec))
	requireDec(t, "1000", ev.getLoan(l1.ID).Outstanding)

	// C: exact payoff of both loans
	rec = ev.createPayment(c.ID, "pay-c", "1500", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt usecasepayment.Receipt
	decode(t, rec, &receipt)
	require.Equal(t, payment.StatusPending, receipt.Payment.Status)
	require.Len(t, receipt.Details, 2)
	require.Equal(t, l1.ID, receipt.Details[0].LoanID)
	requireDec(t, "1000", receipt.Details[0].Amount)
	require.Equal(t, l2.ID, receipt.Details[1].LoanID)
	requireDec(t, "500", receipt.Details[1].Amount)

	for _, id := range []uint64{l1.ID, l2.ID} {
		got := ev.getLoan(id)
		require.Equal(t, loan.StatusPaid, got.Status)
		requireDec(t, "0", got.Outstanding)
	}

	rec = ev.admin(http.MethodGet, "/api/payment-details?payment_id="+strconv.FormatUint(receipt.Payment.ID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details []payment.Detail
	decode(t, rec, &details)
	require.Len(t, details, 2)

	// E: confirm once
	confirm := "/api/payments/" + strconv.FormatUint(receipt.Payment.ID, 10) + "/confirm"
	rec = ev.admin(http.MethodPost, confirm, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p payment.Payment
	decode(t, rec, &p)
	require.Equal(t, payment.StatusCompleted, p.Status)

	rec = ev.admin(http.MethodPatch, confirm, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "not_pending", errCode(t, rec))
}

func TestPaymentOrdering_EarliestDueFirst(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-o", "4000")

	rec := ev.createLoan(c.ID, "later", "500", "2024-03-12")
	var later loan.Loan
	decode(t, rec, &later)
	rec = ev.createLoan(c.ID, "earlier", "1000", "2024-02-12")
	var earlier loan.Loan
	decode(t, rec, &earlier)

	rec = ev.createPayment(c.ID, "pay-o", "400", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt usecasepayment.Receipt
	decode(t, rec, &receipt)
	require.Len(t, receipt.Details, 1)
	require.Equal(t, earlier.ID, receipt.Details[0].LoanID)

	requireDec(t, "600", ev.getLoan(earlier.ID).Outstanding)
	requireDec(t, "500", ev.getLoan(later.ID).Outstanding)
}

func TestPaymentDetailsAreReadOnly(t *testing.T) {
	ev := newEnv(t)
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		for _, path := range []string{"/api/payment-details", "/api/payment-details/1"} {
			rec := ev.admin(m, path, map[string]string{"amount": "1"})
			require.Equalf(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", m, path)
			require.Equal(t, http.MethodGet, rec.Header().Get(echo.HeaderAllow))
		}
	}
	rec := ev.admin(http.MethodGet, "/api/payment-details/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCustomers_Batch(t *testing.T) {
	ev := newEnv(t)

	rec := ev.admin(http.MethodPost, "/api/customers", []map[string]string{
		{"external_id": "b-1", "score": "100", "preapproved_at": "2024-01-01"},
		{"external_id": "b-2", "score": "200.50", "preapproved_at": "2024-01-02"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created []customer.Customer
	decode(t, rec, &created)
	require.Len(t, created, 2)
	require.Equal(t, customer.StatusActive, created[1].Status)

	rec = ev.admin(http.MethodPost, "/api/customers", []map[string]string{
		{"external_id": "b-3", "score": "1", "preapproved_at": "2024-01-01"},
		{"external_id": "b-4", "score": "1.234", "preapproved_at": "2024-01-01"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var er httpadp.ErrorResponse
	decode(t, rec, &er)
	require.Equal(t, "[1].score", er.Details[0].Field)

	// duplicate inside the batch rolls back the whole batch
	rec = ev.admin(http.MethodPost, "/api/customers", []map[string]string{
		{"external_id": "b-5", "score": "1", "preapproved_at": "2024-01-01"},
		{"external_id": "b-1", "score": "1", "preapproved_at": "2024-01-01"},
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ev.admin(http.MethodGet, "/api/customers", nil)
	var all []customer.Customer
	decode(t, rec, &all)
	require.Len(t, all, 2)
}

func TestCustomerUpdateAndCascadeDelete(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-u", "1000")
	id := strconv.FormatUint(c.ID, 10)

	rec := ev.admin(http.MethodPatch, "/api/customers/"+id, map[string]any{"status": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got customer.Customer
	decode(t, rec, &got)
	require.Equal(t, customer.StatusInactive, got.Status)

	rec = ev.admin(http.MethodPatch, "/api/customers/"+id, map[string]any{"status": 7})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ev.createLoan(c.ID, "loan-u", "300", "2024-05-01")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ev.createPayment(c.ID, "pay-u", "100", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ev.admin(http.MethodDelete, "/api/customers/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ev.admin(http.MethodGet, "/api/customers/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = ev.admin(http.MethodGet, "/api/payment-details", nil)
	var details []payment.Detail
	decode(t, rec, &details)
	require.Empty(t, details)
}

func TestLoanAndPaymentUpdates(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-p", "1000")
	rec := ev.createLoan(c.ID, "loan-p", "300", "2024-05-01")
	var l loan.Loan
	decode(t, rec, &l)

	rec = ev.admin(http.MethodPatch, "/api/loans/"+strconv.FormatUint(l.ID, 10), map[string]any{"contract_version": "v2", "taken_at": "2024-01-15"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &l)
	require.Equal(t, "v2", *l.ContractVersion)
	require.True(t, l.TakenAt.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	rec = ev.createPayment(c.ID, "pay-p", "50", nil)
	var receipt usecasepayment.Receipt
	decode(t, rec, &receipt)
	pid := strconv.FormatUint(receipt.Payment.ID, 10)

	rec = ev.admin(http.MethodPatch, "/api/payments/"+pid, map[string]any{"paid_at": "2024-02-03T00:00:00Z"})
	require.Equal(t, http.StatusOK, rec.Code)
	var p payment.Payment
	decode(t, rec, &p)
	require.True(t, p.PaidAt.Equal(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)))

	rec = ev.admin(http.MethodDelete, "/api/payments/"+pid, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ev.admin(http.MethodGet, "/api/payments/"+pid, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	// balances stay as allocated
	requireDec(t, "250", ev.getLoan(l.ID).Outstanding)

	rec = ev.admin(http.MethodDelete, "/api/loans/"+strconv.FormatUint(l.ID, 10), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ev.admin(http.MethodGet, "/api/loans/"+strconv.FormatUint(l.ID, 10), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationAndBindErrors(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-v", "1000")

	rec := ev.createLoan(c.ID, "loan-v", "10.123", "2024-05-01")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ev.createLoan(c.ID, "loan-v", "10", "05/01/2024")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ev.createLoan(999, "loan-v", "10", "2024-05-01")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ev.createPayment(c.ID, "pay-v", "0", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ev.admin(http.MethodGet, "/api/loans/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ev.admin(http.MethodGet, "/api/loans?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ev.createLoan(c.ID, "loan-dup", "10", "2024-05-01")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ev.createLoan(c.ID, "loan-dup", "10", "2024-05-01")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotentPaymentReplay(t *testing.T) {
	ev := newEnv(t)
	c := ev.createCustomer("cust-i", "1000")
	rec := ev.createLoan(c.ID, "loan-i", "500", "2024-05-01")
	require.Equal(t, http.StatusCreated, rec.Code)

	hdr := map[string]string{
		"Idempotency-Key": "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88",
		"X-Request-At":    strconv.FormatInt(time.Now().Unix(), 10),
	}
	first := ev.createPayment(c.ID, "pay-i", "100", hdr)
	require.Equal(t, http.StatusCreated, first.Code)
	second := ev.createPayment(c.ID, "pay-i", "100", hdr)
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	require.JSONEq(t, first.Body.String(), second.Body.String())

	rec = ev.admin(http.MethodGet, "/api/payments?customer_id="+strconv.FormatUint(c.ID, 10), nil)
	var payments []payment.Payment
	decode(t, rec, &payments)
	require.Len(t, payments, 1)
}
