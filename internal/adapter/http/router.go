package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"loan-ledger/internal/adapter/middleware"
	"loan-ledger/internal/usecase/access"
	"loan-ledger/internal/usecase/customer"
	"loan-ledger/internal/usecase/loan"
	"loan-ledger/internal/usecase/payment"
)

type Deps struct {
	Customers *customer.Usecase
	Loans     *loan.Usecase
	Payments  *payment.Usecase
	Access    *access.Usecase

	Redis    *redis.Client
	IdempTTL time.Duration
	Checks   []Check
	Log      *zap.Logger
}

// NewRouter wires every route onto a fresh echo instance.
func NewRouter(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	h := NewHandler(d.Checks...)
	ah := NewAccessHandler(d.Access, log)
	ch := NewCustomerHandler(d.Customers, log)
	lh := NewLoanHandler(d.Loans, log)
	ph := NewPaymentHandler(d.Payments, log)

	e.GET("/health", h.Health)
	e.POST("/register-admin", ah.RegisterAdmin)

	api := e.Group("/api", middleware.APIKeyAuth(d.Access, log))
	if d.Redis != nil {
		api.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Redis: d.Redis,
			TTL:   d.IdempTTL,
			Scope: middleware.PrincipalScope,
			Log:   log,
		}))
	}
	admin := middleware.RequireAdmin()

	api.POST("/register-user", ah.RegisterUser, admin)
	api.DELETE("/api-keys/:prefix", ah.RevokeKey, admin)

	api.POST("/customers", ch.CreateCustomer, admin)
	api.GET("/customers", ch.ListCustomers)
	api.GET("/customers/:id", ch.GetCustomer)
	api.PATCH("/customers/:id", ch.UpdateCustomer, admin)
	api.DELETE("/customers/:id", ch.DeleteCustomer, admin)
	api.GET("/customers/:id/balance", ch.GetBalance)

	api.POST("/loans", lh.CreateLoan)
	api.GET("/loans", lh.ListLoans)
	api.GET("/loans/:id", lh.GetLoan)
	api.PATCH("/loans/:id", lh.UpdateLoan)
	api.DELETE("/loans/:id", lh.DeleteLoan)

	api.POST("/payments", ph.CreatePayment)
	api.GET("/payments", ph.ListPayments)
	api.GET("/payments/:id", ph.GetPayment)
	api.PATCH("/payments/:id", ph.UpdatePayment)
	api.DELETE("/payments/:id", ph.DeletePayment)
	api.POST("/payments/:id/confirm", ph.ConfirmPayment)
	api.PATCH("/payments/:id/confirm", ph.ConfirmPayment)

	api.GET("/payment-details", ph.ListDetails)
	api.GET("/payment-details/:id", ph.GetDetail)
	for _, path := range []string{"/payment-details", "/payment-details/:id"} {
		api.POST(path, MethodNotAllowed)
		api.PUT(path, MethodNotAllowed)
		api.PATCH(path, MethodNotAllowed)
		api.DELETE(path, MethodNotAllowed)
	}

	return e
}
