package uow

import (
	"context"

	"loan-ledger/internal/domain/access"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

// Repos are bound to one transaction.
type Repos struct {
	Customers customer.Repository
	Loans     loan.Repository
	Payments  payment.Repository
	Details   payment.DetailRepository
	Users     access.UserRepository
	APIKeys   access.KeyRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// locks the customer row first, then passes it in; every loan or payment
	// mutation for that customer goes through here
	WithinCustomerTx(ctx context.Context, customerID uint64, fn func(r Repos, c *customer.Customer) error) error
	// locks the payment row first
	WithinPaymentTx(ctx context.Context, paymentID uint64, fn func(r Repos, p *payment.Payment) error) error
}
