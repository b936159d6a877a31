package uowmock

import (
	"context"
	"errors"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinCustomerTxFn func(ctx context.Context, customerID uint64, fn func(r uow.Repos, c *customer.Customer) error) error
	WithinPaymentTxFn  func(ctx context.Context, paymentID uint64, fn func(r uow.Repos, p *payment.Payment) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinCustomerTx(fn func(context.Context, uint64, func(uow.Repos, *customer.Customer) error) error) *UoW {
	m.WithinCustomerTxFn = fn
	return m
}
func (m *UoW) WithWithinPaymentTx(fn func(context.Context, uint64, func(uow.Repos, *payment.Payment) error) error) *UoW {
	m.WithinPaymentTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Locking returns a UoW that hands repos and the given locked rows straight
// to the callback.
func Locking(repos uow.Repos, c *customer.Customer, p *payment.Payment) *UoW {
	return New().
		WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) }).
		WithWithinCustomerTx(func(_ context.Context, _ uint64, fn func(uow.Repos, *customer.Customer) error) error {
			return fn(repos, c)
		}).
		WithWithinPaymentTx(func(_ context.Context, _ uint64, fn func(uow.Repos, *payment.Payment) error) error {
			return fn(repos, p)
		})
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinCustomerTx(ctx context.Context, customerID uint64, fn func(r uow.Repos, c *customer.Customer) error) error {
	if m.WithinCustomerTxFn != nil {
		return m.WithinCustomerTxFn(ctx, customerID, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPaymentTx(ctx context.Context, paymentID uint64, fn func(r uow.Repos, p *payment.Payment) error) error {
	if m.WithinPaymentTxFn != nil {
		return m.WithinPaymentTxFn(ctx, paymentID, fn)
	}
	return errUnimplemented
}
