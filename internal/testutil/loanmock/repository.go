package loanmock

import (
	"context"

	domain "loan-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to success, reads default to context.Canceled.
type Repo struct {
	CreateFn             func(ctx context.Context, l *domain.Loan) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.Loan, error)
	SaveFn               func(ctx context.Context, l *domain.Loan) error
	UpdateDetailsFn      func(ctx context.Context, l *domain.Loan) error
	DeleteFn             func(ctx context.Context, id uint64) error
	ListFn               func(ctx context.Context, customerID uint64, limit, offset int) ([]domain.Loan, error)
	ListOpenByCustomerFn func(ctx context.Context, customerID uint64) ([]domain.Loan, error)
	DeleteByCustomerFn   func(ctx context.Context, customerID uint64) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) UpdateDetails(ctx context.Context, l *domain.Loan) error {
	if m.UpdateDetailsFn != nil {
		return m.UpdateDetailsFn(ctx, l)
	}
	return nil
}
func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *Repo) List(ctx context.Context, customerID uint64, limit, offset int) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, customerID, limit, offset)
	}
	return nil, context.Canceled
}
func (m *Repo) ListOpenByCustomer(ctx context.Context, customerID uint64) ([]domain.Loan, error) {
	if m.ListOpenByCustomerFn != nil {
		return m.ListOpenByCustomerFn(ctx, customerID)
	}
	return nil, context.Canceled
}
func (m *Repo) DeleteByCustomer(ctx context.Context, customerID uint64) error {
	if m.DeleteByCustomerFn != nil {
		return m.DeleteByCustomerFn(ctx, customerID)
	}
	return nil
}
