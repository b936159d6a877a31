package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds every repository to tx.
func Repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Customers: &CustomerRepository{db: tx},
		Loans:     &LoanRepository{db: tx},
		Payments:  &PaymentRepository{db: tx},
		Details:   &DetailRepository{db: tx},
		Users:     &UserRepository{db: tx},
		APIKeys:   &KeyRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinCustomerTx(ctx context.Context, customerID uint64, fn func(r uow.Repos, c *customer.Customer) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the customer row up-front; serializes guard check and mutation
		c, err := r.Customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}

func (u *GormUoW) WithinPaymentTx(ctx context.Context, paymentID uint64, fn func(r uow.Repos, p *payment.Payment) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		p, err := r.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
