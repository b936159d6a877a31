package payment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/errs"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/money"
	domain "loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/paging"
)

type Usecase struct {
	payments domain.Repository
	details  domain.DetailRepository
	uow      uow.UnitOfWork
	log      *zap.Logger
}

func NewUsecase(payments domain.Repository, details domain.DetailRepository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{payments: payments, details: details, uow: tx, log: log}
}

// Create records a Pending payment and waterfalls it over the customer's open
// loans, earliest maximum_payment_date first. Payment, loan updates and
// details commit together or not at all.
func (u *Usecase) Create(ctx context.Context, in CreatePaymentInput) (*Receipt, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	var out *Receipt

	err := u.uow.WithinCustomerTx(ctx, in.CustomerID, func(r uow.Repos, c *customer.Customer) error {
		open, err := r.Loans.ListOpenByCustomer(ctx, c.ID)
		if err != nil {
			return err
		}
		plan, err := domain.Allocate(in.TotalAmount, open)
		if err != nil {
			u.log.Warn("payment rejected",
				zap.Uint64("customer_id", c.ID),
				zap.String("total_amount", in.TotalAmount.String()),
				zap.String("total_debt", loan.TotalDebt(open).String()),
			)
			return err
		}

		p := &domain.Payment{
			ExternalID:  strings.TrimSpace(in.ExternalID),
			CustomerID:  c.ID,
			TotalAmount: in.TotalAmount,
			Status:      domain.StatusPending,
			PaidAt:      in.PaidAt.UTC(),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		details := make([]domain.Detail, 0, len(plan))
		for _, a := range plan {
			l := &open[a.Index]
			a.Apply(l)
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			det := domain.Detail{PaymentID: p.ID, LoanID: l.ID, Amount: a.Amount}
			if err := r.Details.Create(ctx, &det); err != nil {
				return err
			}
			details = append(details, det)
		}
		out = &Receipt{Payment: *p, Details: details}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("payment allocated",
		zap.Uint64("payment_id", out.Payment.ID),
		zap.Uint64("customer_id", out.Payment.CustomerID),
		zap.String("total_amount", out.Payment.TotalAmount.String()),
		zap.Int("loans", len(out.Details)),
	)
	return out, nil
}

// Confirm moves a Pending payment to Completed under the payment row lock.
func (u *Usecase) Confirm(ctx context.Context, id uint64) (*domain.Payment, error) {
	var out *domain.Payment
	err := u.uow.WithinPaymentTx(ctx, id, func(r uow.Repos, p *domain.Payment) error {
		if err := p.Confirm(); err != nil {
			return err
		}
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("payment confirmed", zap.Uint64("payment_id", out.ID))
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Payment, error) {
	return u.payments.GetByID(ctx, id)
}

func (u *Usecase) List(ctx context.Context, customerID uint64, p paging.Page) ([]domain.Payment, error) {
	p = p.Normalize()
	return u.payments.List(ctx, customerID, p.Limit, p.Offset)
}

// Update may only move paid_at.
func (u *Usecase) Update(ctx context.Context, id uint64, in UpdatePaymentInput) (*domain.Payment, error) {
	var out *domain.Payment
	err := u.uow.WithinPaymentTx(ctx, id, func(r uow.Repos, p *domain.Payment) error {
		if in.PaidAt != nil {
			p.PaidAt = in.PaidAt.UTC()
		}
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the payment record and its details. Loan balances are left
// as allocated.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	return u.uow.WithinPaymentTx(ctx, id, func(r uow.Repos, p *domain.Payment) error {
		if err := r.Details.DeleteByPayment(ctx, p.ID); err != nil {
			return err
		}
		return r.Payments.Delete(ctx, p.ID)
	})
}

func (u *Usecase) GetDetail(ctx context.Context, id uint64) (*domain.Detail, error) {
	return u.details.GetByID(ctx, id)
}

func (u *Usecase) ListDetails(ctx context.Context, f domain.DetailFilter, p paging.Page) ([]domain.Detail, error) {
	p = p.Normalize()
	return u.details.List(ctx, f, p.Limit, p.Offset)
}

func validateCreate(in CreatePaymentInput) error {
	ext := strings.TrimSpace(in.ExternalID)
	switch {
	case ext == "":
		return errs.Invalid("external_id is required")
	case len(ext) > 60:
		return errs.Invalid("external_id must be at most 60 characters")
	case in.CustomerID == 0:
		return errs.Invalid("customer_id is required")
	case in.PaidAt.IsZero():
		return errs.Invalid("paid_at is required")
	}
	return money.Positive("total_amount", in.TotalAmount)
}
