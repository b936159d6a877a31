package loan

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/errs"
	domain "loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/money"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/paging"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, uow: tx, log: log}
}

// Create runs the credit limit guard and opens the loan in one transaction
// holding the customer row lock.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*domain.Loan, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	var out *domain.Loan

	err := u.uow.WithinCustomerTx(ctx, in.CustomerID, func(r uow.Repos, c *customer.Customer) error {
		open, err := r.Loans.ListOpenByCustomer(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := domain.ValidateLoan(c.Score, open, in.Amount); err != nil {
			u.log.Warn("loan rejected",
				zap.Uint64("customer_id", c.ID),
				zap.String("amount", in.Amount.String()),
				zap.String("total_debt", domain.TotalDebt(open).String()),
				zap.String("score", c.Score.String()),
			)
			return err
		}

		l := &domain.Loan{
			ExternalID:         strings.TrimSpace(in.ExternalID),
			CustomerID:         c.ID,
			Amount:             in.Amount,
			Outstanding:        in.Amount,
			Status:             domain.StatusActive,
			ContractVersion:    in.ContractVersion,
			MaximumPaymentDate: in.MaximumPaymentDate.UTC(),
			TakenAt:            utcPtr(in.TakenAt),
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan created", zap.Uint64("loan_id", out.ID), zap.Uint64("customer_id", out.CustomerID))
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Loan, error) {
	return u.repo.GetByID(ctx, id)
}

// List returns loans by id; customerID 0 lists every customer.
func (u *Usecase) List(ctx context.Context, customerID uint64, p paging.Page) ([]domain.Loan, error) {
	p = p.Normalize()
	return u.repo.List(ctx, customerID, p.Limit, p.Offset)
}

// Update rewrites contract_version and taken_at under the customer row lock,
// so it serializes with payment allocation and never touches the balance.
func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateLoanInput) (*domain.Loan, error) {
	if in.ContractVersion != nil && len(*in.ContractVersion) > 30 {
		return nil, errs.Invalid("contract_version must be at most 30 characters")
	}
	owner, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var out *domain.Loan
	err = u.uow.WithinCustomerTx(ctx, owner.CustomerID, func(r uow.Repos, _ *customer.Customer) error {
		l, err := r.Loans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.ContractVersion != nil {
			l.ContractVersion = in.ContractVersion
		}
		if in.TakenAt != nil {
			l.TakenAt = utcPtr(in.TakenAt)
		}
		if err := r.Loans.UpdateDetails(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the loan and the payment details that reference it under
// the customer row lock.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	owner, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return u.uow.WithinCustomerTx(ctx, owner.CustomerID, func(r uow.Repos, _ *customer.Customer) error {
		if _, err := r.Loans.GetByID(ctx, id); err != nil {
			return err
		}
		if err := r.Details.DeleteByLoan(ctx, id); err != nil {
			return err
		}
		return r.Loans.Delete(ctx, id)
	})
}

func validateCreate(in CreateLoanInput) error {
	ext := strings.TrimSpace(in.ExternalID)
	switch {
	case ext == "":
		return errs.Invalid("external_id is required")
	case len(ext) > 60:
		return errs.Invalid("external_id must be at most 60 characters")
	case in.CustomerID == 0:
		return errs.Invalid("customer_id is required")
	case in.MaximumPaymentDate.IsZero():
		return errs.Invalid("maximum_payment_date is required")
	case in.ContractVersion != nil && len(*in.ContractVersion) > 30:
		return errs.Invalid("contract_version must be at most 30 characters")
	}
	return money.Positive("amount", in.Amount)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
