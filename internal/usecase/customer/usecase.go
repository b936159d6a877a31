package customer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/errs"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/money"
	"loan-ledger/internal/domain/uow"
	"loan-ledger/internal/usecase/paging"
)

type Usecase struct {
	customers domain.Repository
	loans     loan.Repository
	uow       uow.UnitOfWork
	log       *zap.Logger
}

func NewUsecase(customers domain.Repository, loans loan.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{customers: customers, loans: loans, uow: tx, log: log}
}

// Create registers one customer as Active.
func (u *Usecase) Create(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error) {
	out, err := u.CreateMany(ctx, []CreateCustomerInput{in})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// CreateMany registers all customers or none.
func (u *Usecase) CreateMany(ctx context.Context, in []CreateCustomerInput) ([]domain.Customer, error) {
	if len(in) == 0 {
		return nil, errs.Invalid("at least one customer is required")
	}
	out := make([]domain.Customer, len(in))
	for i, c := range in {
		if err := validateCreate(c); err != nil {
			return nil, err
		}
		out[i] = domain.Customer{
			ExternalID:    strings.TrimSpace(c.ExternalID),
			Status:        domain.StatusActive,
			Score:         c.Score,
			PreapprovedAt: c.PreapprovedAt.UTC(),
		}
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		for i := range out {
			if err := r.Customers.Create(ctx, &out[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("customers registered", zap.Int("count", len(out)))
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Customer, error) {
	return u.customers.GetByID(ctx, id)
}

func (u *Usecase) List(ctx context.Context, p paging.Page) ([]domain.Customer, error) {
	p = p.Normalize()
	return u.customers.List(ctx, p.Limit, p.Offset)
}

// Update touches status and preapproved_at only; score is immutable.
func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateCustomerInput) (*domain.Customer, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, errs.Invalid("status must be 1 (active) or 2 (inactive)")
	}
	var out *domain.Customer
	err := u.uow.WithinCustomerTx(ctx, id, func(r uow.Repos, c *domain.Customer) error {
		if in.Status != nil {
			c.Status = *in.Status
		}
		if in.PreapprovedAt != nil {
			c.PreapprovedAt = in.PreapprovedAt.UTC()
		}
		if err := r.Customers.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the customer with its loans, payments and their details.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	err := u.uow.WithinCustomerTx(ctx, id, func(r uow.Repos, c *domain.Customer) error {
		if err := r.Details.DeleteByCustomer(ctx, c.ID); err != nil {
			return err
		}
		if err := r.Payments.DeleteByCustomer(ctx, c.ID); err != nil {
			return err
		}
		if err := r.Loans.DeleteByCustomer(ctx, c.ID); err != nil {
			return err
		}
		return r.Customers.Delete(ctx, c.ID)
	})
	if err != nil {
		return err
	}
	u.log.Info("customer deleted", zap.Uint64("customer_id", id))
	return nil
}

// Balance reports score, open debt and remaining headroom.
func (u *Usecase) Balance(ctx context.Context, id uint64) (*BalanceDTO, error) {
	c, err := u.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	open, err := u.loans.ListOpenByCustomer(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{
		ExternalID:      c.ExternalID,
		Score:           c.Score,
		TotalDebt:       loan.TotalDebt(open),
		AvailableAmount: loan.Available(c.Score, open),
	}, nil
}

func validateCreate(in CreateCustomerInput) error {
	ext := strings.TrimSpace(in.ExternalID)
	if ext == "" {
		return errs.Invalid("external_id is required")
	}
	if len(ext) > 60 {
		return errs.Invalid("external_id must be at most 60 characters")
	}
	if in.PreapprovedAt.IsZero() {
		return errs.Invalid("preapproved_at is required")
	}
	return money.NonNegative("score", in.Score)
}
