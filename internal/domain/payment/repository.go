package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uint64) (*Payment, error)
	// GetByIDForUpdate locks the payment row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Payment, error)
	List(ctx context.Context, customerID uint64, limit, offset int) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id uint64) error
	DeleteByCustomer(ctx context.Context, customerID uint64) error
}

// DetailRepository has no update path: details are written once by the
// allocation engine.
type DetailRepository interface {
	Create(ctx context.Context, d *Detail) error
	GetByID(ctx context.Context, id uint64) (*Detail, error)
	List(ctx context.Context, f DetailFilter, limit, offset int) ([]Detail, error)
	DeleteByPayment(ctx context.Context, paymentID uint64) error
	DeleteByLoan(ctx context.Context, loanID uint64) error
	DeleteByCustomer(ctx context.Context, customerID uint64) error
}

// DetailFilter narrows a detail listing; zero fields are ignored.
type DetailFilter struct {
	PaymentID uint64
	LoanID    uint64
}
