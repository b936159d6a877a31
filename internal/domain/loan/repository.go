package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// UpdateDetails writes only the descriptive columns of l.
	UpdateDetails(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, id uint64) error
	// List returns loans ordered by id; customerID 0 means all customers.
	List(ctx context.Context, customerID uint64, limit, offset int) ([]Loan, error)
	// ListOpenByCustomer returns Pending/Active loans ordered by
	// maximum_payment_date ASC, id ASC.
	ListOpenByCustomer(ctx context.Context, customerID uint64) ([]Loan, error)
	DeleteByCustomer(ctx context.Context, customerID uint64) error
}
