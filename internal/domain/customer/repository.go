package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uint64) (*Customer, error)
	// GetByIDForUpdate locks the customer row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Customer, error)
	List(ctx context.Context, limit, offset int) ([]Customer, error)
	Save(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uint64) error
}
