package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loan-ledger/internal/domain/customer"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, customer.ErrNotFound, "customer external_id")
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uint64) (*customer.Customer, error) {
	var out customer.Customer
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, customer.ErrNotFound, "customer")
	}
	return &out, nil
}

func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*customer.Customer, error) {
	var out customer.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id).Error
	if err != nil {
		return nil, translate(err, customer.ErrNotFound, "customer")
	}
	return &out, nil
}

func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]customer.Customer, error) {
	var out []customer.Customer
	err := page(r.db.WithContext(ctx).Order("id ASC"), limit, offset).Find(&out).Error
	return out, err
}

func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, customer.ErrNotFound, "customer external_id")
}

func (r *CustomerRepository) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.WithContext(ctx).Delete(&customer.Customer{}, id), customer.ErrNotFound)
}
