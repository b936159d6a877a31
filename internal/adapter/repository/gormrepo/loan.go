package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	return translate(r.db.WithContext(ctx).Create(l).Error, loan.ErrNotFound, "loan external_id")
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loan.Loan, error) {
	var out loan.Loan
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, loan.ErrNotFound, "loan")
	}
	return &out, nil
}

func (r *LoanRepository) Save(ctx context.Context, l *loan.Loan) error {
	return translate(r.db.WithContext(ctx).Save(l).Error, loan.ErrNotFound, "loan external_id")
}

// UpdateDetails writes contract_version and taken_at only.
func (r *LoanRepository) UpdateDetails(ctx context.Context, l *loan.Loan) error {
	res := r.db.WithContext(ctx).Model(l).Select("contract_version", "taken_at").Updates(l)
	return translate(res.Error, loan.ErrNotFound, "loan")
}

func (r *LoanRepository) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.WithContext(ctx).Delete(&loan.Loan{}, id), loan.ErrNotFound)
}

func (r *LoanRepository) List(ctx context.Context, customerID uint64, limit, offset int) ([]loan.Loan, error) {
	var out []loan.Loan
	q := r.db.WithContext(ctx).Order("id ASC")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	err := page(q, limit, offset).Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListOpenByCustomer(ctx context.Context, customerID uint64) ([]loan.Loan, error) {
	var out []loan.Loan
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, loan.OpenStatuses).
		Order("maximum_payment_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) DeleteByCustomer(ctx context.Context, customerID uint64) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&loan.Loan{}).Error
}
