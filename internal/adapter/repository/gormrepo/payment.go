package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, payment.ErrNotFound, "payment external_id")
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint64) (*payment.Payment, error) {
	var out payment.Payment
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, payment.ErrNotFound, "payment")
	}
	return &out, nil
}

func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*payment.Payment, error) {
	var out payment.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id).Error
	if err != nil {
		return nil, translate(err, payment.ErrNotFound, "payment")
	}
	return &out, nil
}

func (r *PaymentRepository) List(ctx context.Context, customerID uint64, limit, offset int) ([]payment.Payment, error) {
	var out []payment.Payment
	q := r.db.WithContext(ctx).Order("id ASC")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	err := page(q, limit, offset).Find(&out).Error
	return out, err
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return translate(r.db.WithContext(ctx).Save(p).Error, payment.ErrNotFound, "payment external_id")
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.WithContext(ctx).Delete(&payment.Payment{}, id), payment.ErrNotFound)
}

func (r *PaymentRepository) DeleteByCustomer(ctx context.Context, customerID uint64) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&payment.Payment{}).Error
}

type DetailRepository struct{ db *gorm.DB }

func NewDetailRepository(db *gorm.DB) *DetailRepository { return &DetailRepository{db: db} }

func (r *DetailRepository) Create(ctx context.Context, d *payment.Detail) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DetailRepository) GetByID(ctx context.Context, id uint64) (*payment.Detail, error) {
	var out payment.Detail
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, payment.ErrDetailNotFound, "payment detail")
	}
	return &out, nil
}

func (r *DetailRepository) List(ctx context.Context, f payment.DetailFilter, limit, offset int) ([]payment.Detail, error) {
	var out []payment.Detail
	q := r.db.WithContext(ctx).Order("id ASC")
	if f.PaymentID != 0 {
		q = q.Where("payment_id = ?", f.PaymentID)
	}
	if f.LoanID != 0 {
		q = q.Where("loan_id = ?", f.LoanID)
	}
	err := page(q, limit, offset).Find(&out).Error
	return out, err
}

func (r *DetailRepository) DeleteByPayment(ctx context.Context, paymentID uint64) error {
	return r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Delete(&payment.Detail{}).Error
}

func (r *DetailRepository) DeleteByLoan(ctx context.Context, loanID uint64) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&payment.Detail{}).Error
}

// DeleteByCustomer removes details hanging off any of the customer's payments
// or loans.
func (r *DetailRepository) DeleteByCustomer(ctx context.Context, customerID uint64) error {
	db := r.db.WithContext(ctx)
	payments := db.Model(&payment.Payment{}).Select("id").Where("customer_id = ?", customerID)
	loans := db.Model(&loan.Loan{}).Select("id").Where("customer_id = ?", customerID)
	return db.Where("payment_id IN (?) OR loan_id IN (?)", payments, loans).Delete(&payment.Detail{}).Error
}
