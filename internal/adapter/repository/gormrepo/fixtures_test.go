package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/testutil/sqlitedb"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openTestDB(t *testing.T) *gorm.DB { return sqlitedb.Open(t) }

func seedCustomer(t *testing.T, db *gorm.DB, ext, score string) *customer.Customer {
	t.Helper()
	c := &customer.Customer{ExternalID: ext, Status: customer.StatusActive, Score: d(score), PreapprovedAt: day0}
	if err := NewCustomerRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func seedLoan(t *testing.T, db *gorm.DB, c *customer.Customer, ext, amount string, due time.Time) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		ExternalID:         ext,
		CustomerID:         c.ID,
		Amount:             d(amount),
		Outstanding:        d(amount),
		Status:             loan.StatusActive,
		MaximumPaymentDate: due,
	}
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

func seedPayment(t *testing.T, db *gorm.DB, c *customer.Customer, ext, total string) *payment.Payment {
	t.Helper()
	p := &payment.Payment{ExternalID: ext, CustomerID: c.ID, TotalAmount: d(total), Status: payment.StatusPending, PaidAt: day0}
	if err := NewPaymentRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func seedDetail(t *testing.T, db *gorm.DB, p *payment.Payment, l *loan.Loan, amount string) *payment.Detail {
	t.Helper()
	det := &payment.Detail{PaymentID: p.ID, LoanID: l.ID, Amount: d(amount)}
	if err := NewDetailRepository(db).Create(context.Background(), det); err != nil {
		t.Fatalf("seed detail: %v", err)
	}
	return det
}
