// service/payment/payment_service_test.go
package paymentsvc_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"
	paymentsvc "github.com/JunaidUthman/Rentale-Agreement-Microservice/service/payment"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type repoMock struct {
	insertFn     func(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error)
	byIDFn       func(ctx context.Context, paymentID int64) (*model.Payment, error)
	byContractFn func(ctx context.Context, contractID int64) ([]model.Payment, error)
}

func (m *repoMock) Insert(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error) {
	return m.insertFn(ctx, contractID, txHash, amount)
}
func (m *repoMock) ByID(ctx context.Context, paymentID int64) (*model.Payment, error) {
	return m.byIDFn(ctx, paymentID)
}
func (m *repoMock) ByContract(ctx context.Context, contractID int64) ([]model.Payment, error) {
	return m.byContractFn(ctx, contractID)
}

type contractMock struct {
	byIDFn func(ctx context.Context, contractID int64) (*model.RentalContract, error)
}

func (m *contractMock) ByID(ctx context.Context, contractID int64) (*model.RentalContract, error) {
	if m.byIDFn == nil {
		return &model.RentalContract{ID: contractID, OwnerID: 2, TenantID: 7}, nil
	}
	return m.byIDFn(ctx, contractID)
}

func TestRecord_Success(t *testing.T) {
	m := &repoMock{
		insertFn: func(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error) {
			if contractID != 42 || txHash != "0xabc" || amount != 600 {
				t.Fatalf("unexpected args: %d %s %f", contractID, txHash, amount)
			}
			return &model.Payment{ID: 1, ContractID: contractID, TxHash: txHash, Amount: amount, CreatedAt: time.Now()}, nil
		},
	}
	s := paymentsvc.New(m, &contractMock{})

	p, err := s.Record(context.Background(), 42, "0xabc", 600)
	if err != nil || p.ID != 1 {
		t.Fatalf("got %v %v; want payment 1, nil", p, err)
	}
}

func TestRecord_ContractNotFound(t *testing.T) {
	cm := &contractMock{
		byIDFn: func(ctx context.Context, contractID int64) (*model.RentalContract, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := paymentsvc.New(&repoMock{}, cm)

	_, err := s.Record(context.Background(), 404, "0xabc", 600)
	if paymentsvc.Code(err) != paymentsvc.ErrNotFound {
		t.Fatalf("got %v; want NOT_FOUND", err)
	}
}

func TestRecord_ReplayedTransaction(t *testing.T) {
	m := &repoMock{
		insertFn: func(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error) {
			return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	s := paymentsvc.New(m, &contractMock{})

	_, err := s.Record(context.Background(), 42, "0xabc", 600)
	if paymentsvc.Code(err) != paymentsvc.ErrConflict {
		t.Fatalf("got %v; want CONFLICT", err)
	}
}

func TestByID_PartiesOnly(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, paymentID int64) (*model.Payment, error) {
			return &model.Payment{ID: paymentID, ContractID: 42}, nil
		},
	}
	s := paymentsvc.New(m, &contractMock{})

	// tenant and owner may read
	if _, err := s.ByID(context.Background(), 1, 7); err != nil {
		t.Fatalf("tenant read: %v", err)
	}
	if _, err := s.ByID(context.Background(), 1, 2); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	// anyone else may not
	_, err := s.ByID(context.Background(), 1, 13)
	if paymentsvc.Code(err) != paymentsvc.ErrForbidden {
		t.Fatalf("got %v; want FORBIDDEN", err)
	}
}

func TestHistoryForContract(t *testing.T) {
	m := &repoMock{
		byContractFn: func(ctx context.Context, contractID int64) ([]model.Payment, error) {
			return []model.Payment{{ID: 1, ContractID: contractID}, {ID: 2, ContractID: contractID}}, nil
		},
	}
	s := paymentsvc.New(m, &contractMock{})

	rows, err := s.HistoryForContract(context.Background(), 42, 7)
	if err != nil || len(rows) != 2 {
		t.Fatalf("got %d rows, err %v; want 2, nil", len(rows), err)
	}

	_, err = s.HistoryForContract(context.Background(), 42, 13)
	if paymentsvc.Code(err) != paymentsvc.ErrForbidden {
		t.Fatalf("got %v; want FORBIDDEN", err)
	}
}
