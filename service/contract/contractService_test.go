// service/contract/contract_service_test.go
package contract

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertFn       func(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error)
	byIDFn         func(ctx context.Context, contractID int64) (*model.RentalContract, error)
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error)
	activateFn     func(ctx context.Context, tx *sql.Tx, contractID int64) error
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) Insert(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error) {
	return m.insertFn(ctx, c)
}
func (m *mockRepo) ByID(ctx context.Context, contractID int64) (*model.RentalContract, error) {
	return m.byIDFn(ctx, contractID)
}
func (m *mockRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
	return m.getForUpdateFn(ctx, tx, contractID)
}
func (m *mockRepo) Activate(ctx context.Context, tx *sql.Tx, contractID int64) error {
	if m.activateFn == nil {
		return nil
	}
	return m.activateFn(ctx, tx, contractID)
}
func (m *mockRepo) ForUser(ctx context.Context, userID int64) ([]model.RentalContract, error) {
	return nil, nil
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func pendingContract(id, tenantID int64) *model.RentalContract {
	return &model.RentalContract{
		ID:          id,
		AgreementID: 1000 + id,
		OwnerID:     2,
		TenantID:    tenantID,
		PropertyID:  5,
		StartDate:   date("2024-01-01"),
		EndDate:     date("2024-12-31"),
		Status:      model.ContractPendingReservation,
	}
}

// --- Create ---

func TestCreate_PendingReservationDefaults(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error) {
			c.ID = 42
			c.CreatedAt = time.Now()
			return c, nil
		},
	}
	svc := New(nil, m)

	out, err := svc.Create(context.Background(), 7, Terms{
		AgreementID:     1001,
		OwnerID:         2,
		PropertyID:      5,
		SecurityDeposit: 1200,
		RentPerMonth:    600,
		StartDate:       date("2024-01-01"),
		EndDate:         date("2024-12-31"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), out.ID)
	require.Equal(t, int64(7), out.TenantID)
	require.Equal(t, model.ContractPendingReservation, out.Status)
	require.False(t, out.KeyDelivered)
	require.False(t, out.PaymentReleased)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc := New(nil, &mockRepo{})

	_, err := svc.Create(context.Background(), 7, Terms{
		AgreementID:  1001,
		OwnerID:      2,
		PropertyID:   5,
		RentPerMonth: 600,
		StartDate:    date("2024-12-31"),
		EndDate:      date("2024-01-01"),
	})
	require.Equal(t, ErrInvalidState, Code(err))
}

func TestCreate_DuplicateAgreementID(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error) {
			return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	svc := New(nil, m)

	_, err := svc.Create(context.Background(), 7, Terms{
		AgreementID:  1001,
		OwnerID:      2,
		PropertyID:   5,
		RentPerMonth: 600,
		StartDate:    date("2024-01-01"),
		EndDate:      date("2024-12-31"),
	})
	require.Equal(t, ErrConflict, Code(err))
}

// --- ConfirmKeyDelivery ---

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestConfirmKeyDelivery_Activates(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	activated := false
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
			return pendingContract(contractID, 7), nil
		},
		activateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) error {
			activated = true
			return nil
		},
	}
	svc := New(db, m)

	out, err := svc.ConfirmKeyDelivery(context.Background(), 42, true, 7)
	require.NoError(t, err)
	require.True(t, activated)
	require.Equal(t, model.ContractActive, out.Status)
	require.True(t, out.KeyDelivered)
	require.True(t, out.PaymentReleased)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmKeyDelivery_Idempotent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	// already confirmed: contract active, key delivered, payment released
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
			c := pendingContract(contractID, 7)
			c.Status = model.ContractActive
			c.KeyDelivered = true
			c.PaymentReleased = true
			return c, nil
		},
		activateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) error {
			t.Fatal("repeat confirmation must not re-run the activation")
			return nil
		},
	}
	svc := New(db, m)

	out, err := svc.ConfirmKeyDelivery(context.Background(), 42, true, 7)
	require.NoError(t, err)
	require.Equal(t, model.ContractActive, out.Status)
	require.True(t, out.KeyDelivered)
	require.True(t, out.PaymentReleased)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmKeyDelivery_FalseIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
			return pendingContract(contractID, 7), nil
		},
		activateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) error {
			t.Fatal("delivered=false must not activate the contract")
			return nil
		},
	}
	svc := New(db, m)

	out, err := svc.ConfirmKeyDelivery(context.Background(), 42, false, 7)
	require.NoError(t, err)
	require.Equal(t, model.ContractPendingReservation, out.Status)
	require.False(t, out.KeyDelivered)
	require.False(t, out.PaymentReleased)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmKeyDelivery_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(db, m)

	_, err := svc.ConfirmKeyDelivery(context.Background(), 404, true, 7)
	require.Equal(t, ErrNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmKeyDelivery_TenantOnly(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
			return pendingContract(contractID, 7), nil
		},
	}
	svc := New(db, m)

	// owner tries to confirm on the tenant's behalf
	_, err := svc.ConfirmKeyDelivery(context.Background(), 42, true, 2)
	require.Equal(t, ErrForbidden, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmKeyDelivery_UnconfirmActiveContract(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
			c := pendingContract(contractID, 7)
			c.Status = model.ContractActive
			c.KeyDelivered = true
			c.PaymentReleased = true
			return c, nil
		},
	}
	svc := New(db, m)

	// there is no reversal of ACTIVE back to PENDING_RESERVATION
	_, err := svc.ConfirmKeyDelivery(context.Background(), 42, false, 7)
	require.Equal(t, ErrInvalidState, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
