package contract

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrConflict     ErrCode = "CONFLICT"
	ErrInvalidState ErrCode = "INVALID_STATE"
	ErrForbidden    ErrCode = "FORBIDDEN"
)

type codedError struct {
	code   ErrCode
	reason string
}

func (e codedError) Error() string {
	if e.reason == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.reason
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, reason string) error { return codedError{code: c, reason: reason} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Terms carries everything the orchestrator settled before contract creation.
// The source request is already ACCEPTED; this service does not re-derive
// eligibility from the request store.
type Terms struct {
	AgreementID     int64
	OwnerID         int64
	PropertyID      int64
	SecurityDeposit float64
	RentPerMonth    float64
	StartDate       time.Time
	EndDate         time.Time
}

type Repo interface {
	Insert(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error)
	ByID(ctx context.Context, contractID int64) (*model.RentalContract, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error)
	Activate(ctx context.Context, tx *sql.Tx, contractID int64) error
	ForUser(ctx context.Context, userID int64) ([]model.RentalContract, error)
}

type Service interface {
	// Create: record the contract produced by an accepted request, in
	// PENDING_RESERVATION with the key not yet delivered.
	Create(ctx context.Context, tenantID int64, t Terms) (*model.RentalContract, error)

	// ConfirmKeyDelivery: tenant-asserted key handover. delivered=true
	// activates the contract and releases the first rent payment in one
	// transition; delivered=false is a no-op.
	ConfirmKeyDelivery(ctx context.Context, contractID int64, delivered bool, actorID int64) (*model.RentalContract, error)

	ByID(ctx context.Context, contractID int64) (*model.RentalContract, error)
	ForUser(ctx context.Context, userID int64) ([]model.RentalContract, error)
}

// ----- Service implementation -----

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r}
}

func (s *service) Create(ctx context.Context, tenantID int64, t Terms) (*model.RentalContract, error) {
	if t.EndDate.Before(t.StartDate) {
		return nil, makeErr(ErrInvalidState, "end date precedes start date")
	}

	c := &model.RentalContract{
		AgreementID:     t.AgreementID,
		OwnerID:         t.OwnerID,
		TenantID:        tenantID,
		PropertyID:      t.PropertyID,
		SecurityDeposit: t.SecurityDeposit,
		RentPerMonth:    t.RentPerMonth,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		KeyDelivered:    false,
		PaymentReleased: false,
		Status:          model.ContractPendingReservation,
	}

	created, err := s.r.Insert(ctx, c)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrConflict, "agreement id already registered")
		}
		return nil, err
	}
	return created, nil
}

func (s *service) ConfirmKeyDelivery(ctx context.Context, contractID int64, delivered bool, actorID int64) (*model.RentalContract, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c, err := s.r.GetForUpdate(ctx, tx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound, "rental contract not found")
		}
		return nil, err
	}

	if c.TenantID != actorID {
		err = makeErr(ErrForbidden, "only the tenant can confirm key delivery")
		return nil, err
	}

	// repeat confirmation returns the contract as-is, no duplicate side effects
	if delivered && c.KeyDelivered {
		if err = tx.Commit(); err != nil {
			return nil, err
		}
		return c, nil
	}

	if c.Status != model.ContractPendingReservation {
		err = makeErr(ErrInvalidState, "contract is not in PENDING_RESERVATION status")
		return nil, err
	}

	// "un-confirming" is not a real transition; the contract stays reserved
	if !delivered {
		if err = tx.Commit(); err != nil {
			return nil, err
		}
		return c, nil
	}

	if err = s.r.Activate(ctx, tx, c.ID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	c.KeyDelivered = true
	c.PaymentReleased = true
	c.Status = model.ContractActive
	return c, nil
}

func (s *service) ByID(ctx context.Context, contractID int64) (*model.RentalContract, error) {
	c, err := s.r.ByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound, "rental contract not found")
		}
		return nil, err
	}
	return c, nil
}

func (s *service) ForUser(ctx context.Context, userID int64) ([]model.RentalContract, error) {
	return s.r.ForUser(ctx, userID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
