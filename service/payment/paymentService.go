package paymentsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrConflict  ErrCode = "CONFLICT"
	ErrForbidden ErrCode = "FORBIDDEN"
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

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Insert(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error)
	ByID(ctx context.Context, paymentID int64) (*model.Payment, error)
	ByContract(ctx context.Context, contractID int64) ([]model.Payment, error)
}

// ContractRepo resolves the contract a payment belongs to, for existence and
// authorization checks.
type ContractRepo interface {
	ByID(ctx context.Context, contractID int64) (*model.RentalContract, error)
}

type Service interface {
	// Record: append a settled ledger transaction to the contract's history.
	// Called by the blockchain listener, not the frontend.
	Record(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error)

	ByID(ctx context.Context, paymentID, actorID int64) (*model.Payment, error)
	HistoryForContract(ctx context.Context, contractID, actorID int64) ([]model.Payment, error)
}

type service struct {
	r  Repo
	cr ContractRepo
}

func New(r Repo, cr ContractRepo) Service {
	return &service{r: r, cr: cr}
}

func (s *service) Record(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error) {
	if _, err := s.cr.ByID(ctx, contractID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound, "rental contract not found")
		}
		return nil, err
	}

	p, err := s.r.Insert(ctx, contractID, txHash, amount)
	if err != nil {
		// the listener may replay a transaction; tx_hash is unique
		if isUniqueViolation(err) {
			return nil, makeErr(ErrConflict, "payment already recorded for this transaction")
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ByID(ctx context.Context, paymentID, actorID int64) (*model.Payment, error) {
	p, err := s.r.ByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound, "payment not found")
		}
		return nil, err
	}

	if err := s.authorize(ctx, p.ContractID, actorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) HistoryForContract(ctx context.Context, contractID, actorID int64) ([]model.Payment, error) {
	if err := s.authorize(ctx, contractID, actorID); err != nil {
		return nil, err
	}
	return s.r.ByContract(ctx, contractID)
}

func (s *service) authorize(ctx context.Context, contractID, actorID int64) error {
	c, err := s.cr.ByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound, "rental contract not found")
		}
		return err
	}
	if c.OwnerID != actorID && c.TenantID != actorID {
		return makeErr(ErrForbidden, "payments are visible to the contract parties only")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
