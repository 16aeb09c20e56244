package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"
	propertyrepo "github.com/JunaidUthman/Rentale-Agreement-Microservice/repository/property"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrConflict          ErrCode = "CONFLICT"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrInvalidState      ErrCode = "INVALID_STATE"
	ErrForbidden         ErrCode = "FORBIDDEN"
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

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, propertyID, tenantID int64) (*model.RentalRequest, error)
	ExistsLive(ctx context.Context, tx *sql.Tx, propertyID, tenantID int64) (bool, error)
	LockProperty(ctx context.Context, tx *sql.Tx, propertyID int64) error
	GetInTx(ctx context.Context, tx *sql.Tx, requestID int64) (*model.RentalRequest, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, requestID int64) (*model.RentalRequest, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, requestID int64, status model.RequestStatus) error
	RejectPendingSiblings(ctx context.Context, tx *sql.Tx, propertyID, exceptID int64) (int64, error)
	Delete(ctx context.Context, tx *sql.Tx, requestID int64) error

	ByID(ctx context.Context, requestID int64) (*model.RentalRequest, error)
	ByProperty(ctx context.Context, propertyID int64) ([]model.RentalRequest, error)
	ByTenant(ctx context.Context, tenantID int64) ([]model.RentalRequest, error)
	All(ctx context.Context) ([]model.RentalRequest, error)

	RejectExpiredPending(ctx context.Context, before time.Time) (int64, error)
}

type Service interface {
	// Create: register a tenant's intent to rent a property (status PENDING).
	Create(ctx context.Context, tenantID, propertyID int64) (*model.RentalRequest, error)

	// UpdateStatus: owner decision. PENDING->ACCEPTED rejects every other
	// PENDING request for the property in the same transaction.
	UpdateStatus(ctx context.Context, requestID int64, target model.RequestStatus, actorID int64) (*model.RentalRequest, error)

	// Delete: remove a request that is not bound to a contract.
	Delete(ctx context.Context, requestID, actorID int64) error

	ByID(ctx context.Context, requestID int64) (*model.RentalRequest, error)
	ForProperty(ctx context.Context, propertyID int64) ([]model.RentalRequest, error)
	ForTenant(ctx context.Context, tenantID int64) ([]model.RentalRequest, error)
	All(ctx context.Context) ([]model.RentalRequest, error)
}

// ----- Service implementation -----

type service struct {
	db    *sql.DB
	r     Repo
	props propertyrepo.Repo
}

func New(db *sql.DB, r Repo, props propertyrepo.Repo) Service {
	return &service{db: db, r: r, props: props}
}

func (s *service) Create(ctx context.Context, tenantID, propertyID int64) (*model.RentalRequest, error) {
	// validate the property reference first
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, propertyrepo.ErrNotFound) {
			return nil, makeErr(ErrNotFound, "property not found")
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	live, err := s.r.ExistsLive(ctx, tx, propertyID, tenantID)
	if err != nil {
		return nil, err
	}
	if live {
		err = makeErr(ErrConflict, "active rental request already exists for this property")
		return nil, err
	}

	req, err := s.r.Insert(ctx, tx, propertyID, tenantID)
	if err != nil {
		// a racing create commits first; the partial unique index reports it
		if isUniqueViolation(err) {
			err = makeErr(ErrConflict, "active rental request already exists for this property")
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) UpdateStatus(ctx context.Context, requestID int64, target model.RequestStatus, actorID int64) (*model.RentalRequest, error) {
	if target != model.RequestAccepted && target != model.RequestRejected {
		return nil, makeErr(ErrInvalidTransition, fmt.Sprintf("no transition to %s", target))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// property_id never changes, so the unlocked read is only for scoping the lock
	first, err := s.r.GetInTx(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound, "rental request not found")
		}
		return nil, err
	}

	if err = s.r.LockProperty(ctx, tx, first.PropertyID); err != nil {
		return nil, err
	}

	// re-read the status now that the property scope is locked
	req, err := s.r.GetInTx(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound, "rental request not found")
		}
		return nil, err
	}
	if req.Status != model.RequestPending {
		err = makeErr(ErrInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", req.Status, target))
		return nil, err
	}

	if target == model.RequestAccepted {
		if _, err = s.r.RejectPendingSiblings(ctx, tx, req.PropertyID, req.ID); err != nil {
			return nil, err
		}
	}

	if err = s.r.UpdateStatus(ctx, tx, req.ID, target); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	req.Status = target
	return req, nil
}

func (s *service) Delete(ctx context.Context, requestID, actorID int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	req, err := s.r.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound, "rental request not found")
		}
		return err
	}
	if req.TenantID != actorID {
		return makeErr(ErrForbidden, "only the requesting tenant can delete the request")
	}
	// an accepted request has been consumed by a contract; deleting it would
	// orphan that contract
	if req.Status == model.RequestAccepted {
		return makeErr(ErrInvalidState, "accepted request cannot be deleted")
	}

	if err = s.r.Delete(ctx, tx, req.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) ByID(ctx context.Context, requestID int64) (*model.RentalRequest, error) {
	req, err := s.r.ByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound, "rental request not found")
		}
		return nil, err
	}
	return req, nil
}

func (s *service) ForProperty(ctx context.Context, propertyID int64) ([]model.RentalRequest, error) {
	return s.r.ByProperty(ctx, propertyID)
}

func (s *service) ForTenant(ctx context.Context, tenantID int64) ([]model.RentalRequest, error) {
	return s.r.ByTenant(ctx, tenantID)
}

func (s *service) All(ctx context.Context) ([]model.RentalRequest, error) {
	return s.r.All(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
