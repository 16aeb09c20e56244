// repository/request/repo.go
package requestrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"
)

type Repo interface {
	// Transactional mutations
	Insert(ctx context.Context, tx *sql.Tx, propertyID, tenantID int64) (*model.RentalRequest, error)
	ExistsLive(ctx context.Context, tx *sql.Tx, propertyID, tenantID int64) (bool, error)
	LockProperty(ctx context.Context, tx *sql.Tx, propertyID int64) error
	GetInTx(ctx context.Context, tx *sql.Tx, requestID int64) (*model.RentalRequest, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, requestID int64) (*model.RentalRequest, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, requestID int64, status model.RequestStatus) error
	RejectPendingSiblings(ctx context.Context, tx *sql.Tx, propertyID, exceptID int64) (int64, error)
	Delete(ctx context.Context, tx *sql.Tx, requestID int64) error

	// Reads
	ByID(ctx context.Context, requestID int64) (*model.RentalRequest, error)
	ByProperty(ctx context.Context, propertyID int64) ([]model.RentalRequest, error)
	ByTenant(ctx context.Context, tenantID int64) ([]model.RentalRequest, error)
	All(ctx context.Context) ([]model.RentalRequest, error)

	// Cleanup
	RejectExpiredPending(ctx context.Context, before time.Time) (int64, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

const requestCols = `id, property_id, tenant_id, status, created_at`

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, propertyID, tenantID int64) (*model.RentalRequest, error) {
	const q = `
		INSERT INTO rental_requests (property_id, tenant_id, status)
		VALUES ($1, $2, 'PENDING')
		RETURNING id, created_at`
	req := &model.RentalRequest{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Status:     model.RequestPending,
	}
	if err := tx.QueryRowContext(ctx, q, propertyID, tenantID).Scan(&req.ID, &req.CreatedAt); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) ExistsLive(ctx context.Context, tx *sql.Tx, propertyID, tenantID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM rental_requests
			WHERE property_id = $1
			AND tenant_id = $2
			AND status IN ('PENDING', 'ACCEPTED')
		)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, propertyID, tenantID).Scan(&exists)
	return exists, err
}

// LockProperty takes row locks on every request of the property in id order,
// so concurrent accepts for the same property queue instead of deadlocking.
func (r *repo) LockProperty(ctx context.Context, tx *sql.Tx, propertyID int64) error {
	const q = `
		SELECT id
		FROM rental_requests
		WHERE property_id = $1
		ORDER BY id
		FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, propertyID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *repo) GetInTx(ctx context.Context, tx *sql.Tx, requestID int64) (*model.RentalRequest, error) {
	const q = `
		SELECT ` + requestCols + `
		FROM rental_requests
		WHERE id = $1`
	return scanRequest(tx.QueryRowContext(ctx, q, requestID))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, requestID int64) (*model.RentalRequest, error) {
	const q = `
		SELECT ` + requestCols + `
		FROM rental_requests
		WHERE id = $1
		FOR UPDATE`
	return scanRequest(tx.QueryRowContext(ctx, q, requestID))
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sql.Tx, requestID int64, status model.RequestStatus) error {
	const q = `
		UPDATE rental_requests
		SET status = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, requestID, string(status))
	return err
}

func (r *repo) RejectPendingSiblings(ctx context.Context, tx *sql.Tx, propertyID, exceptID int64) (int64, error) {
	const q = `
		UPDATE rental_requests
		SET status = 'REJECTED'
		WHERE property_id = $1
		AND id <> $2
		AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, q, propertyID, exceptID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) Delete(ctx context.Context, tx *sql.Tx, requestID int64) error {
	const q = `
		DELETE FROM rental_requests
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, requestID)
	return err
}

func (r *repo) ByID(ctx context.Context, requestID int64) (*model.RentalRequest, error) {
	const q = `
		SELECT ` + requestCols + `
		FROM rental_requests
		WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, q, requestID))
}

func (r *repo) ByProperty(ctx context.Context, propertyID int64) ([]model.RentalRequest, error) {
	const q = `
		SELECT ` + requestCols + `
		FROM rental_requests
		WHERE property_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, propertyID)
}

func (r *repo) ByTenant(ctx context.Context, tenantID int64) ([]model.RentalRequest, error) {
	const q = `
		SELECT ` + requestCols + `
		FROM rental_requests
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, tenantID)
}

func (r *repo) All(ctx context.Context) ([]model.RentalRequest, error) {
	const q = `
		SELECT ` + requestCols + `
		FROM rental_requests
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q)
}

func (r *repo) RejectExpiredPending(ctx context.Context, before time.Time) (int64, error) {
	const q = `
		UPDATE rental_requests
		SET status = 'REJECTED'
		WHERE status = 'PENDING'
		AND created_at < $1`
	res, err := r.db.ExecContext(ctx, q, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.RentalRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalRequest
	for rows.Next() {
		var req model.RentalRequest
		if err := rows.Scan(&req.ID, &req.PropertyID, &req.TenantID, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.RentalRequest, error) {
	req := &model.RentalRequest{}
	if err := row.Scan(&req.ID, &req.PropertyID, &req.TenantID, &req.Status, &req.CreatedAt); err != nil {
		return nil, err
	}
	return req, nil
}
