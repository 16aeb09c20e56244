// repository/contract/repo.go
package contractrepo

import (
	"context"
	"database/sql"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"
)

type Repo interface {
	Insert(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error)
	ByID(ctx context.Context, contractID int64) (*model.RentalContract, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error)
	Activate(ctx context.Context, tx *sql.Tx, contractID int64) error
	ForUser(ctx context.Context, userID int64) ([]model.RentalContract, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

const contractCols = `id, agreement_id_on_chain, owner_id, tenant_id, property_id,
		security_deposit, rent_per_month, start_date, end_date,
		key_delivered, payment_released, status, created_at`

func (r *repo) Insert(ctx context.Context, c *model.RentalContract) (*model.RentalContract, error) {
	const q = `
		INSERT INTO rental_contracts
			(agreement_id_on_chain, owner_id, tenant_id, property_id,
			 security_deposit, rent_per_month, start_date, end_date,
			 key_delivered, payment_released, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q,
		c.AgreementID, c.OwnerID, c.TenantID, c.PropertyID,
		c.SecurityDeposit, c.RentPerMonth, c.StartDate, c.EndDate,
		c.KeyDelivered, c.PaymentReleased, string(c.Status),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) ByID(ctx context.Context, contractID int64) (*model.RentalContract, error) {
	const q = `
		SELECT ` + contractCols + `
		FROM rental_contracts
		WHERE id = $1`
	return scanContract(r.db.QueryRowContext(ctx, q, contractID))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, contractID int64) (*model.RentalContract, error) {
	const q = `
		SELECT ` + contractCols + `
		FROM rental_contracts
		WHERE id = $1
		FOR UPDATE`
	return scanContract(tx.QueryRowContext(ctx, q, contractID))
}

// Activate flips the contract to ACTIVE. Key delivery and payment release
// move together; there is no path that sets one without the other.
func (r *repo) Activate(ctx context.Context, tx *sql.Tx, contractID int64) error {
	const q = `
		UPDATE rental_contracts
		SET key_delivered = TRUE,
			payment_released = TRUE,
			status = 'ACTIVE'
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, contractID)
	return err
}

func (r *repo) ForUser(ctx context.Context, userID int64) ([]model.RentalContract, error) {
	const q = `
		SELECT ` + contractCols + `
		FROM rental_contracts
		WHERE owner_id = $1
		OR tenant_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*model.RentalContract, error) {
	c := &model.RentalContract{}
	err := row.Scan(
		&c.ID, &c.AgreementID, &c.OwnerID, &c.TenantID, &c.PropertyID,
		&c.SecurityDeposit, &c.RentPerMonth, &c.StartDate, &c.EndDate,
		&c.KeyDelivered, &c.PaymentReleased, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
