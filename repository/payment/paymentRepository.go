// repository/payment/repo.go
package paymentrepo

import (
	"context"
	"database/sql"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/model"
)

type Repo interface {
	Insert(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error)
	ByID(ctx context.Context, paymentID int64) (*model.Payment, error)
	ByContract(ctx context.Context, contractID int64) ([]model.Payment, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, contractID int64, txHash string, amount float64) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (contract_id, tx_hash, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	p := &model.Payment{ContractID: contractID, TxHash: txHash, Amount: amount}
	if err := r.db.QueryRowContext(ctx, q, contractID, txHash, amount).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) ByID(ctx context.Context, paymentID int64) (*model.Payment, error) {
	const q = `
		SELECT id, contract_id, tx_hash, amount, created_at
		FROM payments
		WHERE id = $1`
	p := &model.Payment{}
	err := r.db.QueryRowContext(ctx, q, paymentID).Scan(&p.ID, &p.ContractID, &p.TxHash, &p.Amount, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) ByContract(ctx context.Context, contractID int64) ([]model.Payment, error) {
	const q = `
		SELECT id, contract_id, tx_hash, amount, created_at
		FROM payments
		WHERE contract_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ContractID, &p.TxHash, &p.Amount, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
