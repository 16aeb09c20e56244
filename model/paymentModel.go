// model/payment.go
package model

import "time"

// Payment is a recorded ledger fact. The service never moves funds; the
// blockchain listener reports settled transactions here.
type Payment struct {
	ID         int64     `json:"id"`
	ContractID int64     `json:"contract_id"`
	TxHash     string    `json:"tx_hash"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}
