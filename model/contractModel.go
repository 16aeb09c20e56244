// model/contract.go
package model

import "time"

type ContractStatus string

const (
	ContractPendingReservation ContractStatus = "PENDING_RESERVATION"
	ContractActive             ContractStatus = "ACTIVE"
)

// RentalContract is the off-chain record of the agreement. AgreementID is the
// on-chain reference and never changes once set.
type RentalContract struct {
	ID              int64          `json:"id"`
	AgreementID     int64          `json:"agreement_id_on_chain"`
	OwnerID         int64          `json:"owner_id"`
	TenantID        int64          `json:"tenant_id"`
	PropertyID      int64          `json:"property_id"`
	SecurityDeposit float64        `json:"security_deposit"`
	RentPerMonth    float64        `json:"rent_per_month"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         time.Time      `json:"end_date"`
	KeyDelivered    bool           `json:"is_key_delivered"`
	PaymentReleased bool           `json:"is_payment_released"`
	Status          ContractStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
