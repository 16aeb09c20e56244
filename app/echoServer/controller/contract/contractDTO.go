package contract

type CreateContractReq struct {
	AgreementID     int64   `json:"agreement_id_on_chain" validate:"required,gt=0"`
	OwnerID         int64   `json:"owner_id" validate:"required,gt=0"`
	PropertyID      int64   `json:"property_id" validate:"required,gt=0"`
	SecurityDeposit float64 `json:"security_deposit" validate:"gte=0"`
	RentPerMonth    float64 `json:"rent_per_month" validate:"required,gt=0"`
	StartDate       string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string  `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type KeyDeliveryReq struct {
	IsKeyDelivered *bool `json:"is_key_delivered" validate:"required"`
}
