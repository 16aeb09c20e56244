package payment

type RecordPaymentReq struct {
	ContractID int64   `json:"contract_id" validate:"required,gt=0"`
	TxHash     string  `json:"tx_hash" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}
