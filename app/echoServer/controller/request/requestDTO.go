package request

type CreateRequestReq struct {
	PropertyID int64 `json:"property_id" validate:"required,gt=0"`
}

type UpdateStatusReq struct {
	Status string `json:"status" validate:"required,oneof=PENDING ACCEPTED REJECTED"`
}
