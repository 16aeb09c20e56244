// model/request.go
package model

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

// ParseRequestStatus maps a wire value to a known status. Unknown values are
// rejected at the boundary so nothing outside the enum is ever stored.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case RequestPending, RequestAccepted, RequestRejected:
		return RequestStatus(s), true
	}
	return "", false
}

// Live reports whether the status still occupies the property for the tenant.
func (s RequestStatus) Live() bool {
	return s == RequestPending || s == RequestAccepted
}

type RentalRequest struct {
	ID         int64         `json:"id"`
	PropertyID int64         `json:"property_id"`
	TenantID   int64         `json:"tenant_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
