package propertyrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/util/httpx"
)

// ErrNotFound marks a property id unknown to the property microservice.
var ErrNotFound = errors.New("property not found")

type Property struct {
	ID              int64  `json:"idProperty"`
	OnChainID       int64  `json:"onChainId"`
	Title           string `json:"title"`
	OwnerID         int64  `json:"ownerId"`
	RentAmount      int64  `json:"rentAmount"`
	SecurityDeposit int64  `json:"securityDeposit"`
	IsAvailable     bool   `json:"isAvailable"`
	IsActive        bool   `json:"isActive"`
}

type Repo interface {
	GetByID(ctx context.Context, propertyID int64) (*Property, error)
}

type httpRepo struct {
	baseURL string
	client  *http.Client
}

func NewHTTP(baseURL string) Repo {
	return &httpRepo{baseURL: strings.TrimRight(baseURL, "/"), client: httpx.Client()}
}

func (r *httpRepo) GetByID(ctx context.Context, propertyID int64) (*Property, error) {
	url := fmt.Sprintf("%s/api/property-microservice/properties/%d", r.baseURL, propertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("property lookup failed: %s", resp.Status)
	}

	var p Property
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		p.ID = propertyID
	}
	return &p, nil
}
