package adapters

import (
	"context"

	requestsservice "roadsaver_backend/internal/requests/service"

	"github.com/google/uuid"
)

// RequestOwners resolves which user a tracked request belongs to.
type RequestOwners struct {
	requests *requestsservice.Service
}

func NewRequestOwners(requests *requestsservice.Service) *RequestOwners {
	return &RequestOwners{requests: requests}
}

func (o *RequestOwners) Owner(ctx context.Context, id uuid.UUID) (string, error) {
	req, err := o.requests.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return req.Username, nil
}
