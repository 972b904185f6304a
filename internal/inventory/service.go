package inventory

import (
	"context"
	"time"
)

const defaultQueryTimeout = 2 * time.Second

// Service answers inventory read queries with a bounded store deadline.
type Service struct {
	repo    Repository
	timeout time.Duration
}

// NewService constructs an inventory service. A non-positive timeout uses the default.
func NewService(repo Repository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Service{repo: repo, timeout: timeout}
}

// List returns one page of cars matching q.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.List(ctx, q)
}

// Get returns a single car or ErrCarNotFound.
func (s *Service) Get(ctx context.Context, id string) (Car, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Get(ctx, id)
}

// Features returns the sorted set of features across all cars.
func (s *Service) Features(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Features(ctx)
}

// Filters returns the facet values for the storefront search.
func (s *Service) Filters(ctx context.Context) (Filters, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Filters(ctx)
}

// Statistics returns the inventory summary shown on the admin console.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Statistics(ctx)
}
