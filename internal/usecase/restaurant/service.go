package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/gourmet/internal/domain"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

// Page is one slice of the ordered collection.
type Page struct {
	Items []domrest.Restaurant
	Total int
}

// Service handles restaurant CRUD. Ids and timestamps are assigned here.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
	now             func() time.Time
	newID           func() string
}

// New creates a restaurant service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		defaultPageSize: 20,
		maxPageSize:     100,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Create validates attrs and stores a new restaurant with a fresh id.
func (s *Service) Create(ctx context.Context, attrs domrest.Attributes) (domrest.Restaurant, error) {
	r, err := domrest.New(s.newID(), attrs)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	now := s.now().UTC()
	r = r.Stamp(now, now)

	if err := s.repo.Create(ctx, &r); err != nil {
		return domrest.Restaurant{}, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

// Get returns a restaurant by id.
func (s *Service) Get(ctx context.Context, id string) (domrest.Restaurant, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// List returns one page of restaurants ordered by id. limit <= 0 uses the default page size.
func (s *Service) List(ctx context.Context, offset, limit int) (Page, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list restaurants: %w", err)
	}

	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return Page{Items: all[offset:end], Total: len(all)}, nil
}

// Update replaces the attributes of an existing restaurant, keeping its creation time.
func (s *Service) Update(ctx context.Context, id string, attrs domrest.Attributes) (domrest.Restaurant, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}

	r, err := domrest.New(id, attrs)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	r = r.Stamp(existing.CreatedAt(), s.now().UTC())

	if err := s.repo.Update(ctx, &r); err != nil {
		return domrest.Restaurant{}, fmt.Errorf("update restaurant: %w", err)
	}
	return r, nil
}

// Delete removes a restaurant.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}
