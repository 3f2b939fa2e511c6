package gourmet

import (
	"context"
	"time"
)

// RestaurantService manages restaurant records.
type RestaurantService struct {
	svc restaurantUseCase
	obs *observer
}

// Create validates and stores a new restaurant. r.ID is ignored.
func (s *RestaurantService) Create(ctx context.Context, r Restaurant) (_ Restaurant, err error) {
	start := time.Now()
	defer func() { s.obs.observe("restaurants.create", start, err) }()

	attrs, err := toAttributes(&r)
	if err != nil {
		return Restaurant{}, err
	}
	created, err := s.svc.Create(ctx, attrs)
	if err != nil {
		return Restaurant{}, err
	}
	return restaurantFromDomain(&created), nil
}

// Get returns a restaurant by id.
func (s *RestaurantService) Get(ctx context.Context, id string) (_ Restaurant, err error) {
	start := time.Now()
	defer func() { s.obs.observe("restaurants.get", start, err) }()

	r, err := s.svc.Get(ctx, id)
	if err != nil {
		return Restaurant{}, err
	}
	return restaurantFromDomain(&r), nil
}

// List returns a page ordered by id.
// limit <= 0 uses the default page size.
func (s *RestaurantService) List(ctx context.Context, offset, limit int) (_ RestaurantPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("restaurants.list", start, err) }()

	page, err := s.svc.List(ctx, offset, limit)
	if err != nil {
		return RestaurantPage{}, err
	}
	out := RestaurantPage{
		Restaurants: make([]Restaurant, 0, len(page.Items)),
		Total:       page.Total,
	}
	for i := range page.Items {
		out.Restaurants = append(out.Restaurants, restaurantFromDomain(&page.Items[i]))
	}
	return out, nil
}

// Update replaces every attribute of an existing restaurant.
func (s *RestaurantService) Update(ctx context.Context, id string, r Restaurant) (_ Restaurant, err error) {
	start := time.Now()
	defer func() { s.obs.observe("restaurants.update", start, err) }()

	attrs, err := toAttributes(&r)
	if err != nil {
		return Restaurant{}, err
	}
	updated, err := s.svc.Update(ctx, id, attrs)
	if err != nil {
		return Restaurant{}, err
	}
	return restaurantFromDomain(&updated), nil
}

// Delete removes a restaurant.
func (s *RestaurantService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("restaurants.delete", start, err) }()

	return s.svc.Delete(ctx, id)
}
