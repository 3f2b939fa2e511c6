package restaurant

import (
	"context"

	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

// Repository defines the storage contract for restaurant records.
type Repository interface {
	Create(ctx context.Context, r *domrest.Restaurant) error
	Get(ctx context.Context, id string) (domrest.Restaurant, error)
	List(ctx context.Context) ([]domrest.Restaurant, error)
	Update(ctx context.Context, r *domrest.Restaurant) error
	Delete(ctx context.Context, id string) error
}
