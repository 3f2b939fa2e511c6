package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/gourmet/internal/db"
	"github.com/kailas-cloud/gourmet/internal/domain"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

const (
	collection = "restaurant"
	rootPath   = "$"
)

// store is the consumer interface for restaurants (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte, mode db.WriteMode) error
	JSONGet(ctx context.Context, key, path string) ([]byte, error)
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/restaurant.Repository and usecase/search.Records.
type Repo struct {
	store store
}

// New creates a restaurant repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new restaurant. A taken ID is rejected with db.ErrKeyExists.
func (r *Repo) Create(ctx context.Context, rest *domrest.Restaurant) error {
	return r.put(ctx, rest, db.WriteIfAbsent)
}

// Get returns a restaurant by ID.
func (r *Repo) Get(ctx context.Context, id string) (domrest.Restaurant, error) {
	key := recordKey(id)
	raw, err := r.store.JSONGet(ctx, key, rootPath)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrest.Restaurant{}, domain.ErrNotFound
		}
		return domrest.Restaurant{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	rest, err := parseJSONGetResult(raw)
	if err != nil {
		return domrest.Restaurant{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return rest, nil
}

// List returns every restaurant ordered by ID. The pipeline filters client-side,
// so this is a full SCAN + JSON.MGET over the collection.
func (r *Repo) List(ctx context.Context) ([]domrest.Restaurant, error) {
	keys, err := r.store.Scan(ctx, recordKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	docs, err := r.store.JSONMGet(ctx, keys, rootPath)
	if err != nil {
		return nil, fmt.Errorf("json.mget %s: %w", collection, err)
	}

	out := make([]domrest.Restaurant, 0, len(docs))
	for i, raw := range docs {
		if raw == nil {
			continue // deleted between SCAN and MGET
		}
		rest, err := parseJSONGetResult(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, rest)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Update replaces an existing restaurant.
func (r *Repo) Update(ctx context.Context, rest *domrest.Restaurant) error {
	return r.put(ctx, rest, db.WriteIfPresent)
}

// Delete removes a restaurant.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := recordKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// put writes the record in one conditional JSON.SET, so concurrent creates
// of one id cannot both succeed and an update never resurrects a deleted record.
func (r *Repo) put(ctx context.Context, rest *domrest.Restaurant, mode db.WriteMode) error {
	key := recordKey(rest.ID())
	data, err := json.Marshal(toDTO(rest))
	if err != nil {
		return fmt.Errorf("marshal restaurant: %w", err)
	}
	err = r.store.JSONSet(ctx, key, rootPath, data, mode)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrKeyNotFound):
		return domain.ErrNotFound
	case errors.Is(err, db.ErrKeyExists):
		return fmt.Errorf("create %s: %w", key, err)
	default:
		return fmt.Errorf("json.set %s: %w", key, err)
	}
}

func recordKey(id string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, collection, id)
}

// parseJSONGetResult decodes the "$" path reply, which wraps the document in an array.
func parseJSONGetResult(raw []byte) (domrest.Restaurant, error) {
	var docs []recordDTO
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domrest.Restaurant{}, fmt.Errorf("unmarshal: %w", err)
	}
	if len(docs) == 0 {
		return domrest.Restaurant{}, domain.ErrNotFound
	}
	return fromDTO(&docs[0]), nil
}
