package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/gourmet/internal/db"
)

// JSONSet writes a document. NX/XX conditions that are not met come back as a
// nil reply and map to db.ErrKeyExists / db.ErrKeyNotFound.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte, mode db.WriteMode) error {
	args := []string{path, string(data)}
	switch mode {
	case db.WriteIfAbsent:
		args = append(args, "NX")
	case db.WriteIfPresent:
		args = append(args, "XX")
	case db.WriteAlways:
	}

	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args(args...).Build()
	err := s.do(ctx, cmd).Error()
	switch {
	case err == nil:
		return nil
	case rueidis.IsRedisNil(err) && mode == db.WriteIfAbsent:
		return db.ErrKeyExists
	case rueidis.IsRedisNil(err) && mode == db.WriteIfPresent:
		return db.ErrKeyNotFound
	default:
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
}

// JSONGet reads one path of a document.
func (s *Store) JSONGet(ctx context.Context, key, path string) ([]byte, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(path).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// JSONMGet fetches the same path from many documents in one round-trip.
// Keys that vanished between SCAN and MGET come back as nil entries.
func (s *Store) JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmd := s.b().Arbitrary("JSON.MGET").Keys(keys...).Args(path).Build()
	msgs, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpJSONMGet, Err: err}
	}
	if len(msgs) != len(keys) {
		return nil, &db.Error{
			Op:  db.OpJSONMGet,
			Err: fmt.Errorf("expected %d replies, got %d", len(keys), len(msgs)),
		}
	}

	out := make([][]byte, len(msgs))
	for i := range msgs {
		raw, err := msgs[i].ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONMGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		if raw != "" {
			out[i] = []byte(raw)
		}
	}
	return out, nil
}
