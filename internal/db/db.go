package db

import (
	"context"
	"time"
)

// Store is the database facade the composition root hands to repositories.
// Each repository declares the narrow subset it needs.
//
//nolint:interfacebloat // facade; consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	JSONStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WriteMode makes a document write conditional on the key's presence.
type WriteMode int

const (
	// WriteAlways creates or replaces the document.
	WriteAlways WriteMode = iota
	// WriteIfAbsent fails with ErrKeyExists when the key is taken (NX).
	WriteIfAbsent
	// WriteIfPresent fails with ErrKeyNotFound when the key is missing (XX).
	WriteIfPresent
)

// HashStore holds flat string records such as query log entries.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HGetAllMulti returns one map per key; missing keys yield empty maps.
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// JSONStore holds JSON documents such as restaurant records.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte, mode WriteMode) error
	JSONGet(ctx context.Context, key, path string) ([]byte, error)
	// JSONMGet returns one entry per key; missing keys yield nil.
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
	// Del fails with ErrKeyNotFound when nothing was removed.
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore holds counters and cached blobs.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; ttl <= 0 keeps it until evicted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
