package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrKeyExists   = errors.New("db: key already exists")
)

// Op names the failed command in Error.
const (
	OpDel          = "DEL"
	OpHSet         = "HSET"
	OpHGetAllMulti = "HGETALL*"
	OpScan         = "SCAN"
	OpGet          = "GET"
	OpSet          = "SET"
	OpIncrBy       = "INCRBY"
	OpExpire       = "EXPIRE"
	OpJSONSet      = "JSON.SET"
	OpJSONGet      = "JSON.GET"
	OpJSONMGet     = "JSON.MGET"
)

// Error records which command failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
