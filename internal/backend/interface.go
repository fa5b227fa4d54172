// Package backend selects and constructs the timesheet data backend.
package backend

import (
	"context"

	"ore/internal/store"
)

// Backend is the full set of operations the HTTP layer needs.
type Backend interface {
	store.TimesheetReader
	store.EntryWriter
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result holds a constructed backend and its optional cleanup.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds backend construction parameters.
type Config struct {
	Type Type

	// sqlite specific
	SQLiteDBPath string

	// event publishing, optional for either backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type identifies a backend implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
