// Package sessions keeps the one in-progress work session each worker may
// have between "start job" and "complete job".
package sessions

import (
	"context"
	"errors"

	"worktracker.service/internal/core/model"
)

// ErrExists is returned by Start when the worker already has an active session.
var ErrExists = errors.New("active session already exists")

// Store holds active sessions keyed by worker name.
type Store interface {
	// Start records s unless the worker already has one.
	Start(ctx context.Context, s model.ActiveSession) error
	// Get returns nil, nil when the worker has no active session.
	Get(ctx context.Context, workerName string) (*model.ActiveSession, error)
	Clear(ctx context.Context, workerName string) error
}
