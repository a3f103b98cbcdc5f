package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/pkg/database"
	"worktracker.service/pkg/database/dbtest"
)

type recordingProducer struct {
	mu     sync.Mutex
	events []messaging.Event
	err    error
}

func (p *recordingProducer) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingProducer) types() []messaging.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]messaging.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type repos struct {
	jobs       *repository.JobRepo
	sessions   *repository.WorkSessionRepo
	attendance *repository.AttendanceRepo
}

func newRepos(t *testing.T) repos {
	db := dbtest.NewSQLite(t)
	return repos{
		jobs:       repository.NewJobRepository(db, database.SQLite),
		sessions:   repository.NewWorkSessionRepository(db, database.SQLite),
		attendance: repository.NewAttendanceRepository(db, database.SQLite),
	}
}

// clock is a settable time source for the services.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
