package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"worktracker.service/internal/core/model"
	"worktracker.service/internal/core/punctuality"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/pkg/metrics"
)

const DefaultRecentAttendance = 30

// AttendanceService classifies check-ins and check-outs against the work
// window in loc. The hour is read in loc, which is the household's zone and
// not necessarily the worker's.
type AttendanceService struct {
	repo     repository.AttendanceRepository
	producer messaging.EventProducer
	metrics  *metrics.Metrics
	window   punctuality.Window
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(repo repository.AttendanceRepository, producer messaging.EventProducer, m *metrics.Metrics, loc *time.Location) *AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceService{
		repo:     repo,
		producer: producer,
		metrics:  m,
		window:   punctuality.DefaultWindow,
		loc:      loc,
		now:      time.Now,
	}
}

// CheckIn records today's check-in. Checking in again before checking out
// overwrites the time and late flag; after check-out it is refused.
func (s *AttendanceService) CheckIn(ctx context.Context, worker model.Worker) (*model.AttendanceRecord, error) {
	name, err := workerName(worker)
	if err != nil {
		return nil, err
	}

	at := s.now().In(s.loc)
	day := punctuality.Day(at)

	existing, err := s.repo.GetAttendanceForWorkerAndDate(ctx, name, day)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("worker", name).Msg("failed to read attendance")
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	if existing != nil && existing.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	late := s.window.IsLateCheckIn(at)
	rec, err := s.repo.UpsertAttendanceCheckIn(ctx, name, day, at, late)
	if errors.Is(err, repository.ErrCheckedOut) {
		return nil, ErrAlreadyCheckedOut
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("worker", name).Msg("failed to save check-in")
		return nil, fmt.Errorf("save check-in: %w", err)
	}

	s.metrics.ObserveAttendance("check_in", late)
	publishEvent(ctx, s.producer, messaging.Event{
		EventType:     messaging.EventCheckIn,
		WorkerName:    name,
		OccurredAt:    at.UTC(),
		AttendanceID:  rec.ID,
		IsLateCheckIn: late,
	})

	log.Ctx(ctx).Info().Str("worker", name).Bool("late", late).Msg("checked in")
	return rec, nil
}

// CheckOut closes today's record.
func (s *AttendanceService) CheckOut(ctx context.Context, worker model.Worker) (*model.AttendanceRecord, error) {
	name, err := workerName(worker)
	if err != nil {
		return nil, err
	}

	at := s.now().In(s.loc)
	existing, err := s.repo.GetAttendanceForWorkerAndDate(ctx, name, punctuality.Day(at))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("worker", name).Msg("failed to read attendance")
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	if existing == nil || existing.CheckInTime == nil {
		return nil, ErrNotCheckedIn
	}
	if existing.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	return s.closeRecord(ctx, existing, at)
}

// AddCheckOutNow is the parent's fix for a worker who forgot to check out:
// it closes the record at the current time with a fresh early flag.
func (s *AttendanceService) AddCheckOutNow(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	existing, err := s.repo.GetAttendance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attendance %s: %w", id, err)
	}
	if existing.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}
	return s.closeRecord(ctx, existing, s.now().In(s.loc))
}

func (s *AttendanceService) closeRecord(ctx context.Context, rec *model.AttendanceRecord, at time.Time) (*model.AttendanceRecord, error) {
	early := s.window.IsEarlyCheckOut(at)
	out, err := s.repo.UpdateAttendanceCheckOut(ctx, rec.ID, at, early)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("attendance_id", rec.ID).Msg("failed to save check-out")
		return nil, fmt.Errorf("save check-out: %w", err)
	}

	s.metrics.ObserveAttendance("check_out", early)
	publishEvent(ctx, s.producer, messaging.Event{
		EventType:       messaging.EventCheckOut,
		WorkerName:      out.WorkerName,
		OccurredAt:      at.UTC(),
		AttendanceID:    out.ID,
		IsEarlyCheckOut: early,
	})

	log.Ctx(ctx).Info().Str("worker", out.WorkerName).Bool("early", early).Msg("checked out")
	return out, nil
}

// EditTimes overwrites the recorded times; a nil check-out clears it. The
// late and early flags keep the values they were given at the original event.
func (s *AttendanceService) EditTimes(ctx context.Context, id string, checkIn, checkOut *time.Time) (*model.AttendanceRecord, error) {
	if checkIn == nil && checkOut != nil {
		return nil, invalid("a check-out needs a check-in")
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return nil, invalid("check-out is before check-in")
	}

	rec, err := s.repo.UpdateAttendanceTimes(ctx, id, checkIn, checkOut)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Ctx(ctx).Error().Err(err).Str("attendance_id", id).Msg("failed to edit attendance")
		}
		return nil, fmt.Errorf("edit attendance %s: %w", id, err)
	}
	return rec, nil
}

func (s *AttendanceService) ListRecent(ctx context.Context, limit int) ([]model.AttendanceRecord, error) {
	records, err := s.repo.ListRecentAttendance(ctx, clampLimit(limit, DefaultRecentAttendance))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list attendance")
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Location is the zone punctuality is judged in.
func (s *AttendanceService) Location() *time.Location {
	return s.loc
}
