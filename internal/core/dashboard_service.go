package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"worktracker.service/internal/core/duration"
	"worktracker.service/internal/core/model"
	"worktracker.service/internal/ports/repository"
)

// DashboardSummary is the parent's overview of the current week.
type DashboardSummary struct {
	WeekStart        time.Time                `json:"weekStart"`
	TotalMinutes     int                      `json:"totalMinutes"`
	TotalTime        string                   `json:"totalTime"`
	JobsCompleted    int                      `json:"jobsCompleted"`
	AverageMinutes   int                      `json:"averageMinutes"`
	AverageTime      string                   `json:"averageTime"`
	LateCheckIns     int                      `json:"lateCheckIns"`
	EarlyCheckOuts   int                      `json:"earlyCheckOuts"`
	RecentSessions   []model.WorkSession      `json:"recentSessions"`
	RecentAttendance []model.AttendanceRecord `json:"recentAttendance"`
}

type DashboardService struct {
	sessions   repository.WorkSessionRepository
	attendance repository.AttendanceRepository
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(sessions repository.WorkSessionRepository, attendance repository.AttendanceRepository, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{sessions: sessions, attendance: attendance, loc: loc, now: time.Now}
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	weekStart := WeekStart(s.now().In(s.loc))

	week, err := s.sessions.ListWorkSessionsSince(ctx, weekStart)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list this week's sessions")
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	recent, err := s.sessions.ListRecentWorkSessions(ctx, DefaultRecentSessions)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list recent sessions")
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	attendance, err := s.attendance.ListRecentAttendance(ctx, DefaultRecentAttendance)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list attendance")
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	sum := &DashboardSummary{
		WeekStart:        weekStart,
		JobsCompleted:    len(week),
		RecentSessions:   recent,
		RecentAttendance: attendance,
	}
	for _, ws := range week {
		sum.TotalMinutes += ws.Duration
	}
	if sum.JobsCompleted > 0 {
		sum.AverageMinutes = (sum.TotalMinutes + sum.JobsCompleted/2) / sum.JobsCompleted
	}
	for _, a := range attendance {
		if a.IsLateCheckIn {
			sum.LateCheckIns++
		}
		if a.IsEarlyCheckOut {
			sum.EarlyCheckOuts++
		}
	}
	sum.TotalTime = duration.FormatMinutes(sum.TotalMinutes)
	sum.AverageTime = duration.FormatMinutes(sum.AverageMinutes)
	return sum, nil
}
