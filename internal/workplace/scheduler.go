package workplace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// Scheduler turns shifts into workday activity: when a shift starts it pulls
// the employee into the company's active workday, and when it ends it
// suspends their schedule so the next default activation leaves them out.
// Wire it as the service observer so every persisted mutation reschedules.
type Scheduler struct {
	svc  *Service
	cron *cronlib.Cron

	mu      sync.Mutex
	entries []cronlib.EntryID
}

// NewScheduler creates a stopped scheduler; call Start to begin firing.
func NewScheduler(svc *Service) *Scheduler {
	return &Scheduler{
		svc:  svc,
		cron: cronlib.New(cronlib.WithLocation(time.UTC)),
	}
}

// Start begins executing scheduled shift transitions.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Reconcile rebuilds the cron entries from a state snapshot. Idempotent:
// calling it twice with the same snapshot yields the same schedule.
func (s *Scheduler) Reconcile(state types.WorkplaceState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = s.entries[:0]

	now := time.Now().UTC()
	for _, c := range state.Companies {
		for _, shift := range c.Shifts {
			if expired(shift, now) {
				continue
			}
			s.schedule(shiftSpec(shift.Start, shift.Recurrence), s.startJob(c.Id, shift))
			s.schedule(shiftSpec(shift.End, shift.Recurrence), s.endJob(c.Id, shift))
		}
	}
	logging.Infof("workplace: scheduler reconciled, %d cron entries", len(s.entries))
}

func (s *Scheduler) schedule(spec string, job func()) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		logging.Errorf("workplace: bad cron spec %q: %v", spec, err)
		return
	}
	s.entries = append(s.entries, id)
}

func (s *Scheduler) startJob(companyId string, shift types.Shift) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := s.svc.StartWorkday(ctx, types.StartWorkdayRequest{
			CompanyId:   companyId,
			EmployeeIds: []string{shift.EmployeeId},
			Reason:      "shift",
			InitiatedBy: "scheduler",
		})
		if err != nil {
			logging.Errorf("workplace: shift %s start failed: %v", shift.Id, err)
		}
	}
}

func (s *Scheduler) endJob(companyId string, shift types.Shift) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		suspended := types.AvailabilitySuspended
		_, err := s.svc.UpdateEmployeeSchedule(ctx, types.UpdateEmployeeScheduleRequest{
			CompanyId:    companyId,
			EmployeeId:   shift.EmployeeId,
			Availability: &suspended,
		})
		if err != nil {
			logging.Errorf("workplace: shift %s end failed: %v", shift.Id, err)
		}
	}
}

// expired reports whether a shift can never fire again.
func expired(shift types.Shift, now time.Time) bool {
	if shift.Recurrence == nil {
		return shift.End.Before(now)
	}
	return shift.Recurrence.Until != nil && shift.Recurrence.Until.Before(now)
}

// shiftSpec renders the cron expression for one shift boundary. A weekly
// recurrence pins the weekday list; a one-off shift pins day and month.
func shiftSpec(at time.Time, rec *types.ShiftRecurrence) string {
	at = at.UTC()
	if rec != nil && rec.Type == "weekly" {
		days := append([]int{}, rec.Weekdays...)
		sort.Ints(days)
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = fmt.Sprintf("%d", d)
		}
		return fmt.Sprintf("%d %d * * %s", at.Minute(), at.Hour(), strings.Join(parts, ","))
	}
	return fmt.Sprintf("%d %d %d %d *", at.Minute(), at.Hour(), at.Day(), int(at.Month()))
}
