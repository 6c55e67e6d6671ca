package workplace

import (
	"context"
	"fmt"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// StartWorkday activates the company: resolves the effective active-employee
// set, stamps startedAt, and, when auto-start is on, cascades into starting
// every active employee's non-terminal action items. Explicitly requested
// employees participate regardless of availability; only archival filters an
// explicit selection. Flexible employees are always on.
func (s *Service) StartWorkday(ctx context.Context, req types.StartWorkdayRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		w := &c.Workday
		if req.AutoStartActionItems != nil {
			w.AutoStartActionItems = *req.AutoStartActionItems
		}

		active, bypassed := resolveWorkdayRoster(c, req.EmployeeIds)
		w.Status = types.WorkdayActive
		ts := now
		w.StartedAt = &ts
		w.HaltedAt = nil
		w.ActiveEmployeeIds = active
		w.BypassedEmployeeIds = bypassed
		w.LastActivationReason = req.Reason

		if w.AutoStartActionItems {
			for _, employeeId := range active {
				if err := startActionItems(c, types.StartActionItemsRequest{
					CompanyId:   c.Id,
					Scope:       "employee",
					EmployeeId:  employeeId,
					InitiatedBy: req.InitiatedBy,
				}, now); err != nil {
					return err
				}
			}
		}
		c.UpdatedAt = now
		logging.Infof("workplace: workday started for company %s (%d active, %d bypassed)", c.Id, len(active), len(bypassed))
		return nil
	})
}

// resolveWorkdayRoster computes the effective active set and the bypassed
// list. Without an explicit selection the default roster is everyone whose
// schedule availability is available or flexible. Flexible employees join
// even an explicit selection that omits them. Bypassed lists suspended and
// on-call employees that were not explicitly requested.
func resolveWorkdayRoster(c *types.Company, explicit []string) (active, bypassed []string) {
	requested := map[string]bool{}
	for _, id := range explicit {
		requested[id] = true
	}

	avail := func(e *types.Employee) types.Availability {
		for _, sched := range c.Workday.EmployeeSchedules {
			if sched.EmployeeId == e.Id {
				return sched.Availability
			}
		}
		return types.AvailabilityAvailable
	}

	active = []string{}
	bypassed = []string{}
	for i := range c.Employees {
		e := &c.Employees[i]
		if e.DeletedAt != nil {
			continue
		}
		a := avail(e)
		switch {
		case a == types.AvailabilityFlexible:
			active = append(active, e.Id)
		case len(explicit) > 0:
			if requested[e.Id] {
				active = append(active, e.Id)
			} else if a == types.AvailabilitySuspended || a == types.AvailabilityOnCall {
				bypassed = append(bypassed, e.Id)
			}
		default:
			if a == types.AvailabilityAvailable {
				active = append(active, e.Id)
			} else {
				bypassed = append(bypassed, e.Id)
			}
		}
	}
	return active, bypassed
}

// HaltWorkday pauses the company, optionally suspending everyone that was
// active so the next default start leaves them out.
func (s *Service) HaltWorkday(ctx context.Context, req types.HaltWorkdayRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		w := &c.Workday
		if w.Status != types.WorkdayActive {
			return fmt.Errorf("workday for company %q is not active: %w", c.Id, ErrInvalidState)
		}
		wasActive := append([]string{}, w.ActiveEmployeeIds...)
		if req.SuspendActiveEmployees {
			for _, employeeId := range wasActive {
				upsertSchedule(w, employeeId).Availability = types.AvailabilitySuspended
			}
		}
		w.Status = types.WorkdayPaused
		ts := now
		w.HaltedAt = &ts
		w.ActiveEmployeeIds = []string{}
		w.LastActivationReason = req.Reason
		c.UpdatedAt = now
		logging.Infof("workplace: workday halted for company %s (%d were active)", c.Id, len(wasActive))
		return nil
	})
}

// upsertSchedule finds or creates the schedule entry for an employee.
func upsertSchedule(w *types.WorkdayState, employeeId string) *types.EmployeeSchedule {
	for i := range w.EmployeeSchedules {
		if w.EmployeeSchedules[i].EmployeeId == employeeId {
			return &w.EmployeeSchedules[i]
		}
	}
	w.EmployeeSchedules = append(w.EmployeeSchedules, types.EmployeeSchedule{
		EmployeeId:   employeeId,
		Availability: types.AvailabilityAvailable,
	})
	return &w.EmployeeSchedules[len(w.EmployeeSchedules)-1]
}

// UpdateEmployeeSchedule upserts one employee's workday schedule entry.
func (s *Service) UpdateEmployeeSchedule(ctx context.Context, req types.UpdateEmployeeScheduleRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		e := findEmployee(c, req.EmployeeId)
		if e == nil {
			return fmt.Errorf("employee %q: %w", req.EmployeeId, ErrNotFound)
		}
		if e.DeletedAt != nil {
			return fmt.Errorf("employee %q is archived: %w", e.Id, ErrInvalidState)
		}
		sched := upsertSchedule(&c.Workday, e.Id)
		if req.Availability != nil {
			switch *req.Availability {
			case types.AvailabilityAvailable, types.AvailabilityFlexible, types.AvailabilityOnCall, types.AvailabilitySuspended:
			default:
				return fmt.Errorf("unknown availability %q: %w", *req.Availability, ErrValidation)
			}
			sched.Availability = *req.Availability
		}
		if req.Timezone != nil {
			sched.Timezone = *req.Timezone
		}
		if req.WeeklyHoursTarget != nil {
			sched.WeeklyHoursTarget = *req.WeeklyHoursTarget
		}
		if req.Workdays != nil {
			sched.Workdays = req.Workdays
		}
		if req.DailyStartMinute != nil {
			sched.DailyStartMinute = *req.DailyStartMinute
		}
		if req.DailyEndMinute != nil {
			sched.DailyEndMinute = *req.DailyEndMinute
		}
		c.UpdatedAt = now
		return nil
	})
}

func validateShiftWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("shift start and end are required: %w", ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("shift end must be after start: %w", ErrValidation)
	}
	return nil
}

func validateRecurrence(rec *types.ShiftRecurrence) error {
	if rec == nil {
		return nil
	}
	if rec.Type != "weekly" {
		return fmt.Errorf("unknown recurrence type %q: %w", rec.Type, ErrValidation)
	}
	if rec.Interval < 1 {
		return fmt.Errorf("recurrence interval must be at least 1: %w", ErrValidation)
	}
	if len(rec.Weekdays) == 0 {
		return fmt.Errorf("weekly recurrence requires weekdays: %w", ErrValidation)
	}
	for _, day := range rec.Weekdays {
		if day < 0 || day > 6 {
			return fmt.Errorf("weekday %d out of range: %w", day, ErrValidation)
		}
	}
	return nil
}

// CreateShift schedules a work window for a non-archived employee.
func (s *Service) CreateShift(ctx context.Context, req types.CreateShiftRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		e := findEmployee(c, req.EmployeeId)
		if e == nil {
			return fmt.Errorf("employee %q: %w", req.EmployeeId, ErrNotFound)
		}
		if e.DeletedAt != nil {
			return fmt.Errorf("employee %q is archived: %w", e.Id, ErrInvalidState)
		}
		if err := validateShiftWindow(req.Start, req.End); err != nil {
			return err
		}
		if err := validateRecurrence(req.Recurrence); err != nil {
			return err
		}
		c.Shifts = append(c.Shifts, types.Shift{
			Id:         newId(),
			CompanyId:  c.Id,
			EmployeeId: e.Id,
			Name:       req.Name,
			Start:      req.Start,
			End:        req.End,
			Recurrence: req.Recurrence,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		c.UpdatedAt = now
		logging.Infof("workplace: created shift for employee %s in company %s", e.Id, c.Id)
		return nil
	})
}

// UpdateShift patches a shift, revalidating the window and the employee.
func (s *Service) UpdateShift(ctx context.Context, req types.UpdateShiftRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		shift := findShift(c, req.ShiftId)
		if shift == nil {
			return fmt.Errorf("shift %q: %w", req.ShiftId, ErrNotFound)
		}
		if req.EmployeeId != nil {
			e := findEmployee(c, *req.EmployeeId)
			if e == nil {
				return fmt.Errorf("employee %q: %w", *req.EmployeeId, ErrNotFound)
			}
			if e.DeletedAt != nil {
				return fmt.Errorf("employee %q is archived: %w", e.Id, ErrInvalidState)
			}
			shift.EmployeeId = e.Id
		}
		start := shift.Start
		end := shift.End
		if req.Start != nil {
			start = *req.Start
		}
		if req.End != nil {
			end = *req.End
		}
		if err := validateShiftWindow(start, end); err != nil {
			return err
		}
		if req.Recurrence != nil {
			if err := validateRecurrence(req.Recurrence); err != nil {
				return err
			}
			shift.Recurrence = req.Recurrence
		}
		if req.ClearRecurrence {
			shift.Recurrence = nil
		}
		shift.Start = start
		shift.End = end
		if req.Name != nil {
			shift.Name = *req.Name
		}
		shift.UpdatedAt = now
		c.UpdatedAt = now
		return nil
	})
}

// DeleteShift removes a shift.
func (s *Service) DeleteShift(ctx context.Context, req types.DeleteShiftRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		idx := -1
		for i := range c.Shifts {
			if c.Shifts[i].Id == req.ShiftId {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("shift %q: %w", req.ShiftId, ErrNotFound)
		}
		c.Shifts = append(c.Shifts[:idx], c.Shifts[idx+1:]...)
		c.UpdatedAt = now
		return nil
	})
}
