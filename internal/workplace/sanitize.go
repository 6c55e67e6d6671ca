package workplace

import (
	"sort"
	"time"

	"github.com/goldenloop/workplace/internal/types"
)

// Sanitization is the idempotent repair pass run at load time and after every
// mutation. It takes a possibly stale or partial record (older schema, hand
// edited blob, interrupted write) and returns it to full invariant
// compliance. It never fails; it fixes. The returned flag reports whether
// anything had to change so the caller can decide to persist the repair.

// SanitizeState repairs every company and the install-wide active pointers.
func SanitizeState(s *types.WorkplaceState, now time.Time) bool {
	mutated := false
	if s.Companies == nil {
		s.Companies = []types.Company{}
		mutated = true
	}
	for i := range s.Companies {
		if sanitizeCompany(&s.Companies[i], now) {
			mutated = true
		}
	}
	active := findCompany(s, s.ActiveCompanyId)
	if active == nil {
		prev := s.ActiveCompanyId
		if len(s.Companies) > 0 {
			s.ActiveCompanyId = s.Companies[0].Id
			active = &s.Companies[0]
		} else {
			s.ActiveCompanyId = ""
		}
		if s.ActiveCompanyId != prev {
			mutated = true
		}
	}
	wantEmployee := ""
	if active != nil {
		wantEmployee = active.ActiveEmployeeId
	}
	if s.ActiveEmployeeId != wantEmployee {
		s.ActiveEmployeeId = wantEmployee
		mutated = true
	}
	return mutated
}

func sanitizeCompany(c *types.Company, now time.Time) bool {
	mutated := ensureCollections(c)

	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
		mutated = true
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
		mutated = true
	}

	for i := range c.Employees {
		e := &c.Employees[i]
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
			mutated = true
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = now
			mutated = true
		}
	}

	// A company always has a usable status pipeline.
	if len(c.ActionStatuses) == 0 {
		c.ActionStatuses = DefaultActionStatuses(now)
		mutated = true
	}

	if sanitizeDepartments(c, now) {
		mutated = true
	}
	if sanitizeTeams(c, now) {
		mutated = true
	}
	if sanitizeActionItems(c, now) {
		mutated = true
	}
	if sanitizeShifts(c) {
		mutated = true
	}
	if sanitizeExecutive(c) {
		mutated = true
	}

	resolved := resolveActiveEmployeeId(c)
	if c.ActiveEmployeeId != resolved {
		c.ActiveEmployeeId = resolved
		mutated = true
	}

	if sanitizeWorkday(c) {
		mutated = true
	}
	return mutated
}

func ensureCollections(c *types.Company) bool {
	mutated := false
	if c.Employees == nil {
		c.Employees = []types.Employee{}
		mutated = true
	}
	if c.Departments == nil {
		c.Departments = []types.Department{}
		mutated = true
	}
	if c.Teams == nil {
		c.Teams = []types.Team{}
		mutated = true
	}
	if c.ActionItems == nil {
		c.ActionItems = []types.ActionItem{}
		mutated = true
	}
	if c.ActionStatuses == nil {
		c.ActionStatuses = []types.ActionStatus{}
		mutated = true
	}
	if c.ActionRelations == nil {
		c.ActionRelations = []types.ActionRelation{}
		mutated = true
	}
	if c.Shifts == nil {
		c.Shifts = []types.Shift{}
		mutated = true
	}
	return mutated
}

func sanitizeDepartments(c *types.Company, now time.Time) bool {
	mutated := false
	for i := range c.Departments {
		d := &c.Departments[i]
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
			mutated = true
		}
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = now
			mutated = true
		}
		// Blobs persisted before link history carried a flat teamIds array.
		if len(d.TeamLinks) == 0 && len(d.TeamIds) > 0 {
			for _, teamId := range d.TeamIds {
				d.TeamLinks = append(d.TeamLinks, types.TeamLink{TeamId: teamId, LinkedAt: d.CreatedAt})
			}
			mutated = true
		}
		if d.TeamLinks == nil {
			d.TeamLinks = []types.TeamLink{}
			mutated = true
		}
		// Links to teams that no longer exist are closed, not erased.
		for j := range d.TeamLinks {
			link := &d.TeamLinks[j]
			if link.UnlinkedAt == nil && findTeam(c, link.TeamId) == nil {
				ts := now
				link.UnlinkedAt = &ts
				mutated = true
			}
		}
		before := d.TeamIds
		recomputeTeamIds(d)
		if !sameStrings(before, d.TeamIds) {
			mutated = true
		}
	}
	return mutated
}

func sanitizeTeams(c *types.Company, now time.Time) bool {
	mutated := false
	for i := range c.Teams {
		t := &c.Teams[i]
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
			mutated = true
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = now
			mutated = true
		}
		if len(t.Memberships) == 0 && len(t.EmployeeIds) > 0 {
			for _, employeeId := range t.EmployeeIds {
				t.Memberships = append(t.Memberships, types.TeamMembership{EmployeeId: employeeId, AddedAt: t.CreatedAt})
			}
			mutated = true
		}
		if t.Memberships == nil {
			t.Memberships = []types.TeamMembership{}
			mutated = true
		}
		// Open memberships must reference active employees.
		for j := range t.Memberships {
			m := &t.Memberships[j]
			if m.RemovedAt != nil {
				continue
			}
			e := findEmployee(c, m.EmployeeId)
			if e == nil || e.DeletedAt != nil {
				ts := now
				m.RemovedAt = &ts
				mutated = true
			}
		}
		before := t.EmployeeIds
		recomputeEmployeeIds(t)
		if !sameStrings(before, t.EmployeeIds) {
			mutated = true
		}
	}
	return mutated
}

func sanitizeActionItems(c *types.Company, now time.Time) bool {
	mutated := false
	for i := range c.ActionItems {
		item := &c.ActionItems[i]
		if item.CompanyId != c.Id {
			item.CompanyId = c.Id
			mutated = true
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
			mutated = true
		}
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = now
			mutated = true
		}
		if item.Kind != types.ActionKindGoal && item.Kind != types.ActionKindProject && item.Kind != types.ActionKindTask {
			item.Kind = types.ActionKindTask
			mutated = true
		}
		if findStatus(c, item.StatusId) == nil {
			item.StatusId = lowestOrderStatus(c.ActionStatuses).Id
			mutated = true
		}
		// Owners may be archived, but never dangling.
		if item.OwnerEmployeeId != "" && findEmployee(c, item.OwnerEmployeeId) == nil {
			item.OwnerEmployeeId = ""
			mutated = true
		}
	}
	// Relations must join two existing items.
	kept := c.ActionRelations[:0]
	for _, rel := range c.ActionRelations {
		if findActionItem(c, rel.SourceId) != nil && findActionItem(c, rel.TargetId) != nil {
			kept = append(kept, rel)
		} else {
			mutated = true
		}
	}
	c.ActionRelations = kept
	return mutated
}

// sanitizeShifts prunes shifts whose employee is gone or archived, repairs
// recurrence intervals, and keeps the list sorted by start time.
func sanitizeShifts(c *types.Company) bool {
	mutated := false
	kept := c.Shifts[:0]
	for _, shift := range c.Shifts {
		e := findEmployee(c, shift.EmployeeId)
		if e == nil || e.DeletedAt != nil {
			mutated = true
			continue
		}
		if shift.Recurrence != nil && shift.Recurrence.Interval < 1 {
			shift.Recurrence.Interval = 1
			mutated = true
		}
		kept = append(kept, shift)
	}
	c.Shifts = kept
	if !sort.SliceIsSorted(c.Shifts, func(i, j int) bool {
		return c.Shifts[i].Start.Before(c.Shifts[j].Start)
	}) {
		sort.SliceStable(c.Shifts, func(i, j int) bool {
			return c.Shifts[i].Start.Before(c.Shifts[j].Start)
		})
		mutated = true
	}
	return mutated
}

// sanitizeExecutive enforces the single-executive invariant: at most one
// employee flagged, and ExecutiveManagerId referencing a non-archived
// employee whenever one exists.
func sanitizeExecutive(c *types.Company) bool {
	mutated := false
	exec := findEmployee(c, c.ExecutiveManagerId)
	if exec == nil || exec.DeletedAt != nil {
		exec = nil
		for i := range c.Employees {
			e := &c.Employees[i]
			if e.IsExecutiveManager && e.DeletedAt == nil {
				exec = e
				break
			}
		}
		if exec == nil {
			exec = firstActiveEmployee(c)
		}
		next := ""
		if exec != nil {
			next = exec.Id
		}
		if c.ExecutiveManagerId != next {
			c.ExecutiveManagerId = next
			mutated = true
		}
	}
	for i := range c.Employees {
		e := &c.Employees[i]
		want := exec != nil && e.Id == exec.Id
		if e.IsExecutiveManager != want {
			e.IsExecutiveManager = want
			mutated = true
		}
	}
	return mutated
}

// sanitizeWorkday drops roster entries and schedules for employees that are
// archived or gone, and normalizes the status machine.
func sanitizeWorkday(c *types.Company) bool {
	mutated := false
	w := &c.Workday
	switch w.Status {
	case types.WorkdayIdle, types.WorkdayActive, types.WorkdayPaused:
	default:
		w.Status = types.WorkdayIdle
		mutated = true
	}

	filter := func(ids []string) []string {
		kept := ids[:0]
		for _, id := range ids {
			e := findEmployee(c, id)
			if e != nil && e.DeletedAt == nil {
				kept = append(kept, id)
			} else {
				mutated = true
			}
		}
		return kept
	}
	if w.ActiveEmployeeIds == nil {
		w.ActiveEmployeeIds = []string{}
		mutated = true
	}
	if w.BypassedEmployeeIds == nil {
		w.BypassedEmployeeIds = []string{}
		mutated = true
	}
	w.ActiveEmployeeIds = filter(w.ActiveEmployeeIds)
	w.BypassedEmployeeIds = filter(w.BypassedEmployeeIds)

	// Only an active workday carries an active roster.
	if w.Status != types.WorkdayActive && len(w.ActiveEmployeeIds) > 0 {
		w.ActiveEmployeeIds = []string{}
		mutated = true
	}

	if w.EmployeeSchedules == nil {
		w.EmployeeSchedules = []types.EmployeeSchedule{}
		mutated = true
	}
	keptSchedules := w.EmployeeSchedules[:0]
	for _, sched := range w.EmployeeSchedules {
		e := findEmployee(c, sched.EmployeeId)
		if e == nil || e.DeletedAt != nil {
			mutated = true
			continue
		}
		switch sched.Availability {
		case types.AvailabilityAvailable, types.AvailabilityFlexible, types.AvailabilityOnCall, types.AvailabilitySuspended:
		default:
			sched.Availability = types.AvailabilityAvailable
			mutated = true
		}
		keptSchedules = append(keptSchedules, sched)
	}
	w.EmployeeSchedules = keptSchedules
	return mutated
}

// resolveActiveEmployeeId is the single source of truth for which employee
// acts for a company: the recorded active employee if still valid, else the
// executive manager by id, else the flagged executive, else the first
// non-archived employee, else nobody.
func resolveActiveEmployeeId(c *types.Company) string {
	if e := findEmployee(c, c.ActiveEmployeeId); e != nil && e.DeletedAt == nil {
		return e.Id
	}
	if e := findEmployee(c, c.ExecutiveManagerId); e != nil && e.DeletedAt == nil {
		return e.Id
	}
	for i := range c.Employees {
		e := &c.Employees[i]
		if e.IsExecutiveManager && e.DeletedAt == nil {
			return e.Id
		}
	}
	if e := firstActiveEmployee(c); e != nil {
		return e.Id
	}
	return ""
}

// ---- lookups -------------------------------------------------------------

func findCompany(s *types.WorkplaceState, id string) *types.Company {
	if id == "" {
		return nil
	}
	for i := range s.Companies {
		if s.Companies[i].Id == id {
			return &s.Companies[i]
		}
	}
	return nil
}

func findEmployee(c *types.Company, id string) *types.Employee {
	if id == "" {
		return nil
	}
	for i := range c.Employees {
		if c.Employees[i].Id == id {
			return &c.Employees[i]
		}
	}
	return nil
}

func firstActiveEmployee(c *types.Company) *types.Employee {
	for i := range c.Employees {
		if c.Employees[i].DeletedAt == nil {
			return &c.Employees[i]
		}
	}
	return nil
}

func findDepartment(c *types.Company, id string) *types.Department {
	if id == "" {
		return nil
	}
	for i := range c.Departments {
		if c.Departments[i].Id == id {
			return &c.Departments[i]
		}
	}
	return nil
}

func findTeam(c *types.Company, id string) *types.Team {
	if id == "" {
		return nil
	}
	for i := range c.Teams {
		if c.Teams[i].Id == id {
			return &c.Teams[i]
		}
	}
	return nil
}

func findStatus(c *types.Company, id string) *types.ActionStatus {
	if id == "" {
		return nil
	}
	for i := range c.ActionStatuses {
		if c.ActionStatuses[i].Id == id {
			return &c.ActionStatuses[i]
		}
	}
	return nil
}

func findActionItem(c *types.Company, id string) *types.ActionItem {
	if id == "" {
		return nil
	}
	for i := range c.ActionItems {
		if c.ActionItems[i].Id == id {
			return &c.ActionItems[i]
		}
	}
	return nil
}

func findShift(c *types.Company, id string) *types.Shift {
	if id == "" {
		return nil
	}
	for i := range c.Shifts {
		if c.Shifts[i].Id == id {
			return &c.Shifts[i]
		}
	}
	return nil
}

func lowestOrderStatus(statuses []types.ActionStatus) *types.ActionStatus {
	best := &statuses[0]
	for i := range statuses {
		if statuses[i].Order < best.Order {
			best = &statuses[i]
		}
	}
	return best
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
