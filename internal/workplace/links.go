package workplace

import (
	"time"

	"github.com/goldenloop/workplace/internal/types"
)

// Link history maintenance. Relationships are kept as append-only open/close
// event logs, never as destructively overwritten sets: closing stamps the
// entry, re-adding reopens the most recent closed entry for the same pair.
// The convenience id slices on Team and Department are projections of the
// open entries and are recomputed here after every mutation.

// attachTeamToDepartment moves a team's live department link to the target
// department. All other departments holding an open link for the team get it
// closed. Returns true when anything changed.
func attachTeamToDepartment(c *types.Company, teamId, departmentId string, now time.Time) bool {
	changed := false
	for i := range c.Departments {
		d := &c.Departments[i]
		if d.Id == departmentId {
			if openTeamLink(d, teamId) == nil {
				reopenOrAppendTeamLink(d, teamId, now)
				recomputeTeamIds(d)
				d.UpdatedAt = now
				changed = true
			}
			continue
		}
		if closeTeamLink(d, teamId, now) {
			recomputeTeamIds(d)
			d.UpdatedAt = now
			changed = true
		}
	}
	return changed
}

// detachTeamFromDepartment closes the team's open link in the named
// department only. Returns true when a link was actually closed.
func detachTeamFromDepartment(d *types.Department, teamId string, now time.Time) bool {
	if !closeTeamLink(d, teamId, now) {
		return false
	}
	recomputeTeamIds(d)
	d.UpdatedAt = now
	return true
}

func openTeamLink(d *types.Department, teamId string) *types.TeamLink {
	for i := range d.TeamLinks {
		if d.TeamLinks[i].TeamId == teamId && d.TeamLinks[i].UnlinkedAt == nil {
			return &d.TeamLinks[i]
		}
	}
	return nil
}

// reopenOrAppendTeamLink reuses the most recent closed entry for the team,
// preserving history, and appends only when the team was never linked.
func reopenOrAppendTeamLink(d *types.Department, teamId string, now time.Time) {
	for i := len(d.TeamLinks) - 1; i >= 0; i-- {
		link := &d.TeamLinks[i]
		if link.TeamId == teamId && link.UnlinkedAt != nil {
			link.LinkedAt = now
			link.UnlinkedAt = nil
			return
		}
	}
	d.TeamLinks = append(d.TeamLinks, types.TeamLink{TeamId: teamId, LinkedAt: now})
}

func closeTeamLink(d *types.Department, teamId string, now time.Time) bool {
	closed := false
	for i := range d.TeamLinks {
		link := &d.TeamLinks[i]
		if link.TeamId == teamId && link.UnlinkedAt == nil {
			t := now
			link.UnlinkedAt = &t
			closed = true
		}
	}
	return closed
}

func recomputeTeamIds(d *types.Department) {
	ids := make([]string, 0, len(d.TeamLinks))
	for _, link := range d.TeamLinks {
		if link.UnlinkedAt == nil {
			ids = append(ids, link.TeamId)
		}
	}
	d.TeamIds = ids
}

// addEmployeeToTeam opens a membership for the employee, reusing the most
// recent closed entry when one exists. Returns false when the employee is
// already an open member.
func addEmployeeToTeam(t *types.Team, employeeId string, now time.Time) bool {
	if openMembership(t, employeeId) != nil {
		return false
	}
	for i := len(t.Memberships) - 1; i >= 0; i-- {
		m := &t.Memberships[i]
		if m.EmployeeId == employeeId && m.RemovedAt != nil {
			m.AddedAt = now
			m.RemovedAt = nil
			recomputeEmployeeIds(t)
			t.UpdatedAt = now
			return true
		}
	}
	t.Memberships = append(t.Memberships, types.TeamMembership{EmployeeId: employeeId, AddedAt: now})
	recomputeEmployeeIds(t)
	t.UpdatedAt = now
	return true
}

// removeEmployeeFromTeam closes the employee's open membership. The history
// row stays. Returns false when there was nothing open to close.
func removeEmployeeFromTeam(t *types.Team, employeeId string, now time.Time) bool {
	closed := false
	for i := range t.Memberships {
		m := &t.Memberships[i]
		if m.EmployeeId == employeeId && m.RemovedAt == nil {
			ts := now
			m.RemovedAt = &ts
			closed = true
		}
	}
	if closed {
		recomputeEmployeeIds(t)
		t.UpdatedAt = now
	}
	return closed
}

func openMembership(t *types.Team, employeeId string) *types.TeamMembership {
	for i := range t.Memberships {
		if t.Memberships[i].EmployeeId == employeeId && t.Memberships[i].RemovedAt == nil {
			return &t.Memberships[i]
		}
	}
	return nil
}

func recomputeEmployeeIds(t *types.Team) {
	ids := make([]string, 0, len(t.Memberships))
	for _, m := range t.Memberships {
		if m.RemovedAt == nil {
			ids = append(ids, m.EmployeeId)
		}
	}
	t.EmployeeIds = ids
}
