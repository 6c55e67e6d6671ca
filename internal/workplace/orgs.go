package workplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// CreateDepartment adds a department to the company.
func (s *Service) CreateDepartment(ctx context.Context, req types.CreateDepartmentRequest) (types.WorkplaceState, error) {
	if strings.TrimSpace(req.Name) == "" {
		return types.WorkplaceState{}, fmt.Errorf("department name is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		d := NewDepartment(req.Name, now)
		d.Description = req.Description
		c.Departments = append(c.Departments, d)
		c.UpdatedAt = now
		logging.Infof("workplace: created department %s (%s)", d.Name, d.Id)
		return nil
	})
}

func (s *Service) UpdateDepartment(ctx context.Context, req types.UpdateDepartmentRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		d := findDepartment(c, req.DepartmentId)
		if d == nil {
			return fmt.Errorf("department %q: %w", req.DepartmentId, ErrNotFound)
		}
		if req.Name != nil {
			d.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		d.UpdatedAt = now
		c.UpdatedAt = now
		return nil
	})
}

// ArchiveDepartment soft-deletes a department and closes all its team links.
// The teams themselves stay active; they may belong elsewhere or float.
func (s *Service) ArchiveDepartment(ctx context.Context, req types.ArchiveDepartmentRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		d := findDepartment(c, req.DepartmentId)
		if d == nil {
			return fmt.Errorf("department %q: %w", req.DepartmentId, ErrNotFound)
		}
		if d.DeletedAt != nil {
			return errNoChange
		}
		ts := now
		d.DeletedAt = &ts
		for i := range d.TeamLinks {
			link := &d.TeamLinks[i]
			if link.UnlinkedAt == nil {
				closed := now
				link.UnlinkedAt = &closed
			}
		}
		recomputeTeamIds(d)
		d.UpdatedAt = now
		c.UpdatedAt = now
		logging.Infof("workplace: archived department %s", d.Id)
		return nil
	})
}

// CreateTeam adds a team, optionally attaching it to a department.
func (s *Service) CreateTeam(ctx context.Context, req types.CreateTeamRequest) (types.WorkplaceState, error) {
	if strings.TrimSpace(req.Name) == "" {
		return types.WorkplaceState{}, fmt.Errorf("team name is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		if req.DepartmentId != "" {
			d := findDepartment(c, req.DepartmentId)
			if d == nil {
				return fmt.Errorf("department %q: %w", req.DepartmentId, ErrNotFound)
			}
			if d.DeletedAt != nil {
				return fmt.Errorf("department %q is archived: %w", d.Id, ErrInvalidState)
			}
		}
		t := NewTeam(req.Name, now)
		t.Description = req.Description
		c.Teams = append(c.Teams, t)
		if req.DepartmentId != "" {
			attachTeamToDepartment(c, t.Id, req.DepartmentId, now)
		}
		c.UpdatedAt = now
		logging.Infof("workplace: created team %s (%s)", t.Name, t.Id)
		return nil
	})
}

func (s *Service) UpdateTeam(ctx context.Context, req types.UpdateTeamRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		t := findTeam(c, req.TeamId)
		if t == nil {
			return fmt.Errorf("team %q: %w", req.TeamId, ErrNotFound)
		}
		if req.Name != nil {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		t.UpdatedAt = now
		c.UpdatedAt = now
		return nil
	})
}

// ArchiveTeam soft-deletes a team, closing all open memberships and the
// team's link in every department that holds one.
func (s *Service) ArchiveTeam(ctx context.Context, req types.ArchiveTeamRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		t := findTeam(c, req.TeamId)
		if t == nil {
			return fmt.Errorf("team %q: %w", req.TeamId, ErrNotFound)
		}
		if t.DeletedAt != nil {
			return errNoChange
		}
		ts := now
		t.DeletedAt = &ts
		for i := range t.Memberships {
			m := &t.Memberships[i]
			if m.RemovedAt == nil {
				closed := now
				m.RemovedAt = &closed
			}
		}
		recomputeEmployeeIds(t)
		for i := range c.Departments {
			detachTeamFromDepartment(&c.Departments[i], t.Id, now)
		}
		t.UpdatedAt = now
		c.UpdatedAt = now
		logging.Infof("workplace: archived team %s", t.Id)
		return nil
	})
}

// AssignTeamToDepartment moves the team's live department link. Re-assigning
// to the current department is a no-op: no duplicate history entry, no
// timestamp bump, no persist.
func (s *Service) AssignTeamToDepartment(ctx context.Context, req types.AssignTeamToDepartmentRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		t := findTeam(c, req.TeamId)
		if t == nil {
			return fmt.Errorf("team %q: %w", req.TeamId, ErrNotFound)
		}
		if t.DeletedAt != nil {
			return fmt.Errorf("team %q is archived: %w", t.Id, ErrInvalidState)
		}
		d := findDepartment(c, req.DepartmentId)
		if d == nil {
			return fmt.Errorf("department %q: %w", req.DepartmentId, ErrNotFound)
		}
		if d.DeletedAt != nil {
			return fmt.Errorf("department %q is archived: %w", d.Id, ErrInvalidState)
		}
		if !attachTeamToDepartment(c, t.Id, d.Id, now) {
			return errNoChange
		}
		c.UpdatedAt = now
		return nil
	})
}

// RemoveTeamFromDepartment closes the team's open link in one department.
func (s *Service) RemoveTeamFromDepartment(ctx context.Context, req types.RemoveTeamFromDepartmentRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		if findTeam(c, req.TeamId) == nil {
			return fmt.Errorf("team %q: %w", req.TeamId, ErrNotFound)
		}
		d := findDepartment(c, req.DepartmentId)
		if d == nil {
			return fmt.Errorf("department %q: %w", req.DepartmentId, ErrNotFound)
		}
		if !detachTeamFromDepartment(d, req.TeamId, now) {
			return errNoChange
		}
		c.UpdatedAt = now
		return nil
	})
}

// AssignEmployeeToTeam opens a membership, reusing closed history entries.
func (s *Service) AssignEmployeeToTeam(ctx context.Context, req types.AssignEmployeeToTeamRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		t := findTeam(c, req.TeamId)
		if t == nil {
			return fmt.Errorf("team %q: %w", req.TeamId, ErrNotFound)
		}
		if t.DeletedAt != nil {
			return fmt.Errorf("team %q is archived: %w", t.Id, ErrInvalidState)
		}
		e := findEmployee(c, req.EmployeeId)
		if e == nil {
			return fmt.Errorf("employee %q: %w", req.EmployeeId, ErrNotFound)
		}
		if e.DeletedAt != nil {
			return fmt.Errorf("employee %q is archived: %w", e.Id, ErrInvalidState)
		}
		if !addEmployeeToTeam(t, e.Id, now) {
			return errNoChange
		}
		c.UpdatedAt = now
		return nil
	})
}

// RemoveEmployeeFromTeam closes the employee's open membership.
func (s *Service) RemoveEmployeeFromTeam(ctx context.Context, req types.RemoveEmployeeFromTeamRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		t := findTeam(c, req.TeamId)
		if t == nil {
			return fmt.Errorf("team %q: %w", req.TeamId, ErrNotFound)
		}
		if findEmployee(c, req.EmployeeId) == nil {
			return fmt.Errorf("employee %q: %w", req.EmployeeId, ErrNotFound)
		}
		if !removeEmployeeFromTeam(t, req.EmployeeId, now) {
			return errNoChange
		}
		c.UpdatedAt = now
		return nil
	})
}
