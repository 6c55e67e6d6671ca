package workplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// CreateEmployee adds an employee to the roster. Flagging the new hire as
// executive manager demotes the current one.
func (s *Service) CreateEmployee(ctx context.Context, req types.CreateEmployeeRequest) (types.WorkplaceState, error) {
	if strings.TrimSpace(req.Name) == "" {
		return types.WorkplaceState{}, fmt.Errorf("employee name is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		e := NewEmployee(req.Name, req.Role, now)
		e.Description = req.Description
		e.Personality = req.Personality
		e.MbtiType = req.MbtiType
		e.PersonalityTraits = req.PersonalityTraits
		e.ProfileImageUrl = req.ProfileImageUrl
		e.CustomAttributes = req.CustomAttributes
		e.PersonaMode = req.PersonaMode

		if req.IsExecutiveManager {
			for i := range c.Employees {
				c.Employees[i].IsExecutiveManager = false
			}
			e.IsExecutiveManager = true
			c.ExecutiveManagerId = e.Id
		}
		c.Employees = append(c.Employees, e)
		c.UpdatedAt = now
		logging.Infof("workplace: created employee %s (%s) in company %s", e.Name, e.Id, c.Id)
		return nil
	})
}

// UpdateEmployee patches an employee. The executive flag can only be granted
// here, not revoked; a company never deliberately runs without an executive.
func (s *Service) UpdateEmployee(ctx context.Context, req types.UpdateEmployeeRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		e := findEmployee(c, req.EmployeeId)
		if e == nil {
			return fmt.Errorf("employee %q: %w", req.EmployeeId, ErrNotFound)
		}
		if req.Name != nil {
			e.Name = strings.TrimSpace(*req.Name)
		}
		if req.Role != nil {
			e.Role = strings.TrimSpace(*req.Role)
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Personality != nil {
			e.Personality = *req.Personality
		}
		if req.MbtiType != nil {
			e.MbtiType = *req.MbtiType
		}
		if req.PersonalityTraits != nil {
			e.PersonalityTraits = req.PersonalityTraits
		}
		if req.ProfileImageUrl != nil {
			e.ProfileImageUrl = *req.ProfileImageUrl
		}
		if req.CustomAttributes != nil {
			e.CustomAttributes = req.CustomAttributes
		}
		if req.PersonaMode != nil {
			e.PersonaMode = *req.PersonaMode
		}
		if req.IsExecutiveManager != nil && *req.IsExecutiveManager && e.DeletedAt == nil {
			for i := range c.Employees {
				c.Employees[i].IsExecutiveManager = false
			}
			e.IsExecutiveManager = true
			c.ExecutiveManagerId = e.Id
		}
		e.UpdatedAt = now
		c.UpdatedAt = now
		return nil
	})
}

// ArchiveEmployee soft-deletes an employee and cascades: open team
// memberships are closed (history preserved), owned action items lose their
// owner, the workday roster and schedules drop them, and if they were the
// acting executive another employee is promoted. Preference: an already
// flagged non-archived employee, else the first remaining non-archived
// employee, else nobody.
func (s *Service) ArchiveEmployee(ctx context.Context, req types.ArchiveEmployeeRequest) (types.WorkplaceState, error) {
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
			return errNoChange
		}
		ts := now
		e.DeletedAt = &ts
		e.UpdatedAt = now

		for i := range c.Teams {
			removeEmployeeFromTeam(&c.Teams[i], e.Id, now)
		}
		for i := range c.ActionItems {
			item := &c.ActionItems[i]
			if item.OwnerEmployeeId == e.Id {
				item.OwnerEmployeeId = ""
				item.UpdatedAt = now
			}
		}

		if c.ExecutiveManagerId == e.Id {
			e.IsExecutiveManager = false
			successor := successorExecutive(c)
			if successor != nil {
				successor.IsExecutiveManager = true
				successor.UpdatedAt = now
				c.ExecutiveManagerId = successor.Id
				logging.Infof("workplace: employee %s archived, %s promoted to executive", e.Id, successor.Id)
			} else {
				c.ExecutiveManagerId = ""
				logging.Infof("workplace: employee %s archived, company %s has no active employees", e.Id, c.Id)
			}
		}

		if c.ActiveEmployeeId == e.Id {
			c.ActiveEmployeeId = ""
		}
		c.UpdatedAt = now
		return nil
	})
}

// successorExecutive picks the next executive after the acting one is
// archived. Another flagged non-archived employee should not normally exist,
// but wins if it does.
func successorExecutive(c *types.Company) *types.Employee {
	for i := range c.Employees {
		e := &c.Employees[i]
		if e.IsExecutiveManager && e.DeletedAt == nil {
			return e
		}
	}
	return firstActiveEmployee(c)
}

// SetActiveEmployee records which employee acts for the company.
func (s *Service) SetActiveEmployee(ctx context.Context, req types.SetActiveEmployeeRequest) (types.WorkplaceState, error) {
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
		if c.ActiveEmployeeId == e.Id {
			return errNoChange
		}
		c.ActiveEmployeeId = e.Id
		c.UpdatedAt = now
		return nil
	})
}
