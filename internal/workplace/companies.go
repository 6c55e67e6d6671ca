package workplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// CreateCompany builds a company with the default status pipeline and
// synthesizes its founding employee, flagged executive manager and made both
// executiveManagerId and activeEmployeeId. Owner profile values fall back
// request -> stored install defaults -> empty, and are optionally written
// back as the new defaults.
func (s *Service) CreateCompany(ctx context.Context, req types.CreateCompanyRequest) (types.WorkplaceState, error) {
	if strings.TrimSpace(req.Name) == "" {
		return types.WorkplaceState{}, fmt.Errorf("company name is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c := NewCompany(req.Name, now)
		c.Emoji = req.Emoji
		c.Description = req.Description
		c.Vision = req.Vision
		c.Mission = req.Mission

		switch {
		case req.OwnerProfile != nil:
			c.OwnerProfile = *req.OwnerProfile
		case st.OwnerProfileDefaults != nil:
			c.OwnerProfile = *st.OwnerProfileDefaults
		}
		if req.RememberOwnerDefaults && req.OwnerProfile != nil {
			profile := *req.OwnerProfile
			st.OwnerProfileDefaults = &profile
		}

		founder := NewEmployee(founderName(req.Name), "Executive Manager", now)
		founder.IsExecutiveManager = true
		c.Employees = append(c.Employees, founder)
		c.ExecutiveManagerId = founder.Id
		c.ActiveEmployeeId = founder.Id

		st.Companies = append(st.Companies, c)
		st.ActiveCompanyId = c.Id
		st.ActiveEmployeeId = founder.Id

		logging.Infof("workplace: created company %s (%s) with founder %s", c.Name, c.Id, founder.Id)
		return nil
	})
}

// UpdateCompany patches company text fields, the owner profile, and
// optionally reassigns the executive manager.
func (s *Service) UpdateCompany(ctx context.Context, req types.UpdateCompanyRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		if req.ExecutiveManagerId != nil {
			e := findEmployee(c, *req.ExecutiveManagerId)
			if e == nil {
				return fmt.Errorf("employee %q: %w", *req.ExecutiveManagerId, ErrNotFound)
			}
			if e.DeletedAt != nil {
				return fmt.Errorf("employee %q is archived: %w", e.Id, ErrInvalidState)
			}
			c.ExecutiveManagerId = e.Id
			for i := range c.Employees {
				c.Employees[i].IsExecutiveManager = c.Employees[i].Id == e.Id
			}
		}
		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.Emoji != nil {
			c.Emoji = *req.Emoji
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.Vision != nil {
			c.Vision = *req.Vision
		}
		if req.Mission != nil {
			c.Mission = *req.Mission
		}
		if req.OwnerProfile != nil {
			c.OwnerProfile = *req.OwnerProfile
		}
		c.UpdatedAt = now
		logging.Infof("workplace: updated company %s", c.Id)
		return nil
	})
}

// SetActiveCompany switches the install-wide active company and re-resolves
// the active employee from it.
func (s *Service) SetActiveCompany(ctx context.Context, req types.SetActiveCompanyRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		if st.ActiveCompanyId == c.Id {
			return errNoChange
		}
		st.ActiveCompanyId = c.Id
		st.ActiveEmployeeId = resolveActiveEmployeeId(c)
		logging.Infof("workplace: active company is now %s", c.Id)
		return nil
	})
}

// DeleteCompany removes a company outright. When it was the active company,
// the first remaining company (if any) takes over.
func (s *Service) DeleteCompany(ctx context.Context, req types.DeleteCompanyRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		idx := -1
		for i := range st.Companies {
			if st.Companies[i].Id == req.CompanyId {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("company %q: %w", req.CompanyId, ErrNotFound)
		}
		st.Companies = append(st.Companies[:idx], st.Companies[idx+1:]...)
		if st.ActiveCompanyId == req.CompanyId {
			st.ActiveCompanyId = ""
			st.ActiveEmployeeId = ""
		}
		logging.Infof("workplace: deleted company %s", req.CompanyId)
		return nil
	})
}

// SetCompanyFavorite toggles the favorite marker.
func (s *Service) SetCompanyFavorite(ctx context.Context, req types.SetCompanyFavoriteRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		if c.IsFavorite == req.IsFavorite {
			return errNoChange
		}
		c.IsFavorite = req.IsFavorite
		c.UpdatedAt = now
		return nil
	})
}

// SetOwnerProfileDefaults stores the install-wide owner profile used when a
// new company does not carry its own.
func (s *Service) SetOwnerProfileDefaults(ctx context.Context, req types.SetOwnerProfileDefaultsRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		profile := req.Profile
		st.OwnerProfileDefaults = &profile
		return nil
	})
}
