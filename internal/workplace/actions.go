package workplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// CreateActionItem records a unit of work. The owner may be any employee of
// the company, archived included; the status defaults to the lowest-order
// status when none is given.
func (s *Service) CreateActionItem(ctx context.Context, req types.CreateActionItemRequest) (types.WorkplaceState, error) {
	if strings.TrimSpace(req.Title) == "" {
		return types.WorkplaceState{}, fmt.Errorf("action item title is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		statusId := req.StatusId
		if statusId == "" {
			statusId = lowestOrderStatus(c.ActionStatuses).Id
		} else if findStatus(c, statusId) == nil {
			return fmt.Errorf("status %q not recognized for company %q: %w", statusId, c.Id, ErrInvalidState)
		}
		if req.OwnerEmployeeId != "" && findEmployee(c, req.OwnerEmployeeId) == nil {
			return fmt.Errorf("employee %q: %w", req.OwnerEmployeeId, ErrNotFound)
		}
		kind := req.Kind
		if kind == "" {
			kind = types.ActionKindTask
		}
		item := types.ActionItem{
			Id:               newId(),
			CompanyId:        c.Id,
			Title:            strings.TrimSpace(req.Title),
			Kind:             kind,
			StatusId:         statusId,
			Description:      req.Description,
			OwnerEmployeeId:  req.OwnerEmployeeId,
			DueAt:            req.DueAt,
			Priority:         req.Priority,
			CustomProperties: req.CustomProperties,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		c.ActionItems = append(c.ActionItems, item)
		c.UpdatedAt = now
		logging.Infof("workplace: created %s %q (%s)", item.Kind, item.Title, item.Id)
		return nil
	})
}

// UpdateActionItem patches an action item.
func (s *Service) UpdateActionItem(ctx context.Context, req types.UpdateActionItemRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		item := findActionItem(c, req.ActionItemId)
		if item == nil {
			return fmt.Errorf("action item %q: %w", req.ActionItemId, ErrNotFound)
		}
		if req.StatusId != nil {
			if findStatus(c, *req.StatusId) == nil {
				return fmt.Errorf("status %q not recognized for company %q: %w", *req.StatusId, c.Id, ErrInvalidState)
			}
			item.StatusId = *req.StatusId
		}
		if req.OwnerEmployeeId != nil {
			if *req.OwnerEmployeeId != "" && findEmployee(c, *req.OwnerEmployeeId) == nil {
				return fmt.Errorf("employee %q: %w", *req.OwnerEmployeeId, ErrNotFound)
			}
			item.OwnerEmployeeId = *req.OwnerEmployeeId
		}
		if req.Title != nil {
			item.Title = strings.TrimSpace(*req.Title)
		}
		if req.Kind != nil {
			item.Kind = *req.Kind
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.DueAt != nil {
			item.DueAt = req.DueAt
		}
		if req.ClearDueAt {
			item.DueAt = nil
		}
		if req.Priority != nil {
			item.Priority = *req.Priority
		}
		if req.CustomProperties != nil {
			item.CustomProperties = req.CustomProperties
		}
		item.UpdatedAt = now
		c.UpdatedAt = now
		return nil
	})
}

// DeleteActionItem removes an item and every relation touching it.
func (s *Service) DeleteActionItem(ctx context.Context, req types.DeleteActionItemRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		idx := -1
		for i := range c.ActionItems {
			if c.ActionItems[i].Id == req.ActionItemId {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("action item %q: %w", req.ActionItemId, ErrNotFound)
		}
		c.ActionItems = append(c.ActionItems[:idx], c.ActionItems[idx+1:]...)

		keptRelations := c.ActionRelations[:0]
		removedRelationIds := map[string]bool{}
		for _, rel := range c.ActionRelations {
			if rel.SourceId == req.ActionItemId || rel.TargetId == req.ActionItemId {
				removedRelationIds[rel.Id] = true
				continue
			}
			keptRelations = append(keptRelations, rel)
		}
		c.ActionRelations = keptRelations
		for i := range c.ActionItems {
			item := &c.ActionItems[i]
			kept := item.RelationIds[:0]
			for _, relId := range item.RelationIds {
				if !removedRelationIds[relId] {
					kept = append(kept, relId)
				}
			}
			item.RelationIds = kept
		}
		c.UpdatedAt = now
		logging.Infof("workplace: deleted action item %s", req.ActionItemId)
		return nil
	})
}

// StartActionItems advances the scoped items into the in-progress status and
// records who started them. Items already in a terminal status are left
// alone so replaying a workday start never reopens finished work.
func (s *Service) StartActionItems(ctx context.Context, req types.StartActionItemsRequest) (types.WorkplaceState, error) {
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		return startActionItems(c, req, now)
	})
}

func startActionItems(c *types.Company, req types.StartActionItemsRequest, now time.Time) error {
	var targets []*types.ActionItem
	switch req.Scope {
	case "company":
		for i := range c.ActionItems {
			if c.ActionItems[i].OwnerEmployeeId != "" {
				targets = append(targets, &c.ActionItems[i])
			}
		}
	case "employee":
		if req.EmployeeId == "" {
			return fmt.Errorf("employee scope requires employeeId: %w", ErrValidation)
		}
		if findEmployee(c, req.EmployeeId) == nil {
			return fmt.Errorf("employee %q: %w", req.EmployeeId, ErrNotFound)
		}
		for i := range c.ActionItems {
			if c.ActionItems[i].OwnerEmployeeId == req.EmployeeId {
				targets = append(targets, &c.ActionItems[i])
			}
		}
	case "selection":
		if len(req.ActionItemIds) == 0 {
			return fmt.Errorf("selection scope requires actionItemIds: %w", ErrValidation)
		}
		for _, id := range req.ActionItemIds {
			item := findActionItem(c, id)
			if item == nil {
				return fmt.Errorf("action item %q: %w", id, ErrNotFound)
			}
			targets = append(targets, item)
		}
	default:
		return fmt.Errorf("unknown start scope %q: %w", req.Scope, ErrValidation)
	}

	inProgressId := resolveInProgressStatusId(c)
	started := 0
	for _, item := range targets {
		status := findStatus(c, item.StatusId)
		if status != nil && status.IsTerminal {
			continue
		}
		item.StatusId = inProgressId
		item.StartCount++
		ts := now
		item.LastStartedAt = &ts
		item.LastStartedBy = req.InitiatedBy
		item.UpdatedAt = now
		started++
	}
	if started > 0 {
		c.UpdatedAt = now
		logging.Infof("workplace: started %d action item(s) in company %s", started, c.Id)
	}
	return nil
}

// resolveInProgressStatusId finds the status items move to when started: a
// status literally named "in progress" (case, space and hyphen insensitive),
// else the lowest-order non-terminal status, else the lowest-order status
// when everything is terminal.
func resolveInProgressStatusId(c *types.Company) string {
	for i := range c.ActionStatuses {
		if normalizeStatusName(c.ActionStatuses[i].Name) == "inprogress" {
			return c.ActionStatuses[i].Id
		}
	}
	var best *types.ActionStatus
	for i := range c.ActionStatuses {
		st := &c.ActionStatuses[i]
		if st.IsTerminal {
			continue
		}
		if best == nil || st.Order < best.Order {
			best = st
		}
	}
	if best != nil {
		return best.Id
	}
	return lowestOrderStatus(c.ActionStatuses).Id
}

func normalizeStatusName(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, name)
}

// CreateActionStatus appends a status to the pipeline. Order defaults to the
// end of the current pipeline.
func (s *Service) CreateActionStatus(ctx context.Context, req types.CreateActionStatusRequest) (types.WorkplaceState, error) {
	if strings.TrimSpace(req.Name) == "" {
		return types.WorkplaceState{}, fmt.Errorf("status name is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		order := 0
		for _, existing := range c.ActionStatuses {
			if existing.Order >= order {
				order = existing.Order + 1
			}
		}
		if req.Order != nil {
			order = *req.Order
		}
		c.ActionStatuses = append(c.ActionStatuses, types.ActionStatus{
			Id:         newId(),
			Name:       strings.TrimSpace(req.Name),
			Order:      order,
			Color:      req.Color,
			IsTerminal: req.IsTerminal,
		})
		c.UpdatedAt = now
		return nil
	})
}

// UpsertActionStatus updates a status matched by id, else by
// case-insensitive name, creating it when neither matches.
func (s *Service) UpsertActionStatus(ctx context.Context, req types.UpsertActionStatusRequest) (types.WorkplaceState, error) {
	if req.StatusId == "" && strings.TrimSpace(req.Name) == "" {
		return types.WorkplaceState{}, fmt.Errorf("status id or name is required: %w", ErrValidation)
	}
	return s.mutate(ctx, func(st *types.WorkplaceState, now time.Time) error {
		c, err := company(st, req.CompanyId)
		if err != nil {
			return err
		}
		target := findStatus(c, req.StatusId)
		if req.StatusId != "" && target == nil {
			return fmt.Errorf("status %q not recognized for company %q: %w", req.StatusId, c.Id, ErrInvalidState)
		}
		if target == nil {
			for i := range c.ActionStatuses {
				if strings.EqualFold(c.ActionStatuses[i].Name, strings.TrimSpace(req.Name)) {
					target = &c.ActionStatuses[i]
					break
				}
			}
		}
		if target == nil {
			order := 0
			for _, existing := range c.ActionStatuses {
				if existing.Order >= order {
					order = existing.Order + 1
				}
			}
			if req.Order != nil {
				order = *req.Order
			}
			status := types.ActionStatus{
				Id:    newId(),
				Name:  strings.TrimSpace(req.Name),
				Order: order,
			}
			if req.Color != nil {
				status.Color = *req.Color
			}
			if req.IsTerminal != nil {
				status.IsTerminal = *req.IsTerminal
			}
			c.ActionStatuses = append(c.ActionStatuses, status)
		} else {
			if strings.TrimSpace(req.Name) != "" {
				target.Name = strings.TrimSpace(req.Name)
			}
			if req.Order != nil {
				target.Order = *req.Order
			}
			if req.Color != nil {
				target.Color = *req.Color
			}
			if req.IsTerminal != nil {
				target.IsTerminal = *req.IsTerminal
			}
		}
		c.UpdatedAt = now
		return nil
	})
}
