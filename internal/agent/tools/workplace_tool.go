package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goldenloop/workplace/internal/types"
	"github.com/goldenloop/workplace/internal/workplace"
)

// WorkplaceTool exposes the virtual company engine to the agent as one
// domain tool with resource+action routing. Every action resolves to a
// single service command and reports the resulting company roster counts.
type WorkplaceTool struct {
	svc *workplace.Service
}

// NewWorkplaceTool wraps the service for agent use.
func NewWorkplaceTool(svc *workplace.Service) *WorkplaceTool {
	return &WorkplaceTool{svc: svc}
}

type workplaceInput struct {
	Resource string `json:"resource"` // company, employee, department, team, action_item, action_status, workday, schedule, shift
	Action   string `json:"action"`   // per-resource verb, e.g. create, update, archive, assign, start, halt

	CompanyId    string `json:"company_id,omitempty"`
	EmployeeId   string `json:"employee_id,omitempty"`
	TeamId       string `json:"team_id,omitempty"`
	DepartmentId string `json:"department_id,omitempty"`
	ActionItemId string `json:"action_item_id,omitempty"`
	StatusId     string `json:"status_id,omitempty"`
	ShiftId      string `json:"shift_id,omitempty"`

	Name            string   `json:"name,omitempty"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Role            string   `json:"role,omitempty"`
	Emoji           string   `json:"emoji,omitempty"`
	Vision          string   `json:"vision,omitempty"`
	Mission         string   `json:"mission,omitempty"`
	Kind            string   `json:"kind,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	OwnerEmployeeId string   `json:"owner_employee_id,omitempty"`
	Scope           string   `json:"scope,omitempty"`
	ActionItemIds   []string `json:"action_item_ids,omitempty"`
	EmployeeIds     []string `json:"employee_ids,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	InitiatedBy     string   `json:"initiated_by,omitempty"`
	Availability    string   `json:"availability,omitempty"`
	IsFavorite      *bool    `json:"is_favorite,omitempty"`
	IsTerminal      *bool    `json:"is_terminal,omitempty"`
	Order           *int     `json:"order,omitempty"`
	Color           string   `json:"color,omitempty"`
	Suspend         bool     `json:"suspend,omitempty"`

	Start      *time.Time             `json:"start,omitempty"`
	End        *time.Time             `json:"end,omitempty"`
	Recurrence *types.ShiftRecurrence `json:"recurrence,omitempty"`
}

func (t *WorkplaceTool) Name() string {
	return "workplace"
}

func (t *WorkplaceTool) Description() string {
	return "Manage the virtual company: companies, employees, departments, teams, action items, statuses, workdays, schedules and shifts. Route with resource + action, e.g. workplace(resource: company, action: create, name: \"Acme\")."
}

func (t *WorkplaceTool) RequiresApproval() bool {
	return false
}

func (t *WorkplaceTool) Schema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resource": map[string]any{
				"type":        "string",
				"description": "Entity kind to operate on",
				"enum": []string{
					"company", "employee", "department", "team",
					"action_item", "action_status", "workday", "schedule", "shift",
				},
			},
			"action": map[string]any{
				"type":        "string",
				"description": "Verb, e.g. create, update, archive, delete, activate, assign, remove, start, halt",
			},
			"company_id":     map[string]any{"type": "string"},
			"employee_id":    map[string]any{"type": "string"},
			"team_id":        map[string]any{"type": "string"},
			"department_id":  map[string]any{"type": "string"},
			"action_item_id": map[string]any{"type": "string"},
			"status_id":      map[string]any{"type": "string"},
			"shift_id":       map[string]any{"type": "string"},
			"name":           map[string]any{"type": "string"},
			"title":          map[string]any{"type": "string"},
			"description":    map[string]any{"type": "string"},
			"role":           map[string]any{"type": "string"},
			"kind":           map[string]any{"type": "string", "enum": []string{"goal", "project", "task"}},
			"priority":       map[string]any{"type": "string", "enum": []string{"low", "medium", "high", "urgent"}},
			"scope":          map[string]any{"type": "string", "enum": []string{"company", "employee", "selection"}},
			"availability":   map[string]any{"type": "string", "enum": []string{"available", "flexible", "on_call", "suspended"}},
			"employee_ids":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"action_item_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"start":          map[string]any{"type": "string", "description": "RFC3339 timestamp"},
			"end":            map[string]any{"type": "string", "description": "RFC3339 timestamp"},
		},
		"required": []string{"resource", "action"},
	}
	data, _ := json.Marshal(schema)
	return data
}

func (t *WorkplaceTool) Execute(ctx context.Context, input json.RawMessage) (*ToolResult, error) {
	var in workplaceInput
	if err := json.Unmarshal(input, &in); err != nil {
		return &ToolResult{Content: fmt.Sprintf("invalid input: %v", err), IsError: true}, nil
	}

	state, err := t.route(ctx, in)
	if err != nil {
		return &ToolResult{Content: err.Error(), IsError: true}, nil
	}
	return &ToolResult{Content: summarize(state)}, nil
}

func (t *WorkplaceTool) route(ctx context.Context, in workplaceInput) (types.WorkplaceState, error) {
	key := in.Resource + "." + in.Action
	switch key {
	case "company.create":
		return t.svc.CreateCompany(ctx, types.CreateCompanyRequest{
			Name: in.Name, Emoji: in.Emoji, Description: in.Description,
			Vision: in.Vision, Mission: in.Mission,
		})
	case "company.update":
		req := types.UpdateCompanyRequest{CompanyId: in.CompanyId}
		if in.Name != "" {
			req.Name = &in.Name
		}
		if in.Description != "" {
			req.Description = &in.Description
		}
		if in.Vision != "" {
			req.Vision = &in.Vision
		}
		if in.Mission != "" {
			req.Mission = &in.Mission
		}
		if in.Emoji != "" {
			req.Emoji = &in.Emoji
		}
		return t.svc.UpdateCompany(ctx, req)
	case "company.delete":
		return t.svc.DeleteCompany(ctx, types.DeleteCompanyRequest{CompanyId: in.CompanyId})
	case "company.activate":
		return t.svc.SetActiveCompany(ctx, types.SetActiveCompanyRequest{CompanyId: in.CompanyId})
	case "company.favorite":
		fav := in.IsFavorite != nil && *in.IsFavorite
		return t.svc.SetCompanyFavorite(ctx, types.SetCompanyFavoriteRequest{CompanyId: in.CompanyId, IsFavorite: fav})

	case "employee.create":
		return t.svc.CreateEmployee(ctx, types.CreateEmployeeRequest{
			CompanyId: in.CompanyId, Name: in.Name, Role: in.Role, Description: in.Description,
		})
	case "employee.update":
		req := types.UpdateEmployeeRequest{CompanyId: in.CompanyId, EmployeeId: in.EmployeeId}
		if in.Name != "" {
			req.Name = &in.Name
		}
		if in.Role != "" {
			req.Role = &in.Role
		}
		if in.Description != "" {
			req.Description = &in.Description
		}
		return t.svc.UpdateEmployee(ctx, req)
	case "employee.archive":
		return t.svc.ArchiveEmployee(ctx, types.ArchiveEmployeeRequest{CompanyId: in.CompanyId, EmployeeId: in.EmployeeId})
	case "employee.activate":
		return t.svc.SetActiveEmployee(ctx, types.SetActiveEmployeeRequest{CompanyId: in.CompanyId, EmployeeId: in.EmployeeId})

	case "department.create":
		return t.svc.CreateDepartment(ctx, types.CreateDepartmentRequest{CompanyId: in.CompanyId, Name: in.Name, Description: in.Description})
	case "department.archive":
		return t.svc.ArchiveDepartment(ctx, types.ArchiveDepartmentRequest{CompanyId: in.CompanyId, DepartmentId: in.DepartmentId})

	case "team.create":
		return t.svc.CreateTeam(ctx, types.CreateTeamRequest{CompanyId: in.CompanyId, Name: in.Name, Description: in.Description, DepartmentId: in.DepartmentId})
	case "team.archive":
		return t.svc.ArchiveTeam(ctx, types.ArchiveTeamRequest{CompanyId: in.CompanyId, TeamId: in.TeamId})
	case "team.assign_department":
		return t.svc.AssignTeamToDepartment(ctx, types.AssignTeamToDepartmentRequest{CompanyId: in.CompanyId, TeamId: in.TeamId, DepartmentId: in.DepartmentId})
	case "team.remove_department":
		return t.svc.RemoveTeamFromDepartment(ctx, types.RemoveTeamFromDepartmentRequest{CompanyId: in.CompanyId, TeamId: in.TeamId, DepartmentId: in.DepartmentId})
	case "team.assign_employee":
		return t.svc.AssignEmployeeToTeam(ctx, types.AssignEmployeeToTeamRequest{CompanyId: in.CompanyId, TeamId: in.TeamId, EmployeeId: in.EmployeeId})
	case "team.remove_employee":
		return t.svc.RemoveEmployeeFromTeam(ctx, types.RemoveEmployeeFromTeamRequest{CompanyId: in.CompanyId, TeamId: in.TeamId, EmployeeId: in.EmployeeId})

	case "action_item.create":
		return t.svc.CreateActionItem(ctx, types.CreateActionItemRequest{
			CompanyId: in.CompanyId, Title: in.Title, Kind: types.ActionKind(in.Kind),
			StatusId: in.StatusId, Description: in.Description,
			OwnerEmployeeId: in.OwnerEmployeeId, Priority: types.ActionPriority(in.Priority),
			DueAt: in.End,
		})
	case "action_item.update":
		req := types.UpdateActionItemRequest{CompanyId: in.CompanyId, ActionItemId: in.ActionItemId}
		if in.Title != "" {
			req.Title = &in.Title
		}
		if in.Description != "" {
			req.Description = &in.Description
		}
		if in.StatusId != "" {
			req.StatusId = &in.StatusId
		}
		if in.OwnerEmployeeId != "" {
			req.OwnerEmployeeId = &in.OwnerEmployeeId
		}
		if in.Priority != "" {
			p := types.ActionPriority(in.Priority)
			req.Priority = &p
		}
		return t.svc.UpdateActionItem(ctx, req)
	case "action_item.delete":
		return t.svc.DeleteActionItem(ctx, types.DeleteActionItemRequest{CompanyId: in.CompanyId, ActionItemId: in.ActionItemId})
	case "action_item.start":
		return t.svc.StartActionItems(ctx, types.StartActionItemsRequest{
			CompanyId: in.CompanyId, Scope: in.Scope, EmployeeId: in.EmployeeId,
			ActionItemIds: in.ActionItemIds, InitiatedBy: in.InitiatedBy,
		})

	case "action_status.create":
		return t.svc.CreateActionStatus(ctx, types.CreateActionStatusRequest{
			CompanyId: in.CompanyId, Name: in.Name, Order: in.Order, Color: in.Color,
			IsTerminal: in.IsTerminal != nil && *in.IsTerminal,
		})
	case "action_status.upsert":
		req := types.UpsertActionStatusRequest{CompanyId: in.CompanyId, StatusId: in.StatusId, Name: in.Name, Order: in.Order, IsTerminal: in.IsTerminal}
		if in.Color != "" {
			req.Color = &in.Color
		}
		return t.svc.UpsertActionStatus(ctx, req)

	case "workday.start":
		return t.svc.StartWorkday(ctx, types.StartWorkdayRequest{
			CompanyId: in.CompanyId, EmployeeIds: in.EmployeeIds,
			Reason: in.Reason, InitiatedBy: in.InitiatedBy,
		})
	case "workday.halt":
		return t.svc.HaltWorkday(ctx, types.HaltWorkdayRequest{
			CompanyId: in.CompanyId, Reason: in.Reason, SuspendActiveEmployees: in.Suspend,
		})

	case "schedule.update":
		req := types.UpdateEmployeeScheduleRequest{CompanyId: in.CompanyId, EmployeeId: in.EmployeeId}
		if in.Availability != "" {
			a := types.Availability(in.Availability)
			req.Availability = &a
		}
		return t.svc.UpdateEmployeeSchedule(ctx, req)

	case "shift.create":
		var start, end time.Time
		if in.Start != nil {
			start = *in.Start
		}
		if in.End != nil {
			end = *in.End
		}
		return t.svc.CreateShift(ctx, types.CreateShiftRequest{
			CompanyId: in.CompanyId, EmployeeId: in.EmployeeId, Name: in.Name,
			Start: start, End: end, Recurrence: in.Recurrence,
		})
	case "shift.update":
		return t.svc.UpdateShift(ctx, types.UpdateShiftRequest{
			CompanyId: in.CompanyId, ShiftId: in.ShiftId,
			Start: in.Start, End: in.End, Recurrence: in.Recurrence,
		})
	case "shift.delete":
		return t.svc.DeleteShift(ctx, types.DeleteShiftRequest{CompanyId: in.CompanyId, ShiftId: in.ShiftId})
	}
	return types.WorkplaceState{}, fmt.Errorf("unknown workplace command %q", key)
}

// summarize renders a compact roster overview for the agent.
func summarize(state types.WorkplaceState) string {
	if len(state.Companies) == 0 {
		return "No companies yet."
	}
	out := ""
	for _, c := range state.Companies {
		active := 0
		for _, e := range c.Employees {
			if e.DeletedAt == nil {
				active++
			}
		}
		marker := " "
		if c.Id == state.ActiveCompanyId {
			marker = "*"
		}
		out += fmt.Sprintf("%s %s [%s]: %d active employees, %d teams, %d departments, %d action items, workday %s\n",
			marker, c.Name, c.Id, active, len(c.Teams), len(c.Departments), len(c.ActionItems), c.Workday.Status)
	}
	return out
}
