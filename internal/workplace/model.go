package workplace

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goldenloop/workplace/internal/types"
)

func newId() string {
	return uuid.New().String()
}

// DefaultActionStatuses is the canonical pipeline every company starts with.
// A company's status list is never allowed to become empty; sanitization
// falls back to this set.
func DefaultActionStatuses(now time.Time) []types.ActionStatus {
	return []types.ActionStatus{
		{Id: newId(), Name: "Not Started", Order: 0, Color: "#9CA3AF"},
		{Id: newId(), Name: "In Progress", Order: 1, Color: "#3B82F6"},
		{Id: newId(), Name: "Done", Order: 2, Color: "#22C55E", IsTerminal: true},
	}
}

// NewCompany builds a company shell with the default status pipeline and an
// idle workday. The founding employee is added by the service, not here.
func NewCompany(name string, now time.Time) types.Company {
	return types.Company{
		Id:              newId(),
		Name:            strings.TrimSpace(name),
		Employees:       []types.Employee{},
		Departments:     []types.Department{},
		Teams:           []types.Team{},
		ActionItems:     []types.ActionItem{},
		ActionStatuses:  DefaultActionStatuses(now),
		ActionRelations: []types.ActionRelation{},
		Shifts:          []types.Shift{},
		Workday: types.WorkdayState{
			Status:              types.WorkdayIdle,
			ActiveEmployeeIds:   []string{},
			BypassedEmployeeIds: []string{},
			EmployeeSchedules:   []types.EmployeeSchedule{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewEmployee builds an employee record with stamped id and timestamps.
func NewEmployee(name, role string, now time.Time) types.Employee {
	return types.Employee{
		Id:        newId(),
		Name:      strings.TrimSpace(name),
		Role:      strings.TrimSpace(role),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewDepartment(name string, now time.Time) types.Department {
	return types.Department{
		Id:        newId(),
		Name:      strings.TrimSpace(name),
		TeamLinks: []types.TeamLink{},
		TeamIds:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTeam(name string, now time.Time) types.Team {
	return types.Team{
		Id:          newId(),
		Name:        strings.TrimSpace(name),
		Memberships: []types.TeamMembership{},
		EmployeeIds: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// founderName derives the synthesized first employee's name from the company
// name, e.g. "Acme" -> "Acme Executive".
func founderName(companyName string) string {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return "Executive"
	}
	return name + " Executive"
}

// cloneState deep-copies the state through its JSON form. The clone is
// byte-equivalent to a persist/load round trip, so snapshots handed to
// callers match what the store would replay.
func cloneState(s types.WorkplaceState) types.WorkplaceState {
	data, err := json.Marshal(s)
	if err != nil {
		// The state tree is plain data; marshaling cannot fail.
		panic(err)
	}
	var out types.WorkplaceState
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}
