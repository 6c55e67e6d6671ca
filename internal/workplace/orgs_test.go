package workplace

import (
	"context"
	"errors"
	"testing"

	"github.com/goldenloop/workplace/internal/types"
)

func createDepartment(t *testing.T, svc *Service, companyId, name string) types.Department {
	t.Helper()
	state, err := svc.CreateDepartment(context.Background(), types.CreateDepartmentRequest{CompanyId: companyId, Name: name})
	if err != nil {
		t.Fatalf("CreateDepartment(%q): %v", name, err)
	}
	for _, c := range state.Companies {
		if c.Id != companyId {
			continue
		}
		for _, d := range c.Departments {
			if d.Name == name {
				return d
			}
		}
	}
	t.Fatalf("department %q not in state", name)
	return types.Department{}
}

func createTeam(t *testing.T, svc *Service, companyId, name string) types.Team {
	t.Helper()
	state, err := svc.CreateTeam(context.Background(), types.CreateTeamRequest{CompanyId: companyId, Name: name})
	if err != nil {
		t.Fatalf("CreateTeam(%q): %v", name, err)
	}
	for _, c := range state.Companies {
		if c.Id != companyId {
			continue
		}
		for _, tm := range c.Teams {
			if tm.Name == name {
				return tm
			}
		}
	}
	t.Fatalf("team %q not in state", name)
	return types.Team{}
}

func TestArchiveDepartmentClosesLinksButKeepsTeams(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	dept := createDepartment(t, svc, c.Id, "Eng")
	team := createTeam(t, svc, c.Id, "Backend")

	if _, err := svc.AssignTeamToDepartment(context.Background(), types.AssignTeamToDepartmentRequest{
		CompanyId: c.Id, TeamId: team.Id, DepartmentId: dept.Id,
	}); err != nil {
		t.Fatalf("AssignTeamToDepartment: %v", err)
	}

	state, err := svc.ArchiveDepartment(context.Background(), types.ArchiveDepartmentRequest{
		CompanyId: c.Id, DepartmentId: dept.Id,
	})
	if err != nil {
		t.Fatalf("ArchiveDepartment: %v", err)
	}
	got := state.Companies[0]
	d := got.Departments[0]
	if d.DeletedAt == nil {
		t.Fatal("department should be archived")
	}
	if len(d.TeamIds) != 0 {
		t.Errorf("archived department still projects teams: %v", d.TeamIds)
	}
	if len(d.TeamLinks) != 1 || d.TeamLinks[0].UnlinkedAt == nil {
		t.Error("link history should survive, closed")
	}
	if got.Teams[0].DeletedAt != nil {
		t.Error("archiving a department must not archive its teams")
	}
}

func TestArchiveTeamDetachesEverywhere(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	founder := c.Employees[0]
	dept := createDepartment(t, svc, c.Id, "Eng")
	team := createTeam(t, svc, c.Id, "Backend")

	if _, err := svc.AssignTeamToDepartment(context.Background(), types.AssignTeamToDepartmentRequest{
		CompanyId: c.Id, TeamId: team.Id, DepartmentId: dept.Id,
	}); err != nil {
		t.Fatalf("AssignTeamToDepartment: %v", err)
	}
	if _, err := svc.AssignEmployeeToTeam(context.Background(), types.AssignEmployeeToTeamRequest{
		CompanyId: c.Id, TeamId: team.Id, EmployeeId: founder.Id,
	}); err != nil {
		t.Fatalf("AssignEmployeeToTeam: %v", err)
	}

	state, err := svc.ArchiveTeam(context.Background(), types.ArchiveTeamRequest{
		CompanyId: c.Id, TeamId: team.Id,
	})
	if err != nil {
		t.Fatalf("ArchiveTeam: %v", err)
	}
	got := state.Companies[0]
	tm := got.Teams[0]
	if tm.DeletedAt == nil {
		t.Fatal("team should be archived")
	}
	if len(tm.EmployeeIds) != 0 {
		t.Errorf("archived team still projects members: %v", tm.EmployeeIds)
	}
	if len(tm.Memberships) != 1 || tm.Memberships[0].RemovedAt == nil {
		t.Error("membership history should survive, closed")
	}
	if len(got.Departments[0].TeamIds) != 0 {
		t.Errorf("department still projects the archived team: %v", got.Departments[0].TeamIds)
	}
}

func TestArchiveEmployeeDropsMembershipCount(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	founder := c.Employees[0]
	hire := addEmployee(t, svc, c.Id, "Riley")
	team := createTeam(t, svc, c.Id, "Backend")

	for _, id := range []string{founder.Id, hire.Id} {
		if _, err := svc.AssignEmployeeToTeam(context.Background(), types.AssignEmployeeToTeamRequest{
			CompanyId: c.Id, TeamId: team.Id, EmployeeId: id,
		}); err != nil {
			t.Fatalf("AssignEmployeeToTeam(%s): %v", id, err)
		}
	}

	state, err := svc.ArchiveEmployee(context.Background(), types.ArchiveEmployeeRequest{
		CompanyId: c.Id, EmployeeId: hire.Id,
	})
	if err != nil {
		t.Fatalf("ArchiveEmployee: %v", err)
	}
	tm := state.Companies[0].Teams[0]
	if len(tm.EmployeeIds) != 1 || tm.EmployeeIds[0] != founder.Id {
		t.Errorf("active membership projection = %v, want only the founder", tm.EmployeeIds)
	}
	if len(tm.Memberships) != 2 {
		t.Errorf("membership history rows = %d, want 2 (closed, not deleted)", len(tm.Memberships))
	}
}

func TestAssignToArchivedTargetsFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	dept := createDepartment(t, svc, c.Id, "Eng")
	team := createTeam(t, svc, c.Id, "Backend")

	if _, err := svc.ArchiveDepartment(context.Background(), types.ArchiveDepartmentRequest{
		CompanyId: c.Id, DepartmentId: dept.Id,
	}); err != nil {
		t.Fatalf("ArchiveDepartment: %v", err)
	}
	_, err := svc.AssignTeamToDepartment(context.Background(), types.AssignTeamToDepartmentRequest{
		CompanyId: c.Id, TeamId: team.Id, DepartmentId: dept.Id,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("assign to archived department: expected ErrInvalidState, got %v", err)
	}

	if _, err := svc.ArchiveTeam(context.Background(), types.ArchiveTeamRequest{
		CompanyId: c.Id, TeamId: team.Id,
	}); err != nil {
		t.Fatalf("ArchiveTeam: %v", err)
	}
	_, err = svc.AssignEmployeeToTeam(context.Background(), types.AssignEmployeeToTeamRequest{
		CompanyId: c.Id, TeamId: team.Id, EmployeeId: c.Employees[0].Id,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("assign to archived team: expected ErrInvalidState, got %v", err)
	}
}

func TestMoveTeamBetweenDepartments(t *testing.T) {
	svc, store, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	eng := createDepartment(t, svc, c.Id, "Eng")
	design := createDepartment(t, svc, c.Id, "Design")
	team := createTeam(t, svc, c.Id, "Platform")

	assign := func(deptId string) types.WorkplaceState {
		state, err := svc.AssignTeamToDepartment(context.Background(), types.AssignTeamToDepartmentRequest{
			CompanyId: c.Id, TeamId: team.Id, DepartmentId: deptId,
		})
		if err != nil {
			t.Fatalf("AssignTeamToDepartment(%s): %v", deptId, err)
		}
		return state
	}

	assign(eng.Id)
	state := assign(design.Id)
	got := state.Companies[0]
	for _, d := range got.Departments {
		switch d.Id {
		case eng.Id:
			if len(d.TeamIds) != 0 {
				t.Errorf("old department still projects %v", d.TeamIds)
			}
		case design.Id:
			if len(d.TeamIds) != 1 {
				t.Errorf("new department projects %v, want the team", d.TeamIds)
			}
		}
	}

	// Re-assigning to the current department persists nothing.
	before := store.saveCount()
	assign(design.Id)
	if store.saveCount() != before {
		t.Error("no-op assignment should not persist")
	}
}
