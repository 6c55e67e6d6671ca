package workplace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

func init() {
	logging.Disable()
}

// memStore keeps the blob in memory and counts saves so tests can assert
// which commands actually persisted.
type memStore struct {
	mu       sync.Mutex
	data     []byte
	saves    int
	failSave bool
}

type saveFailed struct{}

func (saveFailed) Error() string { return "save failed" }

func (m *memStore) LoadState(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *memStore) SaveState(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return saveFailed{}
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// fakeClock hands out a controllable time so tests can tell apart "updated"
// from "left alone".
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *memStore, *fakeClock) {
	t.Helper()
	store := &memStore{}
	clock := newFakeClock()
	svc, err := NewService(context.Background(), store, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store, clock
}

func createCompany(t *testing.T, svc *Service, name string) types.Company {
	t.Helper()
	state, err := svc.CreateCompany(context.Background(), types.CreateCompanyRequest{Name: name})
	if err != nil {
		t.Fatalf("CreateCompany(%q): %v", name, err)
	}
	for _, c := range state.Companies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("company %q not in state after create", name)
	return types.Company{}
}

func addEmployee(t *testing.T, svc *Service, companyId, name string) types.Employee {
	t.Helper()
	state, err := svc.CreateEmployee(context.Background(), types.CreateEmployeeRequest{CompanyId: companyId, Name: name})
	if err != nil {
		t.Fatalf("CreateEmployee(%q): %v", name, err)
	}
	for _, c := range state.Companies {
		if c.Id != companyId {
			continue
		}
		for _, e := range c.Employees {
			if e.Name == name {
				return e
			}
		}
	}
	t.Fatalf("employee %q not in state after create", name)
	return types.Employee{}
}

func getCompany(t *testing.T, svc *Service, id string) types.Company {
	t.Helper()
	state := svc.GetState()
	for _, c := range state.Companies {
		if c.Id == id {
			return c
		}
	}
	t.Fatalf("company %s not found", id)
	return types.Company{}
}

func TestCreateCompanySynthesizesFounder(t *testing.T) {
	svc, _, _ := newTestService(t)

	c := createCompany(t, svc, "Acme")

	if len(c.Employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(c.Employees))
	}
	founder := c.Employees[0]
	if founder.Name != "Acme Executive" {
		t.Errorf("founder name = %q, want %q", founder.Name, "Acme Executive")
	}
	if !founder.IsExecutiveManager {
		t.Error("founder should be flagged executive manager")
	}
	if c.ExecutiveManagerId != founder.Id {
		t.Errorf("executiveManagerId = %q, want founder %q", c.ExecutiveManagerId, founder.Id)
	}
	if c.ActiveEmployeeId != founder.Id {
		t.Errorf("activeEmployeeId = %q, want founder %q", c.ActiveEmployeeId, founder.Id)
	}
	if len(c.ActionStatuses) != 3 {
		t.Fatalf("expected 3 default statuses, got %d", len(c.ActionStatuses))
	}

	state := svc.GetState()
	if state.ActiveCompanyId != c.Id {
		t.Errorf("activeCompanyId = %q, want %q", state.ActiveCompanyId, c.Id)
	}
	if state.ActiveEmployeeId != founder.Id {
		t.Errorf("global activeEmployeeId = %q, want founder %q", state.ActiveEmployeeId, founder.Id)
	}
}

func TestCreateCompanyRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CreateCompany(context.Background(), types.CreateCompanyRequest{Name: "   "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOwnerProfileFallback(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile := types.OwnerProfile{Name: "Dana", Role: "Solo founder"}
	_, err := svc.CreateCompany(context.Background(), types.CreateCompanyRequest{
		Name:                  "First",
		OwnerProfile:          &profile,
		RememberOwnerDefaults: true,
	})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	// The second company carries no profile and inherits the remembered one.
	second := createCompany(t, svc, "Second")
	if second.OwnerProfile.Name != "Dana" {
		t.Errorf("inherited owner name = %q, want Dana", second.OwnerProfile.Name)
	}
}

func TestSetActiveCompanyNoOpDoesNotPersist(t *testing.T) {
	svc, store, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")

	before := store.saveCount()
	state, err := svc.SetActiveCompany(context.Background(), types.SetActiveCompanyRequest{CompanyId: c.Id})
	if err != nil {
		t.Fatalf("SetActiveCompany: %v", err)
	}
	if state.ActiveCompanyId != c.Id {
		t.Errorf("activeCompanyId = %q, want %q", state.ActiveCompanyId, c.Id)
	}
	if store.saveCount() != before {
		t.Errorf("no-op activation persisted: saves %d -> %d", before, store.saveCount())
	}
}

func TestArchiveSoleEmployeeClearsPointers(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	founder := c.Employees[0]

	state, err := svc.ArchiveEmployee(context.Background(), types.ArchiveEmployeeRequest{
		CompanyId: c.Id, EmployeeId: founder.Id,
	})
	if err != nil {
		t.Fatalf("ArchiveEmployee: %v", err)
	}
	got := state.Companies[0]
	if got.Employees[0].DeletedAt == nil {
		t.Fatal("founder should be archived")
	}
	if got.ExecutiveManagerId != "" {
		t.Errorf("executiveManagerId = %q, want empty", got.ExecutiveManagerId)
	}
	if got.ActiveEmployeeId != "" {
		t.Errorf("activeEmployeeId = %q, want empty", got.ActiveEmployeeId)
	}
	if state.ActiveEmployeeId != "" {
		t.Errorf("global activeEmployeeId = %q, want empty", state.ActiveEmployeeId)
	}
}

func TestArchiveExecutivePromotesSuccessor(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	founder := c.Employees[0]
	hire := addEmployee(t, svc, c.Id, "Riley")

	state, err := svc.ArchiveEmployee(context.Background(), types.ArchiveEmployeeRequest{
		CompanyId: c.Id, EmployeeId: founder.Id,
	})
	if err != nil {
		t.Fatalf("ArchiveEmployee: %v", err)
	}
	got := state.Companies[0]
	if got.ExecutiveManagerId != hire.Id {
		t.Errorf("executiveManagerId = %q, want successor %q", got.ExecutiveManagerId, hire.Id)
	}
	if got.ActiveEmployeeId != hire.Id {
		t.Errorf("activeEmployeeId = %q, want successor %q", got.ActiveEmployeeId, hire.Id)
	}
	for _, e := range got.Employees {
		if e.Id == hire.Id && !e.IsExecutiveManager {
			t.Error("successor should carry the executive flag")
		}
		if e.Id == founder.Id && e.IsExecutiveManager {
			t.Error("archived founder should not keep the executive flag")
		}
	}
}

func TestArchiveEmployeeTwiceIsNoOp(t *testing.T) {
	svc, store, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	founder := c.Employees[0]

	req := types.ArchiveEmployeeRequest{CompanyId: c.Id, EmployeeId: founder.Id}
	if _, err := svc.ArchiveEmployee(context.Background(), req); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	before := store.saveCount()
	if _, err := svc.ArchiveEmployee(context.Background(), req); err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if store.saveCount() != before {
		t.Error("repeated archive should not persist again")
	}
}

func TestArchiveEmployeeClearsOwnedItems(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	hire := addEmployee(t, svc, c.Id, "Riley")

	_, err := svc.CreateActionItem(context.Background(), types.CreateActionItemRequest{
		CompanyId: c.Id, Title: "Ship it", OwnerEmployeeId: hire.Id,
	})
	if err != nil {
		t.Fatalf("CreateActionItem: %v", err)
	}
	state, err := svc.ArchiveEmployee(context.Background(), types.ArchiveEmployeeRequest{
		CompanyId: c.Id, EmployeeId: hire.Id,
	})
	if err != nil {
		t.Fatalf("ArchiveEmployee: %v", err)
	}
	got := state.Companies[0]
	if got.ActionItems[0].OwnerEmployeeId != "" {
		t.Errorf("owned item should lose its owner, got %q", got.ActionItems[0].OwnerEmployeeId)
	}
}

func TestSetActiveEmployeeRejectsArchived(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	hire := addEmployee(t, svc, c.Id, "Riley")

	if _, err := svc.ArchiveEmployee(context.Background(), types.ArchiveEmployeeRequest{
		CompanyId: c.Id, EmployeeId: hire.Id,
	}); err != nil {
		t.Fatalf("ArchiveEmployee: %v", err)
	}
	_, err := svc.SetActiveEmployee(context.Background(), types.SetActiveEmployeeRequest{
		CompanyId: c.Id, EmployeeId: hire.Id,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestDeleteCompanyReresolvesActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	first := createCompany(t, svc, "First")
	second := createCompany(t, svc, "Second")

	// Second is active (most recently created). Delete it.
	state, err := svc.DeleteCompany(context.Background(), types.DeleteCompanyRequest{CompanyId: second.Id})
	if err != nil {
		t.Fatalf("DeleteCompany: %v", err)
	}
	if len(state.Companies) != 1 {
		t.Fatalf("expected 1 company, got %d", len(state.Companies))
	}
	if state.ActiveCompanyId != first.Id {
		t.Errorf("activeCompanyId = %q, want %q", state.ActiveCompanyId, first.Id)
	}
	if state.ActiveEmployeeId != first.ActiveEmployeeId {
		t.Errorf("activeEmployeeId = %q, want %q", state.ActiveEmployeeId, first.ActiveEmployeeId)
	}
}

func TestDeleteLastCompanyClearsActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Only")

	state, err := svc.DeleteCompany(context.Background(), types.DeleteCompanyRequest{CompanyId: c.Id})
	if err != nil {
		t.Fatalf("DeleteCompany: %v", err)
	}
	if state.ActiveCompanyId != "" || state.ActiveEmployeeId != "" {
		t.Errorf("active pointers should be empty, got company=%q employee=%q",
			state.ActiveCompanyId, state.ActiveEmployeeId)
	}
}

func TestUnknownCompanyNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CreateEmployee(context.Background(), types.CreateEmployeeRequest{
		CompanyId: "nope", Name: "Riley",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFailedSaveRestoresState(t *testing.T) {
	svc, store, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")

	store.failSave = true
	_, err := svc.CreateEmployee(context.Background(), types.CreateEmployeeRequest{
		CompanyId: c.Id, Name: "Riley",
	})
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	store.failSave = false

	got := getCompany(t, svc, c.Id)
	if len(got.Employees) != 1 {
		t.Fatalf("failed save should leave state untouched, got %d employees", len(got.Employees))
	}
}

func TestSnapshotIsolation(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")

	snapshot := svc.GetState()
	snapshot.Companies[0].Name = "Tampered"
	snapshot.Companies[0].Employees[0].Name = "Tampered"

	got := getCompany(t, svc, c.Id)
	if got.Name != "Acme" {
		t.Errorf("mutating a snapshot leaked into the service: name = %q", got.Name)
	}
	if got.Employees[0].Name != "Acme Executive" {
		t.Errorf("mutating a snapshot leaked into the service: employee = %q", got.Employees[0].Name)
	}
}

func TestObserverFiresAfterPersist(t *testing.T) {
	store := &memStore{}
	clock := newFakeClock()
	var observed []types.WorkplaceState
	svc, err := NewService(context.Background(), store,
		WithClock(clock.Now),
		WithObserver(func(s types.WorkplaceState) { observed = append(observed, s) }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	c := createCompany(t, svc, "Acme")
	if len(observed) != 1 {
		t.Fatalf("expected 1 observer call, got %d", len(observed))
	}
	if observed[0].ActiveCompanyId != c.Id {
		t.Errorf("observer saw activeCompanyId %q, want %q", observed[0].ActiveCompanyId, c.Id)
	}

	// No-op commands never notify.
	before := len(observed)
	if _, err := svc.SetActiveCompany(context.Background(), types.SetActiveCompanyRequest{CompanyId: c.Id}); err != nil {
		t.Fatalf("SetActiveCompany: %v", err)
	}
	if len(observed) != before {
		t.Error("observer fired for a no-op command")
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	store := &memStore{}
	clock := newFakeClock()
	svc, err := NewService(context.Background(), store, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := createCompany(t, svc, "Acme")

	reloaded, err := NewService(context.Background(), store, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewService (reload): %v", err)
	}
	state := reloaded.GetState()
	if len(state.Companies) != 1 || state.Companies[0].Id != c.Id {
		t.Fatalf("reloaded state lost the company")
	}
	if state.ActiveCompanyId != c.Id {
		t.Errorf("reloaded activeCompanyId = %q, want %q", state.ActiveCompanyId, c.Id)
	}
}

func TestUpdateCompanyReassignsExecutive(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "Acme")
	hire := addEmployee(t, svc, c.Id, "Riley")

	state, err := svc.UpdateCompany(context.Background(), types.UpdateCompanyRequest{
		CompanyId:          c.Id,
		ExecutiveManagerId: &hire.Id,
	})
	if err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	got := state.Companies[0]
	if got.ExecutiveManagerId != hire.Id {
		t.Errorf("executiveManagerId = %q, want %q", got.ExecutiveManagerId, hire.Id)
	}
	flagged := 0
	for _, e := range got.Employees {
		if e.IsExecutiveManager {
			flagged++
			if e.Id != hire.Id {
				t.Errorf("wrong employee flagged executive: %q", e.Id)
			}
		}
	}
	if flagged != 1 {
		t.Errorf("expected exactly 1 flagged executive, got %d", flagged)
	}
}

func TestCompanyNameTrimmed(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := createCompany(t, svc, "  Acme  ")
	if c.Name != "Acme" {
		t.Errorf("name = %q, want trimmed %q", c.Name, "Acme")
	}
	if !strings.HasPrefix(c.Employees[0].Name, "Acme ") {
		t.Errorf("founder name %q should derive from the trimmed company name", c.Employees[0].Name)
	}
}
