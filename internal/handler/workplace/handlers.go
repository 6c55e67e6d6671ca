package workplace

import (
	"errors"
	"net/http"

	"github.com/goldenloop/workplace/internal/httputil"
	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
	"github.com/goldenloop/workplace/internal/workplace"
)

// respond writes the post-mutation state, mapping the engine's error kinds
// onto HTTP statuses.
func respond(w http.ResponseWriter, state types.WorkplaceState, err error) {
	switch {
	case err == nil:
		httputil.OkJSON(w, state)
	case errors.Is(err, workplace.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, workplace.ErrInvalidState):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, workplace.ErrValidation):
		httputil.BadRequest(w, err.Error())
	default:
		logging.Errorf("workplace command failed: %v", err)
		httputil.InternalError(w, "workplace command failed")
	}
}

// GetStateHandler returns the current state snapshot.
func GetStateHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.OkJSON(w, svc.GetState())
	}
}

func CreateCompanyHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateCompanyRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateCompany(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateCompanyHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateCompanyRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.CompanyId = httputil.PathVar(r, "id")
		state, err := svc.UpdateCompany(r.Context(), req)
		respond(w, state, err)
	}
}

func DeleteCompanyHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.DeleteCompany(r.Context(), types.DeleteCompanyRequest{
			CompanyId: httputil.PathVar(r, "id"),
		})
		respond(w, state, err)
	}
}

func SetActiveCompanyHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.SetActiveCompany(r.Context(), types.SetActiveCompanyRequest{
			CompanyId: httputil.PathVar(r, "id"),
		})
		respond(w, state, err)
	}
}

func SetCompanyFavoriteHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SetCompanyFavoriteRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.CompanyId = httputil.PathVar(r, "id")
		state, err := svc.SetCompanyFavorite(r.Context(), req)
		respond(w, state, err)
	}
}

func SetOwnerProfileDefaultsHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SetOwnerProfileDefaultsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.SetOwnerProfileDefaults(r.Context(), req)
		respond(w, state, err)
	}
}

func CreateEmployeeHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateEmployeeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateEmployee(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateEmployeeHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateEmployeeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.EmployeeId = httputil.PathVar(r, "id")
		state, err := svc.UpdateEmployee(r.Context(), req)
		respond(w, state, err)
	}
}

func ArchiveEmployeeHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ArchiveEmployeeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.EmployeeId = httputil.PathVar(r, "id")
		state, err := svc.ArchiveEmployee(r.Context(), req)
		respond(w, state, err)
	}
}

func SetActiveEmployeeHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SetActiveEmployeeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.EmployeeId = httputil.PathVar(r, "id")
		state, err := svc.SetActiveEmployee(r.Context(), req)
		respond(w, state, err)
	}
}

func CreateDepartmentHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateDepartmentRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateDepartment(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateDepartmentHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateDepartmentRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.DepartmentId = httputil.PathVar(r, "id")
		state, err := svc.UpdateDepartment(r.Context(), req)
		respond(w, state, err)
	}
}

func ArchiveDepartmentHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ArchiveDepartmentRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.DepartmentId = httputil.PathVar(r, "id")
		state, err := svc.ArchiveDepartment(r.Context(), req)
		respond(w, state, err)
	}
}

func CreateTeamHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateTeamRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateTeam(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateTeamHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateTeamRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.TeamId = httputil.PathVar(r, "id")
		state, err := svc.UpdateTeam(r.Context(), req)
		respond(w, state, err)
	}
}

func ArchiveTeamHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ArchiveTeamRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.TeamId = httputil.PathVar(r, "id")
		state, err := svc.ArchiveTeam(r.Context(), req)
		respond(w, state, err)
	}
}

func AssignTeamToDepartmentHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AssignTeamToDepartmentRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.AssignTeamToDepartment(r.Context(), req)
		respond(w, state, err)
	}
}

func RemoveTeamFromDepartmentHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RemoveTeamFromDepartmentRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.RemoveTeamFromDepartment(r.Context(), req)
		respond(w, state, err)
	}
}

func AssignEmployeeToTeamHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AssignEmployeeToTeamRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.AssignEmployeeToTeam(r.Context(), req)
		respond(w, state, err)
	}
}

func RemoveEmployeeFromTeamHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RemoveEmployeeFromTeamRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.RemoveEmployeeFromTeam(r.Context(), req)
		respond(w, state, err)
	}
}

func CreateActionItemHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateActionItemRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateActionItem(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateActionItemHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateActionItemRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.ActionItemId = httputil.PathVar(r, "id")
		state, err := svc.UpdateActionItem(r.Context(), req)
		respond(w, state, err)
	}
}

func DeleteActionItemHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DeleteActionItemRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.ActionItemId = httputil.PathVar(r, "id")
		state, err := svc.DeleteActionItem(r.Context(), req)
		respond(w, state, err)
	}
}

func StartActionItemsHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.StartActionItemsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.StartActionItems(r.Context(), req)
		respond(w, state, err)
	}
}

func CreateActionStatusHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateActionStatusRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateActionStatus(r.Context(), req)
		respond(w, state, err)
	}
}

func UpsertActionStatusHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpsertActionStatusRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.UpsertActionStatus(r.Context(), req)
		respond(w, state, err)
	}
}

func StartWorkdayHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.StartWorkdayRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.StartWorkday(r.Context(), req)
		respond(w, state, err)
	}
}

func HaltWorkdayHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.HaltWorkdayRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.HaltWorkday(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateEmployeeScheduleHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateEmployeeScheduleRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.UpdateEmployeeSchedule(r.Context(), req)
		respond(w, state, err)
	}
}

func CreateShiftHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateShiftRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		state, err := svc.CreateShift(r.Context(), req)
		respond(w, state, err)
	}
}

func UpdateShiftHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateShiftRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.ShiftId = httputil.PathVar(r, "id")
		state, err := svc.UpdateShift(r.Context(), req)
		respond(w, state, err)
	}
}

func DeleteShiftHandler(svc *workplace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DeleteShiftRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		req.ShiftId = httputil.PathVar(r, "id")
		state, err := svc.DeleteShift(r.Context(), req)
		respond(w, state, err)
	}
}
