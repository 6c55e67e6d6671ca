package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	handler "github.com/goldenloop/workplace/internal/handler/workplace"
	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/workplace"
)

// Router builds the HTTP surface over the workplace service. Every command
// of the engine is reachable here; responses are always the full
// post-mutation state snapshot.
func Router(svc *workplace.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Route("/api/workplace", func(r chi.Router) {
		r.Get("/state", handler.GetStateHandler(svc))

		r.Post("/companies", handler.CreateCompanyHandler(svc))
		r.Patch("/companies/{id}", handler.UpdateCompanyHandler(svc))
		r.Delete("/companies/{id}", handler.DeleteCompanyHandler(svc))
		r.Post("/companies/{id}/activate", handler.SetActiveCompanyHandler(svc))
		r.Post("/companies/{id}/favorite", handler.SetCompanyFavoriteHandler(svc))
		r.Put("/owner-defaults", handler.SetOwnerProfileDefaultsHandler(svc))

		r.Post("/employees", handler.CreateEmployeeHandler(svc))
		r.Patch("/employees/{id}", handler.UpdateEmployeeHandler(svc))
		r.Post("/employees/{id}/archive", handler.ArchiveEmployeeHandler(svc))
		r.Post("/employees/{id}/activate", handler.SetActiveEmployeeHandler(svc))

		r.Post("/departments", handler.CreateDepartmentHandler(svc))
		r.Patch("/departments/{id}", handler.UpdateDepartmentHandler(svc))
		r.Post("/departments/{id}/archive", handler.ArchiveDepartmentHandler(svc))

		r.Post("/teams", handler.CreateTeamHandler(svc))
		r.Patch("/teams/{id}", handler.UpdateTeamHandler(svc))
		r.Post("/teams/{id}/archive", handler.ArchiveTeamHandler(svc))
		r.Post("/teams/assign-department", handler.AssignTeamToDepartmentHandler(svc))
		r.Post("/teams/remove-department", handler.RemoveTeamFromDepartmentHandler(svc))
		r.Post("/teams/assign-employee", handler.AssignEmployeeToTeamHandler(svc))
		r.Post("/teams/remove-employee", handler.RemoveEmployeeFromTeamHandler(svc))

		r.Post("/action-items", handler.CreateActionItemHandler(svc))
		r.Patch("/action-items/{id}", handler.UpdateActionItemHandler(svc))
		r.Delete("/action-items/{id}", handler.DeleteActionItemHandler(svc))
		r.Post("/action-items/start", handler.StartActionItemsHandler(svc))
		r.Post("/action-statuses", handler.CreateActionStatusHandler(svc))
		r.Put("/action-statuses", handler.UpsertActionStatusHandler(svc))

		r.Post("/workday/start", handler.StartWorkdayHandler(svc))
		r.Post("/workday/halt", handler.HaltWorkdayHandler(svc))
		r.Put("/workday/schedule", handler.UpdateEmployeeScheduleHandler(svc))

		r.Post("/shifts", handler.CreateShiftHandler(svc))
		r.Patch("/shifts/{id}", handler.UpdateShiftHandler(svc))
		r.Delete("/shifts/{id}", handler.DeleteShiftHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// Run serves the router until the context is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, svc *workplace.Service) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("workplace server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		return err
	}
}
