package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/auth"
	"github.com/BuzzLyutic/project-tracker-api/internal/service"
)

type Services struct {
	Users       *service.UserService
	Projects    *service.ProjectService
	Memberships *service.MembershipService
	Tasks       *service.TaskService
}

func NewRouter(s Services, verifier *auth.Verifier, logger *zap.Logger) http.Handler {
	projects := NewProjectHandler(s.Projects, s.Tasks, logger)
	memberships := NewMembershipHandler(s.Memberships, logger)
	tasks := NewTaskHandler(s.Tasks, logger)
	users := NewUserHandler(s.Users, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(verifier, s.Users, logger))

		r.Get("/users", users.List)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.Post("/", projects.Create)
			r.Get("/{id}", projects.Get)
			r.Patch("/{id}", projects.Update)
			r.Delete("/{id}", projects.Delete)
			r.Get("/{id}/stats", projects.Stats)
		})

		r.Route("/memberships", func(r chi.Router) {
			r.Get("/", memberships.List)
			r.Post("/", memberships.Create)
			r.Get("/{id}", memberships.Get)
			r.Patch("/{id}", memberships.Update)
			r.Delete("/{id}", memberships.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.List)
			r.Post("/", tasks.Create)
			r.Get("/{id}", tasks.Get)
			r.Patch("/{id}", tasks.Update)
			r.Delete("/{id}", tasks.Delete)
		})
	})

	return r
}
