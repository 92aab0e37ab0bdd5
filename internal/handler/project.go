package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/service"
	"github.com/BuzzLyutic/project-tracker-api/pkg/respond"
)

type ProjectHandler struct {
	service *service.ProjectService
	tasks   *service.TaskService
	logger  *zap.Logger
}

func NewProjectHandler(srv *service.ProjectService, tasks *service.TaskService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: srv,
		tasks:   tasks,
		logger:  logger,
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	location, err := queryEnum[model.Location](r, "location")
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	filter := model.ProjectFilter{Location: location, Name: queryString(r, "name")}

	projects, err := h.service.List(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, projects)
}

// createProjectRequest carries the fields a client may set; id and owner are
// assigned by the server.
type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	idempKey := r.Header.Get("Idempotency-Key")
	project, err := h.service.Create(r.Context(), currentUser(r).ID, model.Project{
		Name:        req.Name,
		Description: req.Description,
	}, idempKey)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/projects/%d", project.ID))
	respond.JSON(w, r, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch model.ProjectPatch
	if err := respond.Decode(r, &patch); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.service.Update(r.Context(), currentUser(r).ID, id, patch)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stats, err := h.tasks.ProjectStats(r.Context(), currentUser(r).ID, id)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}
