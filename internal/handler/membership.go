package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/model"
	"github.com/BuzzLyutic/project-tracker-api/internal/service"
	"github.com/BuzzLyutic/project-tracker-api/pkg/respond"
)

type MembershipHandler struct {
	service *service.MembershipService
	logger  *zap.Logger
}

func NewMembershipHandler(srv *service.MembershipService, logger *zap.Logger) *MembershipHandler {
	return &MembershipHandler{service: srv, logger: logger}
}

func (h *MembershipHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		filter model.MembershipFilter
		err    error
	)
	if filter.ProjectID, err = queryInt64(r, "project"); err == nil {
		if filter.Tier, err = queryEnum[model.Tier](r, "tier"); err == nil {
			filter.Location, err = queryEnum[model.Location](r, "location")
		}
	}
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	memberships, err := h.service.List(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, memberships)
}

type createMembershipRequest struct {
	ProjectID int64          `json:"project"`
	SubjectID int64          `json:"subject"`
	Tier      model.Tier     `json:"tier"`
	Location  model.Location `json:"location"`
}

func (h *MembershipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMembershipRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	membership, err := h.service.Create(r.Context(), currentUser(r).ID, model.Membership{
		ProjectID: req.ProjectID,
		SubjectID: req.SubjectID,
		Tier:      req.Tier,
		Location:  req.Location,
	})
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/memberships/%d", membership.ID))
	respond.JSON(w, r, http.StatusCreated, membership)
}

func (h *MembershipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	membership, err := h.service.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, membership)
}

func (h *MembershipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch model.MembershipPatch
	if err := respond.Decode(r, &patch); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	membership, err := h.service.Update(r.Context(), currentUser(r).ID, id, patch)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, membership)
}

func (h *MembershipHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
