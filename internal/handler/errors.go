package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker-api/internal/access"
	"github.com/BuzzLyutic/project-tracker-api/internal/repo"
	"github.com/BuzzLyutic/project-tracker-api/internal/service"
	"github.com/BuzzLyutic/project-tracker-api/pkg/respond"
)

const deniedMessage = "you do not have permission to perform this action"

// handleErrors maps service outcomes onto status codes. Anything it does not
// recognise is a 500; it is never treated as success.
func handleErrors(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, access.ErrDenied):
		respond.Error(w, r, http.StatusForbidden, deniedMessage)
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

// pathID reads the {id} URL parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

func queryInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("query parameter " + key + " must be an integer")
	}
	return &v, nil
}

func queryEnum[T ~int](r *http.Request, key string) (*T, error) {
	v, err := queryInt64(r, key)
	if v == nil || err != nil {
		return nil, err
	}
	e := T(*v)
	return &e, nil
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
