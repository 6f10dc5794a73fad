package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"todo-app/internal/apperr"
	"todo-app/internal/http/middleware"
)

// writeError maps an application error onto a status code and a client-safe
// message. Internal errors are logged and never echoed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		msg := apperr.Detail(err)
		if msg == "" {
			msg = "Invalid request"
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
	case errors.Is(err, apperr.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, apperr.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
	default:
		slog.Error("request failed",
			"request_id", middleware.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses the {id} route variable. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}

// currentUser returns the id stored by middleware.RequireSession.
func currentUser(r *http.Request) (int64, error) {
	id, found := middleware.UserID(r.Context())
	if !found {
		return 0, apperr.ErrUnauthorized
	}
	return id, nil
}

func ok(w http.ResponseWriter, extra map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	middleware.JSONResponse(w, http.StatusOK, body)
}
