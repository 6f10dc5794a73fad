package handlers

import (
	"net/http"

	"todo-app/internal/http/middleware"
	"todo-app/internal/todo"
)

type ListHandler struct {
	todos *todo.Service
}

func NewListHandler(todos *todo.Service) *ListHandler {
	return &ListHandler{todos: todos}
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	boards, err := h.todos.ListBoards(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, map[string]interface{}{"list": boards})
}

func (h *ListHandler) AddList(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req titleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	id, err := h.todos.CreateBoard(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, map[string]interface{}{"id": id})
}

func (h *ListHandler) EditList(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	boardID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req titleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := h.todos.RenameBoard(r.Context(), userID, boardID, req.Title); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, nil)
}

// DeleteList removes a board together with all of its items.
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	boardID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.todos.DeleteBoard(r.Context(), userID, boardID); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, nil)
}
