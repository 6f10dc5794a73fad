package handlers

import (
	"net/http"

	"todo-app/internal/apperr"
	"todo-app/internal/http/middleware"
	"todo-app/internal/models"
	"todo-app/internal/todo"
)

type ItemHandler struct {
	todos *todo.Service
}

func NewItemHandler(todos *todo.Service) *ItemHandler {
	return &ItemHandler{todos: todos}
}

// GetItems returns the items of one list along with the list itself.
func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
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

	board, tasks, err := h.todos.ListTasks(r.Context(), userID, boardID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, map[string]interface{}{"items": tasks, "listInfo": board})
}

func (h *ItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		ListID models.ID `json:"listId"`
		Title  string    `json:"title"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.ListID <= 0 {
		writeError(w, r, apperr.Validation("listId is required"))
		return
	}

	id, err := h.todos.CreateTask(r.Context(), userID, int64(req.ListID), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, map[string]interface{}{"id": id})
}

// EditItem applies a partial update: title, status or both.
func (h *ItemHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Title  *string        `json:"title"`
		Status *models.Status `json:"status"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	upd := models.TaskUpdate{Title: req.Title, Status: req.Status}
	if err := h.todos.UpdateTask(r.Context(), userID, taskID, upd); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, nil)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	taskID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.todos.DeleteTask(r.Context(), userID, taskID); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, nil)
}
