package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"taskdesk.org/internal/audit"
	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/task"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Category    string `json:"category"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Category    *string `json:"category"`
	SortOrder   *int64  `json:"sort_order"`
}

func (a *API) handleTasksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTasks(w, r)
	case http.MethodPost:
		a.createTask(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTaskResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getTask(w, r, id)
	case http.MethodPut:
		a.updateTask(w, r, id)
	case http.MethodDelete:
		a.deleteTask(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requireOperation(w, r, auth.OpTaskList)
	if !ok {
		return
	}
	tasks, err := a.tasks.List(r.Context(), principal.OrgID)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := a.requireOperation(w, r, auth.OpTaskGet)
	if !ok {
		return
	}
	t, err := a.tasks.Get(r.Context(), principal.OrgID, id)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requireOperation(w, r, auth.OpTaskCreate)
	if !ok {
		return
	}
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := a.tasks.Create(r.Context(), principal.OrgID, task.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         task.Status(req.Status),
		Category:       req.Category,
		CreatedByEmail: principal.Email,
	})
	if err != nil {
		handleTaskError(w, r, err)
		return
	}

	audit.LogEvent(r.Context(), "task.create", map[string]any{
		"task_id": t.ID,
		"title":   t.Title,
	})

	w.Header().Set("Location", "/v1/tasks/"+t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := a.requireOperation(w, r, auth.OpTaskUpdate)
	if !ok {
		return
	}
	var req updateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := task.Update{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		SortOrder:   req.SortOrder,
	}
	if req.Status != nil {
		st := task.Status(*req.Status)
		upd.Status = &st
	}

	t, err := a.tasks.Update(r.Context(), principal.OrgID, id, upd)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}

	audit.LogEvent(r.Context(), "task.update", map[string]any{
		"task_id": t.ID,
	})

	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := a.requireOperation(w, r, auth.OpTaskDelete)
	if !ok {
		return
	}
	if err := a.tasks.Delete(r.Context(), principal.OrgID, id); err != nil {
		handleTaskError(w, r, err)
		return
	}

	audit.LogEvent(r.Context(), "task.delete", map[string]any{
		"task_id": id,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func handleTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "task not found")
	case errors.Is(err, task.ErrEmptyTitle):
		writeError(w, r, http.StatusBadRequest, task.ErrEmptyTitle.Error())
	case errors.Is(err, task.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, task.ErrInvalidStatus.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
