package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"achievify/middleware"
	"achievify/store"
)

type GoalHandler struct {
	goals store.GoalStore
}

func NewGoalHandler(goals store.GoalStore) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type createGoalRequest struct {
	Text     string  `json:"text"`
	DueDate  *string `json:"dueDate"`
	Category string  `json:"category"`
	Priority string  `json:"priority"`
}

// updateGoalRequest keeps absent and null apart. Pointer fields are nil when
// not sent; dueDate stays raw so that an explicit null can clear the date.
type updateGoalRequest struct {
	Text      *string         `json:"text"`
	Completed *bool           `json:"completed"`
	DueDate   json.RawMessage `json:"dueDate"`
	Category  *string         `json:"category"`
	Priority  *string         `json:"priority"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	goals, err := h.goals.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Goal text cannot be empty")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Goal text cannot be empty")
		return
	}

	goal, err := h.goals.Create(r.Context(), user.ID, store.NewGoal{
		Text:     text,
		DueDate:  req.DueDate,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	goalID := chi.URLParam(r, "id")

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	patch := store.GoalPatch{
		Completed: req.Completed,
		Category:  req.Category,
		Priority:  req.Priority,
	}
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			writeError(w, http.StatusBadRequest, "Goal text cannot be empty")
			return
		}
		patch.Text = &text
	}
	if len(req.DueDate) > 0 {
		if bytes.Equal(req.DueDate, []byte("null")) {
			patch.ClearDue = true
		} else {
			var due string
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				writeError(w, http.StatusBadRequest, "dueDate must be a string or null")
				return
			}
			patch.DueDate = &due
		}
	}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	goal, err := h.goals.Update(r.Context(), user.ID, goalID, patch)
	if err != nil {
		writeGoalError(w, goalID, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	goalID := chi.URLParam(r, "id")

	if err := h.goals.Delete(r.Context(), user.ID, goalID); err != nil {
		writeGoalError(w, goalID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
}

// writeGoalError maps store failures for a single goal. Not-found and
// wrong-owner are deliberately indistinguishable.
func writeGoalError(w http.ResponseWriter, goalID string, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "'"+goalID+"' is not a valid goal ID.")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Goal not found or permission denied")
	default:
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
