/*
handlers.go - HTTP API handlers for the exercise quota engine

PURPOSE:
  Exposes the tracker via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the tracker; no quota logic lives here.

ENDPOINTS:
  Exercises:
    GET    /api/exercises               List all exercises
    POST   /api/exercises               Create exercise
    GET    /api/exercises/{id}          Get one exercise
    PUT    /api/exercises/{id}          Edit settings (never remaining)
    DELETE /api/exercises/{id}          Delete exercise
    POST   /api/exercises/{id}/log      Log repetitions {"amount": n}
    POST   /api/exercises/{id}/target   Add one daily quota to today
    GET    /api/exercises/{id}/stats    Streaks, totals, weekly progress
    GET    /api/exercises/{id}/history  Recent ledger rows (?days=N)

  Quick actions:
    GET    /api/quick?dec=N             Log N against an exercise
    GET    /api/quick?add=N             Add N daily quotas
                                        (&exercise=name picks the target)

  Backup:
    GET    /api/export                  Download the collection as JSON
    POST   /api/import                  Replace the collection

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, empty quick action
  - 404: Exercise not found
  - 422: Import payload is not a JSON array
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/tracker"
)

const (
	defaultHistoryDays = 14
	maxHistoryDays     = 90
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker *tracker.Tracker
}

// NewHandler creates a new handler over the tracker.
func NewHandler(tr *tracker.Tracker) *Handler {
	return &Handler{Tracker: tr}
}

// =============================================================================
// EXERCISE HANDLERS
// =============================================================================

// ListExercises returns all exercises, rolled over to today.
func (h *Handler) ListExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toExerciseDTOs(h.Tracker.List(r.Context())))
}

// CreateExercise creates an exercise with today's quota planned.
func (h *Handler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Tracker.Create(r.Context(), tracker.CreateParams{
		Name:                req.Name,
		DailyTarget:         req.DailyTarget,
		DecrementStep:       req.DecrementStep,
		CompletionThreshold: req.CompletionThreshold,
		WeeklyGoal:          req.WeeklyGoal,
		QuickSteps:          req.QuickSteps,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExerciseDTO(e))
}

// GetExercise returns a single exercise.
func (h *Handler) GetExercise(w http.ResponseWriter, r *http.Request) {
	e, err := h.Tracker.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExerciseDTO(e))
}

// UpdateExercise edits exercise settings.
func (h *Handler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	var req UpdateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Tracker.Update(r.Context(), chi.URLParam(r, "id"), tracker.UpdateParams{
		Name:                req.Name,
		DailyTarget:         req.DailyTarget,
		DecrementStep:       req.DecrementStep,
		CompletionThreshold: req.CompletionThreshold,
		WeeklyGoal:          req.WeeklyGoal,
		QuickSteps:          req.QuickSteps,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExerciseDTO(e))
}

// DeleteExercise removes an exercise.
func (h *Handler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOGGING HANDLERS
// =============================================================================

// LogExercise records repetitions against today.
func (h *Handler) LogExercise(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Tracker.LogDone(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExerciseDTO(e))
}

// AddTarget adds one more daily quota to today.
func (h *Handler) AddTarget(w http.ResponseWriter, r *http.Request) {
	e, err := h.Tracker.AddTarget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExerciseDTO(e))
}

// QuickAction applies a one-shot action from URL parameters.
// GET /api/quick?dec=N or ?add=N, optionally &exercise=name.
// A present-but-malformed value is rejected outright rather than
// treated as absent, so the caller can tell a typo from a bare URL.
func (h *Handler) QuickAction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dec, err := queryInt(q.Get("dec"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "dec must be an integer", err)
		return
	}
	add, err := queryInt(q.Get("add"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "add must be an integer", err)
		return
	}

	res, err := h.Tracker.QuickAction(r.Context(), tracker.QuickAction{
		Dec:      dec,
		AddTimes: add,
		Exercise: q.Get("exercise"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuickActionResponse{
		Action:   res.Action,
		Amount:   res.Amount,
		Exercise: toExerciseDTO(res.Exercise),
	})
}

// =============================================================================
// DERIVED VIEW HANDLERS
// =============================================================================

// GetStats returns streaks, totals and weekly progress.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Tracker.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// GetHistory returns the trailing ledger rows, oldest first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer", err)
			return
		}
		if n > maxHistoryDays {
			n = maxHistoryDays
		}
		days = n
	}

	view, err := h.Tracker.History(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTO(view))
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ExportCollection downloads the collection in backup format.
func (h *Handler) ExportCollection(w http.ResponseWriter, r *http.Request) {
	data, err := h.Tracker.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Export failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="exercises-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportCollection replaces the collection from a backup payload.
func (h *Handler) ImportCollection(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	if err := h.Tracker.Import(r.Context(), data); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: len(h.Tracker.List(r.Context()))})
}

// =============================================================================
// HELPERS
// =============================================================================

// queryInt parses an optional integer query value; absent reads as 0.
func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps tracker/exercise errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exercise.ErrNotFound):
		writeError(w, http.StatusNotFound, "Exercise not found", err)
	case errors.Is(err, exercise.ErrInvalidImport):
		writeError(w, http.StatusUnprocessableEntity, "Invalid import payload", err)
	case errors.Is(err, exercise.ErrEmptyName),
		errors.Is(err, exercise.ErrInvalidTarget),
		errors.Is(err, exercise.ErrInvalidStep),
		errors.Is(err, exercise.ErrInvalidAmount),
		errors.Is(err, tracker.ErrNoAction):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
