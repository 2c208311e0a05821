package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/ui"
	"github.com/meltforce/trailmark/internal/workout"
)

// frame is the response to every session event: the resulting state plus the
// render commands the client must apply, in order.
type frame struct {
	State    session.State        `json:"state"`
	MapReady bool                 `json:"map_ready"`
	Commands []ui.Command         `json:"commands"`
	Workout  *workout.View        `json:"workout,omitempty"`
	Error    string               `json:"error,omitempty"`
	Fields   []workout.FieldError `json:"fields,omitempty"`
}

type startRequest struct {
	Position *workout.Coordinates `json:"position"`
	Error    string               `json:"error"`
}

// createRequest logs a workout without a client map: the location and the
// form values travel together.
type createRequest struct {
	Coordinates workout.Coordinates `json:"coordinates"`
	session.FormFields
}

type typeRequest struct {
	Type string `json:"type"`
}

// dispatch runs fn on the session loop and answers with the frame it filled.
// Commands queued by events from other sources (MCP) since the last frame
// are delivered first.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, fn func(f *frame) int) {
	var f frame
	status := http.StatusOK
	err := s.loop.Do(r.Context(), func() {
		status = fn(&f)
		f.State = s.ctrl.State()
		f.MapReady = s.ctrl.MapReady()
		f.Commands = s.rec.Drain()
	})
	if err != nil {
		s.log.Error("session event failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, status, f)
}

// fail records err on the frame and returns the matching status.
func (f *frame) fail(err error) int {
	f.Error = err.Error()
	var ve *workout.ValidationError
	switch {
	case errors.As(err, &ve):
		f.Fields = ve.Fields
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrInvalidEvent):
		return http.StatusConflict
	case errors.Is(err, workout.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, func(*frame) int { return http.StatusOK })
}

// handleStart begins the session with the position the client obtained. A
// client reconnecting to a started session gets its view replayed instead.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.dispatch(w, r, func(f *frame) int {
		if s.ctrl.State() != session.Initializing {
			s.ctrl.Replay()
			return http.StatusOK
		}
		s.report(req)
		if err := s.ctrl.Start(r.Context()); err != nil {
			if errors.Is(err, session.ErrLocationUnavailable) {
				// The session carries on without a map.
				f.Error = err.Error()
				return http.StatusOK
			}
			return f.fail(err)
		}
		return http.StatusOK
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.dispatch(w, r, func(f *frame) int {
		// Without a new report the last known position is reused.
		if req.Position != nil || req.Error != "" {
			s.report(req)
		}
		if err := s.ctrl.Reset(r.Context()); err != nil {
			if errors.Is(err, session.ErrLocationUnavailable) {
				f.Error = err.Error()
				return http.StatusOK
			}
			return f.fail(err)
		}
		return http.StatusOK
	})
}

func (s *Server) report(req startRequest) {
	if req.Position != nil {
		s.pos.Report(*req.Position)
		return
	}
	reason := req.Error
	if reason == "" {
		reason = "no position reported"
	}
	s.pos.Deny(reason)
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var coords workout.Coordinates
	if err := json.NewDecoder(r.Body).Decode(&coords); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.dispatch(w, r, func(f *frame) int {
		if err := s.ctrl.LocationPicked(coords); err != nil {
			return f.fail(err)
		}
		return http.StatusOK
	})
}

func (s *Server) handleTypeChanged(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	kind, err := workout.ParseKind(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.dispatch(w, r, func(f *frame) int {
		if err := s.ctrl.TypeChanged(kind); err != nil {
			return f.fail(err)
		}
		return http.StatusOK
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var fields session.FormFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.dispatch(w, r, func(f *frame) int {
		rec, err := s.ctrl.Submit(r.Context(), fields)
		if err != nil {
			return f.fail(err)
		}
		v := workout.NewView(rec)
		f.Workout = &v
		return http.StatusCreated
	})
}

// handleFocus pans the map to a listed workout. Clicks the controller
// ignores still answer 200 with no commands.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.dispatch(w, r, func(*frame) int {
		s.ctrl.ItemClicked(id)
		return http.StatusOK
	})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	var kind workout.Kind
	if t := r.URL.Query().Get("type"); t != "" {
		k, err := workout.ParseKind(t)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		kind = k
	}

	records, err := s.svc.Workouts(r.Context(), kind)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workout.NewViews(records))
}

// handleCreateWorkout picks a location and submits the form in one session
// event. The resulting render commands reach the map client with its next frame.
func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	rec, err := s.svc.Log(r.Context(), req.Coordinates, req.FormFields)
	if err != nil {
		var f frame
		status := f.fail(err)
		if status == http.StatusInternalServerError {
			s.log.Error("create workout", "error", err)
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"error": f.Error, "fields": f.Fields})
		return
	}
	writeJSON(w, http.StatusCreated, workout.NewView(rec))
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.svc.Workout(r.Context(), id)
	if errors.Is(err, workout.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workout.NewView(rec))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
