package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jmcrae/relaycore/internal/relay"
)

// relayListResponse is the wire shape of a whole-bank read:
// {"relays":[{"id":0,"name":"Light 1","state":1}, ...]}.
type relayListResponse struct {
	Relays []relay.View `json:"relays"`
}

// bulkResponse is the wire shape of a successful bulk command.
type bulkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// stateChangedPayload is the WebSocket event payload for one state change.
type stateChangedPayload struct {
	relay.View
	Source string `json:"source"`
}

// parseRelayID extracts and validates the {id} path parameter.
//
// Two distinct failures map to two distinct HTTP statuses: garbage that
// is not a number at all is a malformed command (400), while a perfectly
// well-formed index that names no relay is a missing resource (404). The
// handlers branch on ErrInvalidTarget vs ErrNotFound accordingly.
func (s *Server) parseRelayID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", relay.ErrInvalidTarget, raw)
	}
	if id < 0 || id >= s.relays.Count() {
		return 0, fmt.Errorf("%w: index %d", relay.ErrNotFound, id)
	}
	return id, nil
}

// writeRelayError renders a relay lookup failure with the right status.
func writeRelayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, relay.ErrInvalidTarget):
		writeBadRequest(w, "Invalid relay ID")
	case errors.Is(err, relay.ErrNotFound):
		writeNotFound(w, "Relay not found")
	default:
		writeInternalError(w, "relay command failed")
	}
}

// handleToggle flips one relay.
//
// A debounce-rejected toggle still answers 200 with the relay's current
// state: callers cannot tell a dropped bounce from an applied command,
// which is exactly the contract.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := s.parseRelayID(r)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	view, _, err := s.relays.Toggle(r.Context(), id, relay.SourceHTTP)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleStatus reads one relay.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := s.parseRelayID(r)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	view, err := s.relays.Get(id)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleOn drives one relay on.
func (s *Server) handleOn(w http.ResponseWriter, r *http.Request) {
	s.handleSet(w, r, relay.StateOn)
}

// handleOff drives one relay off.
func (s *Server) handleOff(w http.ResponseWriter, r *http.Request) {
	s.handleSet(w, r, relay.StateOff)
}

// handleSet drives one relay to an explicit state.
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request, state relay.State) {
	id, err := s.parseRelayID(r)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	view, err := s.relays.Set(r.Context(), id, state, relay.SourceHTTP)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleAllStatus reads the whole bank in ascending index order.
func (s *Server) handleAllStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, relayListResponse{Relays: s.relays.All()})
}

// handleAllOn drives every relay on.
func (s *Server) handleAllOn(w http.ResponseWriter, r *http.Request) {
	s.handleSetAll(w, r, relay.StateOn)
}

// handleAllOff drives every relay off.
func (s *Server) handleAllOff(w http.ResponseWriter, r *http.Request) {
	s.handleSetAll(w, r, relay.StateOff)
}

// handleSetAll drives the whole bank to one state.
func (s *Server) handleSetAll(w http.ResponseWriter, r *http.Request, state relay.State) {
	if _, err := s.relays.SetAll(r.Context(), state, relay.SourceHTTP); err != nil {
		writeRelayError(w, err)
		return
	}

	message := "All relays OFF"
	if state == relay.StateOn {
		message = "All relays ON"
	}
	writeJSON(w, http.StatusOK, bulkResponse{Success: true, Message: message})
}

// handleHistory returns recent accepted state changes for one relay.
// Optional ?limit=N caps the result (default 50, max 200).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "History is disabled")
		return
	}

	id, err := s.parseRelayID(r)
	if err != nil {
		writeRelayError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeBadRequest(w, "Invalid limit")
			return
		}
	}

	entries, err := s.history.List(r.Context(), id, limit)
	if err != nil {
		s.logger.Error("listing relay history", "relay", id, "error", err)
		writeInternalError(w, "listing history failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"history": entries,
	})
}
