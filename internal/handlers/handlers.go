package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pantry/internal/events"
	applog "pantry/internal/log"
	"pantry/internal/pantry"
)

// RouteHome is the path of the pantry overview.
const RouteHome = "/"

const maxBodyBytes = 1 << 20

var (
	repository *pantry.Repository
	controller *pantry.Controller
	publisher  events.Publisher = events.Nop{}
)

// Configure wires the handler dependencies. A nil repository makes every
// store-backed handler answer 503; a nil publisher drops amount events.
func Configure(repo *pantry.Repository, pub events.Publisher) {
	repository = repo
	controller = nil
	if repo != nil {
		controller = pantry.NewController(repo)
	}
	if pub == nil {
		pub = events.Nop{}
	}
	publisher = pub
}

func storeAvailable(w http.ResponseWriter, r *http.Request) bool {
	if repository == nil {
		applog.Debug(r.Context(), "food item request without store", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

func foodCodeParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "code")
	code, err := strconv.Atoi(raw)
	if err != nil {
		applog.Debug(r.Context(), "invalid food code", "code", raw, "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid food code")
		return 0, false
	}
	return code, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		applog.Debug(r.Context(), "invalid request payload", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// writeStoreError maps a repository failure onto an HTTP status.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch pantry.Reason(err) {
	case pantry.ReasonNotFound:
		writeJSONError(w, http.StatusNotFound, pantry.ErrNotFound.Error())
	case pantry.ReasonInvalid:
		writeJSONError(w, http.StatusBadRequest, publicMessage(err))
	default:
		applog.Error(r.Context(), "food item store failure", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to reach the food item store")
	}
}

func publicMessage(err error) string {
	var opErr *pantry.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
