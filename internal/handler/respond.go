package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/quests/internal/criteria"
	"github.com/dukerupert/quests/internal/query"
	"github.com/dukerupert/quests/internal/service"
	"github.com/dukerupert/quests/internal/websocket"
)

// Broadcaster receives an event after every successful mutation.
type Broadcaster interface {
	Broadcast(websocket.Event)
}

type alertBody struct {
	Error      string `json:"error"`
	EntityName string `json:"entityName"`
	ErrorKey   string `json:"errorKey"`
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAlert(w http.ResponseWriter, entity, key, msg string) {
	writeJSON(w, http.StatusBadRequest, alertBody{Error: msg, EntityName: entity, ErrorKey: key})
}

// writeError maps service and parse errors onto status codes.
func writeError(w http.ResponseWriter, logger *slog.Logger, entity string, err error) {
	var alert *service.AlertError
	switch {
	case errors.As(err, &alert):
		writeAlert(w, alert.Entity, alert.Key, alert.Message)
	case errors.Is(err, criteria.ErrInvalidFilter):
		writeAlert(w, entity, "badfilter", err.Error())
	case errors.Is(err, query.ErrInvalidPage):
		writeAlert(w, entity, "badpage", err.Error())
	case errors.Is(err, service.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		logger.Error("request failed", "entity", entity, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func decode(w http.ResponseWriter, r *http.Request, entity string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeAlert(w, entity, "badjson", "invalid JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeAlert(w, entity, "idinvalid", "invalid id")
		return 0, false
	}
	return id, true
}

func eagerLoad(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("eagerload"))
	return ok
}

func writePage[T any](w http.ResponseWriter, page service.Page[T]) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.TotalElements, 10))
	writeJSON(w, http.StatusOK, page.Content)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
