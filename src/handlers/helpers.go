package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	db "budget-planner-server/src/db/sql"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeStoreError maps a data-store failure to a safe response. Ownership
// misses surface as a plain not-found; timeouts and connectivity problems
// become a generic 503 with no internals leaked.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func userIDFromContext(r *http.Request) int64 {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		log.Printf("ERROR: Missing user_id in request context for %s %s", r.Method, r.URL.Path)
	}
	return userID
}
