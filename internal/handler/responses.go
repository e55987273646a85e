package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"

	"evote-api/pkg/errors"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps a service error onto the wire. AppErrors carry their own
// status; anything else becomes a generic 500 without leaking internals.
func respondError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	respondJSON(w, appErr.StatusCode, map[string]interface{}{
		"message": appErr.Message,
		"type":    appErr.Type,
	})
}

// generateETag derives a content hash for polling endpoints
func generateETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}
