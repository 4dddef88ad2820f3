package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}
	return nil
}

// warnIfNotPersisted flags responses for mutations whose state is correct in
// memory but may not have reached durable storage.
func warnIfNotPersisted(w http.ResponseWriter) {
	if inventory.LastPersistError() != nil {
		w.Header().Set("Warning", `199 - "changes may not survive a restart"`)
	}
}
