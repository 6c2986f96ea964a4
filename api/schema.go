package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"
)

const maxBodyBytes = 1 << 20

// Request body schemas. They check shape only; blank strings are rejected by
// the mission service.
var (
	credentialsSchema = mustSchema(`{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": {"type": "string", "maxLength": 254},
			"password": {"type": "string", "maxLength": 72}
		}
	}`)

	createMissionSchema = mustSchema(`{
		"type": "object",
		"required": ["title", "description"],
		"properties": {
			"title": {"type": "string", "maxLength": 200},
			"description": {"type": "string", "maxLength": 5000}
		}
	}`)

	errorLogSchema = mustSchema(`{
		"type": "object",
		"required": ["message"],
		"properties": {
			"message": {"type": "string", "maxLength": 5000}
		}
	}`)
)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return rs
}

// decodeBody validates the request body against rs and decodes it into v.
// On failure it has already written a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, rs *jsonschema.Schema, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	if !json.Valid(data) {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}

	verrs, err := rs.ValidateBytes(r.Context(), data)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, strings.TrimSpace(e.PropertyPath+" "+e.Message))
		}
		http.Error(w, "Invalid request: "+strings.Join(msgs, "; "), http.StatusBadRequest)
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}
