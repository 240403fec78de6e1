package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"macrolens/internal"
	apperrors "macrolens/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Warn("[API] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := apperrors.Classify(err)
	if status >= http.StatusInternalServerError {
		internal.DefaultLogger.Error("[API] %s: %v", code, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}
