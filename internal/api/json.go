package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

type msgResponse struct {
	Message string `json:"message"`
}

// messageBody is used by the form endpoints, whose clients read a
// human-facing "message" field on both success and failure.
func messageBody(msg string) msgResponse {
	return msgResponse{Message: msg}
}
