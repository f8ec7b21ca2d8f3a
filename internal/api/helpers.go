package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	var detail string

	if originErr != nil {
		detail = originErr.Error()
		slog.ErrorContext(ctx, "api error", "error", detail, "status", code)
	} else {
		slog.WarnContext(ctx, "api error", "message", msgToSend, "status", code)
	}

	SendJSON(ctx, w, code, ErrorResponse{Message: msgToSend, Detail: detail})
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}
