package httpx

import (
	"encoding/json"
	"net/http"

	"starterkit-server/internal/logging"
	"starterkit-server/pkg/requestctx"
)

// RequestIDHeader is the inbound and outbound correlation header.
const RequestIDHeader = "X-Request-ID"

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError standardizes error responses and logs with the request id.
func WriteError(w http.ResponseWriter, r *http.Request, he *HTTPError) {
	rid := requestctx.RequestID(r.Context())
	if rid != requestctx.None {
		w.Header().Set(RequestIDHeader, rid)
	}
	payload := map[string]any{
		"error": map[string]any{
			"code":       he.Code,
			"message":    he.Message,
			"request_id": rid,
		},
	}
	if he.Details != nil {
		payload["error"].(map[string]any)["details"] = he.Details
	}
	status := he.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	logger := logging.FromContext(r.Context())
	logger.Error().Str("code", he.Code).Err(he.Err).Msg("api.request_rejected")
	WriteJSON(w, status, payload)
}
