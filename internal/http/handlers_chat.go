package http

import (
	"log/slog"
	"net/http"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// handleChat answers a user question. Model failures never surface here:
// the chat service falls back to the deterministic advice engine, so a
// non-2xx status always means a ledger problem, not a model one.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := sanitizeInput(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.chat.Reply(r.Context(), userIDFrom(r), message)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to answer chat message", "error", err, "user_id", userIDFrom(r))
		writeError(w, http.StatusInternalServerError, "could not answer message")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
