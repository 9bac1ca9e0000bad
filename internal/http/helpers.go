package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finbuddy/internal/core"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the standard {"error": string} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into dst, preserving numeric
// precision via json.Number.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// userIDFrom returns the authenticated user id placed in the context by
// requireAuth.
func userIDFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

// parseAmount converts a JSON number to cents. With allowZero set, empty
// and zero values are accepted and map to 0 cents (used for income and
// savings goal); otherwise the amount must be strictly positive.
func parseAmount(n json.Number, allowZero bool) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		if allowZero {
			return 0, nil
		}
		return 0, core.ErrInvalidAmount
	}

	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		if allowZero {
			if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == 0 {
				return 0, nil
			}
		}
		return 0, err
	}
	return cents, nil
}

// validEmail reports whether the address has a plausible mailbox@domain
// shape. Deliverability is not checked.
func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
