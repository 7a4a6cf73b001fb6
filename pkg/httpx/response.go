package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// JSON writes v as JSON with the given status code. Encoding errors are
// dropped because the status line is already on the wire.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message, "code": STATUS_CODE}, the same shape
// errhttp uses for domain errors, so clients parse one error body.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{
		"error": message,
		"code":  StatusCode(status),
	})
}

// StatusCode turns an HTTP status into a machine code, e.g. 401 -> "UNAUTHORIZED".
func StatusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text)
	return strings.ToUpper(text)
}

// SafeError hides the message of 5xx errors in production; the real error is
// reported to Sentry by the caller.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
