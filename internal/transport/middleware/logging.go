package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	maxLoggedBody = 2048
	redacted      = "[FILTERED]"
)

// sensitiveFields match case-insensitively as substrings of JSON keys and header names.
// "data" covers base64 document payloads.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"key",
	"session",
	"credential",
	"auth",
	"aadhaar",
	"pannumber",
	"bankaccount",
	"bankifsc",
	"dateofbirth",
	"data",
}

// quietPaths are probed by orchestrators and only logged at debug level.
var quietPaths = map[string]bool{
	"/api/v1/ping":   true,
	"/api/v1/health": true,
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

// LoggingMiddleware logs each request and its response with secrets and
// personal identifiers replaced. The trace id comes from the context logger.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			level := slog.LevelInfo
			if quietPaths[r.URL.Path] {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", captureRequestBody(r),
			)

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rec.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "response",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
				"body", redactBody(rec.head.Bytes()),
			)
		})
	}
}

// recordingWriter keeps the status, the size and the first bytes of the body.
type recordingWriter struct {
	http.ResponseWriter
	status int
	size   int
	head   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.size += len(b)
	if room := 4*maxLoggedBody - rw.head.Len(); room > 0 {
		rw.head.Write(b[:min(room, len(b))])
	}
	return rw.ResponseWriter.Write(b)
}

// captureRequestBody reads and restores the body. Multipart uploads are never buffered.
func captureRequestBody(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return "[multipart omitted]"
	}
	if r.Body == nil {
		return ""
	}
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	return redactBody(body)
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks sensitive JSON fields at any depth. Non-JSON bodies that
// mention a sensitive name are dropped whole.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return truncate(string(body))
	}

	out, err := json.Marshal(redactValue(parsed))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return truncate(string(out))
}

func redactValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for key, field := range val {
			if isSensitive(key) {
				out[key] = redacted
				continue
			}
			out[key] = redactValue(field)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = redactValue(item)
		}
		return out
	default:
		return v
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...[truncated]"
}
