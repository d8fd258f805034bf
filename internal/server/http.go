package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
func (s *Server) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /about", s.handleAbout)
	mux.HandleFunc("GET /param", s.handleParamIndex)
	mux.HandleFunc("GET /param/{name}", s.handleParam)
	mux.HandleFunc("GET /param/change", s.handleChangesIndex)
	mux.HandleFunc("GET /param/change/{v1}/{v2}", s.handleChanges)
	mux.HandleFunc("GET /custom", s.handleCustomIndex)
	mux.HandleFunc("GET /custom/{version}", s.handleCustomForm)
	mux.HandleFunc("POST /custom/{version}", s.handleCustomSubmit)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("POST /admin/reload", s.adminAuth(http.HandlerFunc(s.handleAdminReload)))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)
	return s.instrument(mux)
}

// adminAuth checks the Authorization header for a valid bearer token. When
// the configured token is empty, auth is disabled and all requests pass
// through.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	if s.adminToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}
		provided := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument wraps the mux with request logging and Prometheus counters.
// The route label is the matched pattern, not the raw path, so label
// cardinality stays bounded.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		duration := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		requestDuration.WithLabelValues(route).Observe(duration.Seconds())

		s.logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", duration,
		)
	})
}

// statusWriter records the status code written to the response.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
