package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
)

// quietPaths are scraped or probed constantly and never access-logged.
var quietPaths = map[string]bool{"/metrics": true, "/favicon.ico": true}

type accessWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *accessWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *accessWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *accessWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Hijack keeps the admin websocket upgrade working through this wrapper.
func (w *accessWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		w.status = http.StatusSwitchingProtocols
		return h.Hijack()
	}
	return nil, nil, errors.New("middleware: hijack not supported")
}

// Logger puts a request_id tagged logger into the context for
// logger.WithCtx and writes one access line per request. 5xx lines are
// errors, 4xx warnings. Run it after reqid.Middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), log))

		if quietPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		began := time.Now()
		aw := &accessWriter{ResponseWriter: w}
		next.ServeHTTP(aw, r)
		if aw.status == 0 {
			aw.status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", metrics.Route(r),
			"status", aw.status,
			"bytes", aw.bytes,
			"took_ms", time.Since(began).Milliseconds(),
			"ip", clientIP(r),
		}
		if ua := r.UserAgent(); ua != "" && !strings.HasPrefix(ua, "Go-http-client") {
			attrs = append(attrs, "ua", ua)
		}
		log.Log(r.Context(), logger.LevelFor(aw.status), r.Method+" "+r.URL.Path, attrs...)
	})
}
