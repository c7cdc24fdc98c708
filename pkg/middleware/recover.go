package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// Recovery turns a handler panic into a 500 envelope, logs the stack and
// counts it per route. http.ErrAbortHandler is re-raised so net/http can
// drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			route := metrics.Route(r)
			metrics.PanicsRecovered.WithLabelValues(route).Inc()
			logger.WithCtx(r.Context()).Error("handler panic",
				"panic", fmt.Sprint(v),
				"route", route,
				"method", r.Method,
				"stack", string(debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
