package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tradeguard/dashkit/pkg/logger"
)

// Probe checks one dependency, such as the Redis connection behind the
// broadcast fan-out.
type Probe func(ctx context.Context) error

// Health returns a handler serving liveness and readiness in one route.
// With no probes it always answers 200 "ALIVE". With probes it runs each on
// the request context and answers 200 "READY" or 503 "NOT_READY".
func Health(log *slog.Logger, probes ...Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(probes) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, probe := range probes {
			if err := probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness probe failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
