package healthcheck_head

import (
	"net/http"
	"sync/atomic"
)

type Handler struct {
	isShuttingDown *atomic.Bool
	pinger         Pinger
}

// New pinger может быть nil, тогда проверяется только остановка.
func New(isShuttingDown *atomic.Bool, pinger Pinger) *Handler {
	return &Handler{
		isShuttingDown: isShuttingDown,
		pinger:         pinger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isShuttingDown.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
