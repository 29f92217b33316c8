package payouts_export_get

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
	"dispatch/internal/pkg/report"
	"dispatch/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParsePayoutFilter(r, time.Now().UTC())
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	payouts, err := h.service.GetPayouts(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePayouts(&buf, payouts); err != nil {
		httpx.WriteError(w, h.log, fmt.Errorf("build payouts report: %w", err))
		return
	}

	filename := fmt.Sprintf("payouts_%s_%s.xlsx", filter.From.Format(time.DateOnly), filter.To.Format(time.DateOnly))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("write payouts report", logger.Err(err))
	}
}
