package delivery_otp_qr_post

import (
	"fmt"
	"net/http"

	"dispatch/internal/handlers/rest/httpx"
	"dispatch/pkg/logger"

	"github.com/skip2/go-qrcode"
)

// qrSize сторона PNG в пикселях.
const qrSize = 256

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
	deliveryID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	code, err := h.service.GenerateOTP(r.Context(), deliveryID)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, qrSize)
	if err != nil {
		httpx.WriteError(w, h.log, fmt.Errorf("encode otp qr: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(png); err != nil {
		h.log.Warn("write otp qr", logger.NewField("delivery_id", deliveryID), logger.Err(err))
	}
}
