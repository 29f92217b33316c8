package delivery_chat_post

import (
	"net/http"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
)

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

	var req dto.ChatMessageCreate
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	msg, err := h.service.AddChatMessage(r.Context(), deliveryID, entities.ChatSender(req.Sender), req.SenderID, req.Message)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusCreated, msg)
}
