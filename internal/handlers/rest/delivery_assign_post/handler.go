package delivery_assign_post

import (
	"errors"
	"net/http"

	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/dto"
	"dispatch/internal/handlers/rest/httpx"
	"dispatch/pkg/logger"
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

	var req dto.DeliveryAssign
	if err := httpx.DecodeOptional(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}

	var (
		delivery  *entities.Delivery
		assignErr error
	)
	if req.DriverID != nil {
		delivery, assignErr = h.service.AssignDeliveryToDriver(r.Context(), deliveryID, *req.DriverID)
	} else {
		delivery, assignErr = h.service.AutoAssignDelivery(r.Context(), deliveryID)
	}
	if assignErr != nil {
		if errors.Is(assignErr, entities.ErrUnavailable) {
			h.log.Info("no driver for delivery", logger.NewField("delivery_id", deliveryID), logger.Err(assignErr))
		}
		httpx.WriteError(w, h.log, assignErr)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, dto.FromDelivery(delivery))
}
