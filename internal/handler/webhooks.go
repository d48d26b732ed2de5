package handler

import (
	"net/http"

	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WebhooksHandler receives the transactional-email provider's delivery
// callbacks. Events are acked immediately and applied to the send ledger
// asynchronously through the Redis queue, so provider retries and bursts
// never block on the database.
type WebhooksHandler struct{ dispatcher *worker.Dispatcher }

func NewWebhooksHandler(dispatcher *worker.Dispatcher) *WebhooksHandler {
	return &WebhooksHandler{dispatcher: dispatcher}
}

func (h *WebhooksHandler) DeliveryCallback(c *gin.Context) {
	var req dto.DeliveryCallbackRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.dispatcher.EnqueueDeliveryCallback(c.Request.Context(), req); err != nil {
		// Queue down: tell the provider to retry later.
		log.Error().Err(err).Msg("failed to enqueue delivery callback")
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusAccepted)
}
