package worker

// Processes delivery-callback jobs from QueueDeliveryCallbacks: applies the
// transactional-email provider's webhook events (delivered/bounced/opened/
// clicked) to the send ledger.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/service"
)

// CallbackWorker applies provider delivery events to the send ledger.
type CallbackWorker struct {
	mail service.MailService
}

func NewCallbackWorker(mail service.MailService) *CallbackWorker {
	return &CallbackWorker{mail: mail}
}

func (w *CallbackWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload dto.DeliveryCallbackRequest
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &PermanentError{Err: err}
	}

	err := w.mail.ApplyDeliveryCallback(ctx, payload)
	if err == nil {
		log.Debug().
			Str("send_id", payload.SendID).
			Str("event", payload.Event).
			Msg("callback_worker: event applied")
		return nil
	}

	// Malformed payloads will not get better with retries — straight to the
	// DLQ. An unknown send id is retried: the provider can call back faster
	// than the send transaction commits; after maxAttempts it is genuinely
	// stale and lands in the DLQ anyway.
	var validation *apierror.ValidationError
	if errors.As(err, &validation) {
		return &PermanentError{Err: err}
	}
	return err
}
