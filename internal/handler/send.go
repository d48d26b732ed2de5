package handler

import (
	"net/http"

	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type SendHandler struct{ mail service.MailService }

func NewSendHandler(mail service.MailService) *SendHandler {
	return &SendHandler{mail: mail}
}

// Preview godoc
// @Summary      Preview the outgoing email
// @Description  Returns the resolved recipient, stored subject/body and the attachment list for the send dialog. Nothing is rendered or sent.
// @Tags         sends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice id"
// @Success      200 {object} dto.PreviewResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/{id}/send/preview [get]
func (h *SendHandler) Preview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.mail.ComposePreview(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Send godoc
// @Summary      Email the invoice
// @Description  Renders the PDF, sends the email synchronously and appends a send event to the ledger. A successful first send promotes a draft to unpaid. Transport failures are recorded as failed events and returned as 502.
// @Tags         sends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Invoice id"
// @Param        body body dto.SendInvoiceRequest true "Overrides (all optional)"
// @Success      200 {object} dto.SendResultResponse
// @Failure      409 {object} apierror.APIError
// @Failure      502 {object} apierror.APIError
// @Router       /v1/invoices/{id}/send [post]
func (h *SendHandler) Send(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SendInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.mail.Send(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SendHandler) ListSends(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.mail.ListSends(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
