package handler

import (
	"net/http"

	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// Prefill godoc
// @Summary      Suggest invoice contents for the wizard
// @Description  Given a case, recipient, sender and currency, returns suggested line items (from the case's actions executed by the recipient, in the invoice currency) plus default email fields. Nothing is persisted.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        case_id      query string true  "Case id"
// @Param        recipient_id query string true  "Recipient partner id"
// @Param        sender_id    query string true  "Sender company id"
// @Param        currency     query string true  "GEL | USD | EUR"
// @Param        language     query string false "en | ka"
// @Success      200 {object} dto.PrefillResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/prefill [get]
func (h *InvoicesHandler) Prefill(c *gin.Context) {
	var filter dto.PrefillFilter
	if !bindAndValidateQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Prefill(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create an invoice draft
// @Description  Reserves the next invoice number and stores the draft. Omitted items are pre-populated from matching case actions; omitted email fields get generated defaults in the invoice language.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateInvoiceRequest true "Invoice draft"
// @Success      201 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationEnvelope
// @Router       /v1/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if !bindAndValidateQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Edit an invoice
// @Description  Replaces the provided fields and recomputes derived totals. Rejected with 409 once the invoice is paid or cancelled.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Invoice id"
// @Param        body body dto.UpdateInvoiceRequest true "Fields to change"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/invoices/{id} [put]
func (h *InvoicesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.MarkPaidRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
