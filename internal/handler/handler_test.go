package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/middleware"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

// ── Service stubs ─────────────────────────────────────────────────────────────

// stubInvoiceSvc returns canned responses or a canned error.
type stubInvoiceSvc struct {
	resp *dto.InvoiceResponse
	err  error
}

func (s *stubInvoiceSvc) Prefill(context.Context, dto.PrefillFilter) (*dto.PrefillResponse, error) {
	return &dto.PrefillResponse{Items: []dto.InvoiceItemRequest{}}, s.err
}
func (s *stubInvoiceSvc) Create(context.Context, dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return s.resp, s.err
}
func (s *stubInvoiceSvc) Get(context.Context, uuid.UUID) (*dto.InvoiceResponse, error) {
	return s.resp, s.err
}
func (s *stubInvoiceSvc) Update(context.Context, uuid.UUID, dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return s.resp, s.err
}
func (s *stubInvoiceSvc) MarkPaid(context.Context, uuid.UUID, dto.MarkPaidRequest) (*dto.InvoiceResponse, error) {
	return s.resp, s.err
}
func (s *stubInvoiceSvc) Cancel(context.Context, uuid.UUID) (*dto.InvoiceResponse, error) {
	return s.resp, s.err
}
func (s *stubInvoiceSvc) Delete(context.Context, uuid.UUID) error { return s.err }
func (s *stubInvoiceSvc) List(context.Context, dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	return &dto.InvoiceListResponse{Data: []dto.InvoiceResponse{}}, s.err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func token(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: "tamar",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testEngine(svc *stubInvoiceSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	h := NewInvoicesHandler(svc)
	jwtMW := middleware.JWTAuth(testSecret)
	anyRole := middleware.RequireRole(middleware.RoleOperator, middleware.RoleAccountant, middleware.RoleAdmin)
	accounting := middleware.RequireRole(middleware.RoleAccountant, middleware.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	v1.POST("/invoices", anyRole, h.Create)
	v1.GET("/invoices/:id", anyRole, h.Get)
	v1.PUT("/invoices/:id", anyRole, h.Update)
	v1.POST("/invoices/:id/mark-paid", accounting, h.MarkPaid)
	return r
}

func doRequest(r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCreateBody() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CaseID:      uuid.NewString(),
		RecipientID: uuid.NewString(),
		SenderID:    uuid.NewString(),
		Currency:    model.CurrencyEUR,
	}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func TestMissingTokenIsUnauthorized(t *testing.T) {
	r := testEngine(&stubInvoiceSvc{})
	w := doRequest(r, http.MethodGet, "/v1/invoices/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorCannotMarkPaid(t *testing.T) {
	r := testEngine(&stubInvoiceSvc{resp: &dto.InvoiceResponse{}})
	w := doRequest(r, http.MethodPost, "/v1/invoices/"+uuid.NewString()+"/mark-paid",
		token(t, middleware.RoleOperator), dto.MarkPaidRequest{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccountantCanMarkPaid(t *testing.T) {
	r := testEngine(&stubInvoiceSvc{resp: &dto.InvoiceResponse{Status: model.InvoiceStatusPaid}})
	w := doRequest(r, http.MethodPost, "/v1/invoices/"+uuid.NewString()+"/mark-paid",
		token(t, middleware.RoleAccountant), dto.MarkPaidRequest{})
	assert.Equal(t, http.StatusOK, w.Code)
}

// ── Error mapping ─────────────────────────────────────────────────────────────

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing entity", apierror.MissingEntity("invoice", uuid.NewString()), http.StatusNotFound},
		{"state conflict", apierror.StateConflict("invoice is paid"), http.StatusConflict},
		{"validation", apierror.Validation("email", "required"), http.StatusUnprocessableEntity},
		{"transport", apierror.Transport(assert.AnError), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := testEngine(&stubInvoiceSvc{err: tc.err})
			w := doRequest(r, http.MethodPost, "/v1/invoices", token(t, middleware.RoleOperator), validCreateBody())
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestCreateHappyPath(t *testing.T) {
	r := testEngine(&stubInvoiceSvc{resp: &dto.InvoiceResponse{
		InvoiceNumber: "INV-000007",
		Status:        model.InvoiceStatusDraft,
	}})
	w := doRequest(r, http.MethodPost, "/v1/invoices", token(t, middleware.RoleOperator), validCreateBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INV-000007", resp.InvoiceNumber)
}

func TestCreateBadCurrencyFailsValidation(t *testing.T) {
	body := validCreateBody()
	body.Currency = "BTC"
	r := testEngine(&stubInvoiceSvc{resp: &dto.InvoiceResponse{}})
	w := doRequest(r, http.MethodPost, "/v1/invoices", token(t, middleware.RoleOperator), body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateNegativeFranchiseFailsValidation(t *testing.T) {
	neg := decimal.RequireFromString("-50.00")
	body := dto.UpdateInvoiceRequest{FranchiseAmount: &neg}
	r := testEngine(&stubInvoiceSvc{resp: &dto.InvoiceResponse{}})
	w := doRequest(r, http.MethodPut, "/v1/invoices/"+uuid.NewString(), token(t, middleware.RoleOperator), body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBadPathIDIsBadRequest(t *testing.T) {
	r := testEngine(&stubInvoiceSvc{resp: &dto.InvoiceResponse{}})
	w := doRequest(r, http.MethodGet, "/v1/invoices/not-a-uuid", token(t, middleware.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Document rendering ───────────────────────────────────────────────────────

// stubMailSvc serves a fixed PDF under a fixed (possibly Georgian) filename.
type stubMailSvc struct {
	filename string
}

func (s *stubMailSvc) RenderDocument(context.Context, uuid.UUID, string) ([]byte, string, error) {
	return []byte("%PDF-1.4 stub"), s.filename, nil
}
func (s *stubMailSvc) ComposePreview(context.Context, uuid.UUID) (*dto.PreviewResponse, error) {
	return nil, nil
}
func (s *stubMailSvc) Send(context.Context, uuid.UUID, dto.SendInvoiceRequest) (*dto.SendResultResponse, error) {
	return nil, nil
}
func (s *stubMailSvc) ListSends(context.Context, uuid.UUID) ([]dto.SendEventResponse, error) {
	return nil, nil
}
func (s *stubMailSvc) ApplyDeliveryCallback(context.Context, dto.DeliveryCallbackRequest) error {
	return nil
}

func documentEngine(mail *stubMailSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewDocumentsHandler(mail)
	r.GET("/v1/invoices/:id/document", middleware.JWTAuth(testSecret), h.Render)
	return r
}

func TestRenderDispositionDefaultsToInline(t *testing.T) {
	r := documentEngine(&stubMailSvc{filename: "Invoice-INV-000042.pdf"})
	w := doRequest(r, http.MethodGet, "/v1/invoices/"+uuid.NewString()+"/document", token(t, middleware.RoleOperator), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="Invoice-INV-000042.pdf"; filename*=UTF-8''Invoice-INV-000042.pdf`,
		w.Header().Get("Content-Disposition"))
}

func TestRenderGeorgianFilenameKeepsBothForms(t *testing.T) {
	// The plain parameter degrades to ASCII; the RFC 5987 form carries the
	// full Georgian prefix percent-encoded.
	r := documentEngine(&stubMailSvc{filename: "ინვოისი-INV-000042.pdf"})
	w := doRequest(r, http.MethodGet, "/v1/invoices/"+uuid.NewString()+"/document?disposition=attachment", token(t, middleware.RoleOperator), nil)
	require.Equal(t, http.StatusOK, w.Code)

	cd := w.Header().Get("Content-Disposition")
	assert.Contains(t, cd, `attachment; filename="-INV-000042.pdf"`)
	assert.Contains(t, cd, "filename*=UTF-8''%E1%83%98%E1%83%9C%E1%83%95%E1%83%9D%E1%83%98%E1%83%A1%E1%83%98-INV-000042.pdf")
}

func TestRenderRejectsUnknownLanguage(t *testing.T) {
	r := documentEngine(&stubMailSvc{filename: "Invoice-INV-000042.pdf"})
	w := doRequest(r, http.MethodGet, "/v1/invoices/"+uuid.NewString()+"/document?lang=de", token(t, middleware.RoleOperator), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
