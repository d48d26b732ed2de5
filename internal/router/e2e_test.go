//go:build integration

package router_test

// End-to-end integration tests over real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// SMTP is deliberately left unreachable: the send path is asserted up to the
// transport boundary, including the failed send event it must leave behind.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"

	"github.com/Vebses/GeoAdmin-sub000/internal/config"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/infra"
	"github.com/Vebses/GeoAdmin-sub000/internal/middleware"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
	"github.com/Vebses/GeoAdmin-sub000/internal/router"
	"github.com/Vebses/GeoAdmin-sub000/internal/service"
	"github.com/Vebses/GeoAdmin-sub000/internal/worker"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

const testSecret = "e2e-secret-key-32-characters-min!"

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string

	caseID      string
	senderID    string
	recipientID string
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   "9e107d9d-372b-4f80-9191-7fdc30e5a2fc",
		Username: "e2e",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("invoicing_test"),
		tcPostgres.WithUsername("invoicing"),
		tcPostgres.WithPassword("invoicing"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		WorkerPoolSize:    1,
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		JWTSecret:         testSecret,
		SMTPHost:          "127.0.0.1",
		SMTPPort:          1, // nothing listens here on purpose
		SMTPFrom:          "invoices@e2e.test",
		AssetFetchTimeout: 2,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the collaborators the wizard needs.
	email := "claims@e2e.test"
	iban := "GE29TB7777777700003333"
	company := model.Company{LegalName: "GeoMed Assistance LLC", IBANEUR: &iban, Active: true}
	require.NoError(t, db.Create(&company).Error)
	partner := model.Partner{LegalName: "Euro Travel Insurance AG", Type: "insurer", Email: &email, Active: true}
	require.NoError(t, db.Create(&partner).Error)
	kase := model.Case{Number: "GA-2025-9001", PatientName: "Hans Mueller", Status: "open"}
	require.NoError(t, db.Create(&kase).Error)
	action := model.CaseAction{
		CaseID: kase.ID, ExecutorID: partner.ID,
		ServiceName: "Emergency consultation",
		ServiceCost: decimal.RequireFromString("150.00"), ServiceCurrency: model.CurrencyEUR,
	}
	require.NoError(t, db.Create(&action).Error)

	gin.SetMode(gin.TestMode)
	r, _ := router.New(cfg, router.Deps{
		DB:         db,
		RDB:        rdb,
		SMTPCB:     infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		Dispatcher: worker.NewDispatcher(rdb),
		Docs:       service.NewNoDocumentStore(),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:      srv,
		db:          db,
		token:       signToken(t, middleware.RoleAdmin),
		caseID:      kase.ID.String(),
		senderID:    company.ID.String(),
		recipientID: partner.ID.String(),
	}
}

func (env *testEnv) createInvoice(t *testing.T) dto.InvoiceResponse {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/invoices", jsonBody(t, map[string]any{
		"case_id":      env.caseID,
		"recipient_id": env.recipientID,
		"sender_id":    env.senderID,
		"currency":     "EUR",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	decodeJSON(t, resp, &inv)
	return inv
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestInvoiceLifecycleEndToEnd(t *testing.T) {
	env := setupTestEnv(t)

	inv := env.createInvoice(t)
	assert.Equal(t, "draft", inv.Status)
	assert.Regexp(t, `^INV-\d{6}$`, inv.InvoiceNumber)
	require.Len(t, inv.Items, 1, "EUR case action pre-populated")
	assert.Equal(t, "150", inv.Items[0].UnitPrice.String())

	// Edit: franchise comes off the total.
	resp := do(t, env.server, "PUT", "/v1/invoices/"+inv.ID, jsonBody(t, map[string]any{
		"franchise_amount": "30.00",
	}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.InvoiceResponse
	decodeJSON(t, resp, &updated)
	assert.Equal(t, "120", updated.Total.String())
	assert.Equal(t, "€120.00", updated.TotalDisplay)

	// Second invoice gets the next number from the sequence.
	second := env.createInvoice(t)
	assert.NotEqual(t, inv.InvoiceNumber, second.InvoiceNumber)
}

func TestDocumentRenderEndToEnd(t *testing.T) {
	env := setupTestEnv(t)
	inv := env.createInvoice(t)

	resp := do(t, env.server, "GET", "/v1/invoices/"+inv.ID+"/document", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inline")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF", buf.String()[:4])

	// Georgian render carries the localized filename in the UTF-8 form.
	resp = do(t, env.server, "GET", "/v1/invoices/"+inv.ID+"/document?lang=ka&disposition=attachment", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "filename*=UTF-8''")
}

func TestFailedSendLeavesLedgerEntry(t *testing.T) {
	env := setupTestEnv(t)
	inv := env.createInvoice(t)

	resp := do(t, env.server, "POST", "/v1/invoices/"+inv.ID+"/send", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode, "unreachable SMTP maps to 502")
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/invoices/"+inv.ID+"/sends", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []dto.SendEventResponse
	decodeJSON(t, resp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "failed", events[0].Status)
	assert.NotNil(t, events[0].ErrorMessage)

	// The failed attempt neither promoted the draft nor bumped the counter.
	resp = do(t, env.server, "GET", "/v1/invoices/"+inv.ID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after dto.InvoiceResponse
	decodeJSON(t, resp, &after)
	assert.Equal(t, "draft", after.Status)
	assert.Equal(t, 0, after.SendCount)
}

func TestCancelledInvoiceRejectsSend(t *testing.T) {
	env := setupTestEnv(t)
	inv := env.createInvoice(t)

	resp := do(t, env.server, "POST", fmt.Sprintf("/v1/invoices/%s/cancel", inv.ID), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/invoices/"+inv.ID+"/send", jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestWebhookEnqueuesCallback(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/webhooks/email-delivery", jsonBody(t, map[string]any{
		"send_id": "9e107d9d-372b-4f80-9191-7fdc30e5a2fc",
		"event":   "delivered",
	}), "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode, "webhook is acked before processing")
	resp.Body.Close()
}
