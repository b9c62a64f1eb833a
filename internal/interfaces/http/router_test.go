package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/application/auth"
	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/memory"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/metrics"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/pdf"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/webhook"
	apphttp "github.com/jhoicas/talent-invoice/internal/interfaces/http"
)

const webhookSecret = "whsec_router_test"

// buildAPI arma la API completa sobre el almacenamiento en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	policy := subscription.DefaultPolicy()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry, "")

	organizerUC := account.NewOrganizerUseCase(store.Organizers(), nil, nil, log)
	profileUC := account.NewProfileUseCase(store.Profiles(), policy)
	billingUC := account.NewBillingUseCase(store.Profiles(), log)
	authUC := auth.NewAuthUseCase(store, store.Users(), policy, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	})
	cfg := invoicing.Config{TaxRatePercent: invoicecalc.DefaultTaxRatePercent, Policy: policy}
	invoiceUC := invoicing.NewInvoiceUseCase(store, store.Invoices(), store.OrganizerInvoices(), store.Events(), organizerUC, m, cfg, log)
	reviewUC := invoicing.NewReviewUseCase(store, store.Organizers(), store.Invoices(), store.OrganizerInvoices(), m, log)
	pdfUC := invoicing.NewPDFUseCase(store.Invoices(), store.OrganizerInvoices(), store.Organizers(), store.Profiles(), pdf.NewMarotoPDFGenerator(""))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          authUC,
		InvoiceUC:       invoiceUC,
		ReviewUC:        reviewUC,
		PDFUC:           pdfUC,
		OrganizerUC:     organizerUC,
		ProfileUC:       profileUC,
		BillingUC:       billingUC,
		WebhookVerifier: webhook.NewStripeVerifier(webhookSecret, 0),
		Metrics:         m,
		Gatherer:        registry,
		Logger:          log,
		AppName:         "talent-invoice-test",
		JWTSecret:       testJWTSecret,
	})
	return app
}

// call lanza la petición y decodifica el JSON de respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "respuesta: %s", raw)
	}
	return resp.StatusCode
}

// signup registra y hace login; devuelve token e ID del usuario.
func signup(t *testing.T, app *fiber.App, email, role string) (string, string) {
	t.Helper()
	status := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: email, Password: "password123", Name: "name " + email, Role: role,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var login dto.LoginResponse
	status = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "password123"}, &login)
	require.Equal(t, http.StatusOK, status)
	return login.Token, login.User.ID
}

func feeInvoice(code string, amount int64) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		RecipientName: "Live House",
		OrganizerCode: code,
		Items:         []dto.LineItemRequest{{Name: "出演料", UnitAmount: amount, Category: "performance_fee"}},
	}
}

func TestHealth(t *testing.T) {
	app := buildAPI(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuth_RegistroDuplicadoYCredenciales(t *testing.T) {
	app := buildAPI(t)
	signup(t, app, "talent@example.com", "talent")

	var errBody dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "TALENT@example.com", Password: "password123"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", errBody.Code)

	status = call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "x@example.com", Password: "short"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)

	status = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "talent@example.com", Password: "wrong-password"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nadie@example.com", Password: "password123"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestFlujoCompleto_DevolucionReenvioAprobacionPago(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")
	org, _ := signup(t, app, "org@example.com", "organizer")

	var me dto.OrganizerResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/organizer", org, nil, &me))
	require.Len(t, me.OrganizerCode, 8)

	var verified dto.VerifyOrganizerResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/organizers/verify?code="+strings.ToLower(me.OrganizerCode), talent, nil, &verified))
	assert.Equal(t, me.ID, verified.OrganizerID)

	var created dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice(me.OrganizerCode, 10000), &created))
	assert.Equal(t, dto.AmountsResponse{Subtotal: 10000, Tax: 1000, Withholding: 1021, Total: 9979}, created.AmountsResponse)
	assert.Equal(t, "awaiting_approval", created.State)
	assert.False(t, created.Editable)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPut, "/api/invoices/"+created.ID, talent, feeInvoice("", 20000), &errBody))
	assert.Equal(t, "INVOICE_LOCKED", errBody.Code)

	var list dto.OrganizerInvoiceListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/organizer/invoices?status=pending", org, nil, &list))
	require.Len(t, list.Items, 1)
	oi := list.Items[0]
	assert.Equal(t, created.ID, oi.InvoiceID)
	assert.Equal(t, int64(9979), oi.Total)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/organizer/invoices/"+oi.ID+"/return", org, dto.ReturnInvoiceRequest{Comment: " "}, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/organizer/invoices/"+oi.ID+"/pay", org, nil, &errBody))
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)

	var returned dto.OrganizerInvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/organizer/invoices/"+oi.ID+"/return", org, dto.ReturnInvoiceRequest{Comment: "fix amount"}, &returned))
	assert.Equal(t, "returned", returned.Status)

	var resubmitted dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/invoices/"+created.ID, talent, feeInvoice("", 20000), &resubmitted))
	assert.Equal(t, "resubmitted", resubmitted.State)
	assert.Equal(t, int64(19958), resubmitted.Total)

	var approved dto.OrganizerInvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/organizer/invoices/"+oi.ID+"/approve", org, nil, &approved))
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, int64(19958), approved.Total)

	var paid dto.OrganizerInvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/organizer/invoices/"+oi.ID+"/pay", org, nil, &paid))
	assert.Equal(t, "paid", paid.Status)

	var final dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/invoices/"+created.ID, talent, nil, &final))
	assert.Equal(t, "paid", final.Status)
	assert.Equal(t, "paid", final.PaymentStatus)
	assert.NotNil(t, final.PaidDate)

	var events []dto.InvoiceEventResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/events", talent, nil, &events))
	assert.Len(t, events, 5)
}

func TestPDF_TalentoYOrganizador(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")
	org, _ := signup(t, app, "org@example.com", "organizer")

	var me dto.OrganizerResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/organizer", org, nil, &me))
	var created dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice(me.OrganizerCode, 10000), &created))
	var list dto.OrganizerInvoiceListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/organizer/invoices", org, nil, &list))
	require.Len(t, list.Items, 1)

	cases := []struct{ path, token string }{
		{"/api/invoices/" + created.ID + "/pdf", talent},
		{"/api/organizer/invoices/" + list.Items[0].ID + "/pdf", org},
	}
	for _, tc := range cases {
		path := tc.path
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"), path)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), ".pdf", path)
		assert.True(t, bytes.HasPrefix(body, []byte("%PDF")), path)
	}
}

func TestRoles_YAislamiento(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")
	other, _ := signup(t, app, "other@example.com", "talent")
	org, _ := signup(t, app, "org@example.com", "organizer")

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/invoices", "", nil, &errBody))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/invoices", org, nil, &errBody))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/organizer/invoices", talent, nil, &errBody))

	var created dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice("", 5000), &created))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/invoices/"+created.ID, other, nil, &errBody))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodDelete, "/api/invoices/"+created.ID, other, nil, &errBody))

	var otherList dto.InvoiceListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/invoices", other, nil, &otherList))
	assert.Empty(t, otherList.Items)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/organizer/invoices?status=bogus", org, nil, &errBody))
}

func TestFacturaSinOrganizador_MarcasYBorrado(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")

	var created dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice("", 10000), &created))
	assert.Equal(t, "draft", created.State)
	assert.True(t, created.Editable)

	var sent dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/invoices/"+created.ID+"/sent", talent, nil, &sent))
	assert.Equal(t, "sent", sent.Status)

	var paid dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/invoices/"+created.ID+"/paid", talent, nil, &paid))
	assert.Equal(t, "paid", paid.PaymentStatus)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/invoices/"+created.ID+"/paid", talent, nil, &errBody))

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/invoices/"+created.ID, talent, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/invoices/"+created.ID, talent, nil, &errBody))
}

func TestCodigoInexistente_NoCreaNada(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice("ZZZZ9999", 10000), &errBody))
	assert.Equal(t, "ORGANIZER_CODE_NOT_FOUND", errBody.Code)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/organizers/verify?code=zzzz9999", talent, nil, &errBody))

	var list dto.InvoiceListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/invoices", talent, nil, &list))
	assert.Empty(t, list.Items)
}

func TestCuota_PlanGratuitoBloqueaLaCuartaFactura(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")

	for i := 0; i < subscription.DefaultFreeInvoiceLimit; i++ {
		require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice("", 1000), nil))
	}

	var limits dto.SubscriptionLimitsResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/subscription/limits", talent, nil, &limits))
	assert.False(t, limits.CanCreate)
	assert.Equal(t, 0, limits.Remaining)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusPaymentRequired, call(t, app, http.MethodPost, "/api/invoices", talent, feeInvoice("", 1000), &errBody))
	assert.Equal(t, "QUOTA_EXCEEDED", errBody.Code)
}

func TestWebhook_ActivaSuscripcion(t *testing.T) {
	app := buildAPI(t)
	talent, talentID := signup(t, app, "talent@example.com", "talent")

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"customer":"cus_1","metadata":{"user_id":"` + talentID + `"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/billing", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, webhook.SignatureFor(webhookSecret, time.Now(), payload))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var ack dto.BillingEventResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.BillingEventResponse{Received: true, Applied: true, Status: "active"}, ack)

	var limits dto.SubscriptionLimitsResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/subscription/limits", talent, nil, &limits))
	assert.True(t, limits.Unlimited)
	assert.True(t, limits.CanCreate)
}

func TestIDMalformado_Retorna404(t *testing.T) {
	app := buildAPI(t)
	talent, _ := signup(t, app, "talent@example.com", "talent")
	organizer, _ := signup(t, app, "org@example.com", "organizer")

	cases := []struct {
		method, path, token string
		body                any
	}{
		{http.MethodGet, "/api/invoices/abc", talent, nil},
		{http.MethodPut, "/api/invoices/abc", talent, feeInvoice("", 1000)},
		{http.MethodDelete, "/api/invoices/abc", talent, nil},
		{http.MethodGet, "/api/invoices/abc/pdf", talent, nil},
		{http.MethodGet, "/api/organizer/invoices/abc", organizer, nil},
		{http.MethodPost, "/api/organizer/invoices/abc/approve", organizer, nil},
		{http.MethodPost, "/api/organizer/invoices/abc/pay", organizer, nil},
		{http.MethodPost, "/api/organizer/invoices/abc/return", organizer, dto.ReturnInvoiceRequest{Comment: "revisar"}},
	}
	for _, tc := range cases {
		var errBody dto.ErrorResponse
		assert.Equal(t, http.StatusNotFound, call(t, app, tc.method, tc.path, tc.token, tc.body, &errBody), "%s %s", tc.method, tc.path)
		assert.Equal(t, "NOT_FOUND", errBody.Code, "%s %s", tc.method, tc.path)
	}
}

func TestWebhook_UserIDMalformadoUsaCustomer(t *testing.T) {
	app := buildAPI(t)
	_, talentID := signup(t, app, "talent@example.com", "talent")

	send := func(payload []byte) dto.BillingEventResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/billing", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(webhook.SignatureHeader, webhook.SignatureFor(webhookSecret, time.Now(), payload))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var ack dto.BillingEventResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
		return ack
	}

	send([]byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"customer":"cus_1","metadata":{"user_id":"` + talentID + `"}}}}`))
	ack := send([]byte(`{"id":"evt_2","type":"customer.subscription.deleted","data":{"object":{"customer":"cus_1","metadata":{"user_id":"no-es-uuid"}}}}`))

	assert.Equal(t, dto.BillingEventResponse{Received: true, Applied: true, Status: "cancelled"}, ack)
}

func TestWebhook_FirmaInvalida(t *testing.T) {
	app := buildAPI(t)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/billing", bytes.NewReader(payload))
	req.Header.Set(webhook.SignatureHeader, webhook.SignatureFor("otro-secreto", time.Now(), payload))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreview_CualquierRolAutenticado(t *testing.T) {
	app := buildAPI(t)
	org, _ := signup(t, app, "org@example.com", "organizer")

	var out dto.PreviewResponse
	status := call(t, app, http.MethodPost, "/api/invoices/preview", org, dto.PreviewRequest{
		Items: []dto.LineItemRequest{{UnitAmount: 10000, Category: "performance_fee"}},
	}, &out)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(9979), out.Total)
}

func TestMetrics_ExponeContadoresHTTP(t *testing.T) {
	app := buildAPI(t)
	call(t, app, http.MethodGet, "/health", "", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `talent_invoice_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
