package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/EnesMalik02/checkout-api/configs"
	"github.com/EnesMalik02/checkout-api/internal/adapter/cache"
	"github.com/EnesMalik02/checkout-api/internal/adapter/http/middleware"
	"github.com/EnesMalik02/checkout-api/internal/catalog"
	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	session       usecase.PaymentSession
	sessionErr    error
	outcome       usecase.PaymentOutcome
	outcomeErr    error
	retrieveCalls int
	cancelCalls   int
	refundCalls   int
}

func (s *stubProvider) Name() string { return "iyzico" }

func (s *stubProvider) CreateCheckoutForm(context.Context, domain.OrderIntent) (usecase.PaymentSession, error) {
	return s.session, s.sessionErr
}

func (s *stubProvider) RetrievePaymentDetails(context.Context, string) (usecase.PaymentOutcome, error) {
	s.retrieveCalls++
	return s.outcome, s.outcomeErr
}

func (s *stubProvider) CancelPayment(context.Context, string, string) error {
	s.cancelCalls++
	return nil
}

func (s *stubProvider) RefundPayment(context.Context, string, decimal.Decimal, string) error {
	s.refundCalls++
	return nil
}

func testConfig() configs.Config {
	var cfg configs.Config
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "checkout-api"
	cfg.Security.Audience = "checkout-ops"
	cfg.Security.TTL = 15 * time.Minute
	cfg.Security.OpsClientID = "ops-test"
	cfg.Security.OpsClientSecret = "ops-test-secret"
	return cfg
}

func newTestRouter(prov *stubProvider) (*gin.Engine, usecase.SessionStore) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cat := catalog.Default()
	sessions := cache.NewMemorySessionStore(time.Minute)
	payments := usecase.NewPaymentService(prov)
	builder := usecase.NewOrderBuilder(cat)

	ch := NewCheckoutHandler(usecase.NewInitiateCheckout(builder, payments, sessions, "TRY"), cat)
	cb := NewCallbackHandler(usecase.NewReconcileCallback(payments, sessions), sessions, "http://localhost:8080")
	ops := NewPaymentOpsHandler(payments)
	th := NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	return NewRouter(ch, cb, ops, th, authz), sessions
}

// opsToken obtains a bearer token through the token endpoint, the same way
// an operator client would.
func opsToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	form := url.Values{"client_id": {"ops-test"}, "client_secret": {"ops-test-secret"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func checkoutBody(items ...map[string]any) []byte {
	b, _ := json.Marshal(map[string]any{
		"buyer": map[string]any{
			"name":    "Ayşe",
			"surname": "Yılmaz",
			"email":   "ayse@example.com",
			"phone":   "+905551234567",
			"city":    "Istanbul",
		},
		"items": items,
	})
	return b
}

func postJSON(r *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	return postJSONAuth(r, path, body, "")
}

func postJSONAuth(r *gin.Engine, path string, body []byte, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpointSuccess(t *testing.T) {
	prov := &stubProvider{session: usecase.PaymentSession{
		Status:      domain.PaymentStatusSuccess,
		Token:       "tok-1",
		RedirectURL: "https://gw.example/pay/tok-1",
	}}
	r, sessions := newTestRouter(prov)

	w := postJSON(r, "/v1/checkout", checkoutBody(map[string]any{"productId": 1, "quantity": 2}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Status         string `json:"status"`
		PaymentPageURL string `json:"paymentPageUrl"`
		Token          string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "https://gw.example/pay/tok-1", resp.PaymentPageURL)

	_, ok, err := sessions.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckoutEndpointAcceptsLargeBody(t *testing.T) {
	prov := &stubProvider{session: usecase.PaymentSession{
		Status:      domain.PaymentStatusSuccess,
		Token:       "tok-big",
		RedirectURL: "https://gw.example/pay/tok-big",
	}}
	r, _ := newTestRouter(prov)

	// well past the request-log cap; binding must still see the whole body
	items := make([]map[string]any, 0, 400)
	for i := 0; i < 400; i++ {
		items = append(items, map[string]any{"productId": 1, "quantity": 1})
	}
	body := checkoutBody(items...)
	require.Greater(t, len(body), 8*1024)

	w := postJSON(r, "/v1/checkout", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "tok-big")
}

func TestCheckoutEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(&stubProvider{})

	// malformed body
	w := postJSON(r, "/v1/checkout", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown product
	w = postJSON(r, "/v1/checkout", checkoutBody(map[string]any{"productId": 42, "quantity": 1}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "product not found")

	// zero quantity
	w = postJSON(r, "/v1/checkout", checkoutBody(map[string]any{"productId": 1, "quantity": 0}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing buyer fields
	body, _ := json.Marshal(map[string]any{
		"buyer": map[string]any{"name": "Ayşe"},
		"items": []map[string]any{{"productId": 1, "quantity": 1}},
	})
	w = postJSON(r, "/v1/checkout", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unsupported provider
	body, _ = json.Marshal(map[string]any{
		"buyer": map[string]any{
			"name": "Ayşe", "surname": "Yılmaz",
			"email": "ayse@example.com", "phone": "+905551234567",
		},
		"items":    []map[string]any{{"productId": 1, "quantity": 1}},
		"provider": "stripe",
	})
	w = postJSON(r, "/v1/checkout", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported payment provider")
}

func TestCheckoutEndpointGatewayDeclaredFailure(t *testing.T) {
	prov := &stubProvider{session: usecase.PaymentSession{
		Status:       domain.PaymentStatusFailure,
		ErrorMessage: "invalid api key",
	}}
	r, _ := newTestRouter(prov)

	w := postJSON(r, "/v1/checkout", checkoutBody(map[string]any{"productId": 1, "quantity": 1}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid api key")
}

func TestCheckoutEndpointTransportFaultIsGeneric(t *testing.T) {
	prov := &stubProvider{sessionErr: errors.New("dial tcp 10.0.0.7: timeout")}
	r, _ := newTestRouter(prov)

	w := postJSON(r, "/v1/checkout", checkoutBody(map[string]any{"productId": 1, "quantity": 1}))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "server error")
	assert.NotContains(t, w.Body.String(), "10.0.0.7")
}

func redirectQuery(t *testing.T, w *httptest.ResponseRecorder) url.Values {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "http://localhost:8080/order-result?"), loc)
	u, err := url.Parse(loc)
	require.NoError(t, err)
	return u.Query()
}

func TestCallbackPostFormToken(t *testing.T) {
	prov := &stubProvider{outcome: usecase.PaymentOutcome{
		Status:     domain.PaymentStatusSuccess,
		PaymentID:  "P1",
		PaidAmount: "100.00",
		Currency:   "TRY",
	}}
	r, _ := newTestRouter(prov)

	form := url.Values{"token": {"tok-1"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/callback?provider=iyzico", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	q := redirectQuery(t, w)
	assert.Equal(t, "success", q.Get("status"))
	assert.Equal(t, "P1", q.Get("paymentId"))
	assert.Equal(t, "100.00", q.Get("amount"))
	assert.Equal(t, "TRY", q.Get("currency"))
}

func TestCallbackQueryToken(t *testing.T) {
	prov := &stubProvider{outcome: usecase.PaymentOutcome{
		Status:       domain.PaymentStatusFailure,
		ErrorMessage: "insufficient funds",
	}}
	r, _ := newTestRouter(prov)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/payment/callback?token=tok-2", nil)
	r.ServeHTTP(w, req)

	q := redirectQuery(t, w)
	assert.Equal(t, "failure", q.Get("status"))
	assert.Equal(t, "insufficient funds", q.Get("message"))
}

func TestCallbackMissingToken(t *testing.T) {
	prov := &stubProvider{}
	r, _ := newTestRouter(prov)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/payment/callback", nil)
	r.ServeHTTP(w, req)

	q := redirectQuery(t, w)
	assert.Equal(t, "error", q.Get("status"))
	assert.Equal(t, "token missing", q.Get("message"))
	assert.Zero(t, prov.retrieveCalls)
}

func TestCallbackProviderFaultRedirectsGeneric(t *testing.T) {
	prov := &stubProvider{outcomeErr: errors.New("tls: handshake failure")}
	r, _ := newTestRouter(prov)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/payment/callback?token=tok-3", nil)
	r.ServeHTTP(w, req)

	q := redirectQuery(t, w)
	assert.Equal(t, "error", q.Get("status"))
	assert.Equal(t, "server error", q.Get("message"))
}

func TestSessionEndpoint(t *testing.T) {
	prov := &stubProvider{}
	r, sessions := newTestRouter(prov)

	require.NoError(t, sessions.Save(context.Background(), "tok-1", usecase.CheckoutSession{
		ConversationID: "conv-1",
		GrandTotal:     "91998.00",
		Currency:       "TRY",
		Status:         usecase.SessionPending,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/checkout/sessions/tok-1", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "conv-1")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/checkout/sessions/unknown", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsEndpoint(t *testing.T) {
	r, _ := newTestRouter(&stubProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []struct {
			ID        int    `json:"id"`
			Name      string `json:"name"`
			UnitPrice string `json:"unitPrice"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "iPhone 15 Pro", resp.Products[0].Name)
	assert.Equal(t, "45999.00", resp.Products[0].UnitPrice)
}

func TestPaymentOpsEndpoints(t *testing.T) {
	r, _ := newTestRouter(&stubProvider{})
	tok := opsToken(t, r)

	// cancel happy path
	w := postJSONAuth(r, "/v1/payments/pay-1/cancel", nil, tok)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// cancel with unsupported provider
	w = postJSONAuth(r, "/v1/payments/pay-1/cancel?provider=stripe", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// refund happy path
	body, _ := json.Marshal(map[string]any{"transactionId": "tx-1", "amount": "50.00"})
	w = postJSONAuth(r, "/v1/payments/refund", body, tok)
	assert.Equal(t, http.StatusOK, w.Code)

	// refund with a bad amount
	body, _ = json.Marshal(map[string]any{"transactionId": "tx-1", "amount": "-5"})
	w = postJSONAuth(r, "/v1/payments/refund", body, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentOpsRejectAnonymous(t *testing.T) {
	prov := &stubProvider{}
	r, _ := newTestRouter(prov)

	w := postJSON(r, "/v1/payments/pay-1/cancel", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body, _ := json.Marshal(map[string]any{"transactionId": "tx-1", "amount": "50.00"})
	w = postJSON(r, "/v1/payments/refund", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the gateway must never be reached without a valid token
	assert.Zero(t, prov.cancelCalls)
	assert.Zero(t, prov.refundCalls)
}

func TestPaymentOpsRejectWrongPermission(t *testing.T) {
	prov := &stubProvider{}
	r, _ := newTestRouter(prov)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "checkout-api",
		"aud":   "checkout-ops",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"perms": []string{"catalog.read"},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	w := postJSONAuth(r, "/v1/payments/pay-1/cancel", nil, signed)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, prov.cancelCalls)
}

func TestPaymentOpsRejectForgedToken(t *testing.T) {
	prov := &stubProvider{}
	r, _ := newTestRouter(prov)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "checkout-api",
		"aud":   "checkout-ops",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"perms": []string{"payments.write"},
	})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := postJSONAuth(r, "/v1/payments/pay-1/cancel", nil, signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, prov.cancelCalls)
}

func TestTokenEndpointRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(&stubProvider{})

	form := url.Values{"client_id": {"ops-test"}, "client_secret": {"nope"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
