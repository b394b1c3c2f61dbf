// Package iyzico adapts the Iyzico hosted checkout-form API to the
// usecase.PaymentProvider port. Configuration is injected; there is no
// ambient gateway client.
package iyzico

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	pathInitialize = "/payment/iyzipos/checkoutform/initialize/auth/ecom"
	pathRetrieve   = "/payment/iyzipos/checkoutform/auth/ecom/detail"
	pathCancel     = "/payment/cancel"
	pathRefund     = "/payment/refund"

	defaultCountry  = "Turkey"
	defaultIdentity = "11111111111"
	defaultAddress  = "Adres belirtilmedi"
	defaultZipCode  = "00000"
	defaultCity     = "Istanbul"
	defaultIP       = "127.0.0.1"
)

var defaultInstallments = []int{1, 2, 3, 6, 9, 12}

type Config struct {
	APIKey      string
	SecretKey   string
	BaseURL     string
	CallbackURL string
	Currency    string
	Locale      string
}

type Provider struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config, client *http.Client) *Provider {
	if cfg.Currency == "" {
		cfg.Currency = "TRY"
	}
	if cfg.Locale == "" {
		cfg.Locale = "tr"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Name() string { return "iyzico" }

// CreateCheckoutForm opens a hosted checkout session. A failure the gateway
// declares comes back as a failure-status session, not an error; errors are
// transport faults only.
func (p *Provider) CreateCheckoutForm(ctx context.Context, order domain.OrderIntent) (usecase.PaymentSession, error) {
	req := p.buildInitializeRequest(order)

	var resp initializeResponse
	if err := p.post(ctx, pathInitialize, req, &resp); err != nil {
		return usecase.PaymentSession{}, err
	}

	if resp.Status != statusSuccess {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "checkout form initialization declined"
		}
		return usecase.PaymentSession{Status: domain.PaymentStatusFailure, ErrorMessage: msg}, nil
	}
	return usecase.PaymentSession{
		Status:      domain.PaymentStatusSuccess,
		Token:       resp.Token,
		RedirectURL: resp.PaymentPageURL,
	}, nil
}

// RetrievePaymentDetails queries the final state of a checkout session by
// token and maps the gateway vocabulary onto the canonical statuses.
func (p *Provider) RetrievePaymentDetails(ctx context.Context, token string) (usecase.PaymentOutcome, error) {
	req := retrieveRequest{
		Locale:         p.cfg.Locale,
		ConversationID: uuid.NewString(),
		Token:          token,
	}

	var resp retrieveResponse
	if err := p.post(ctx, pathRetrieve, req, &resp); err != nil {
		return usecase.PaymentOutcome{}, err
	}

	if resp.Status == statusSuccess && (resp.PaymentStatus == "" || resp.PaymentStatus == "SUCCESS") {
		return usecase.PaymentOutcome{
			Status:     domain.PaymentStatusSuccess,
			PaymentID:  string(resp.PaymentID),
			PaidAmount: string(resp.PaidPrice),
			Currency:   resp.Currency,
		}, nil
	}
	return usecase.PaymentOutcome{
		Status:       domain.PaymentStatusFailure,
		ErrorMessage: resp.ErrorMessage,
	}, nil
}

// CancelPayment voids a same-day payment in full.
func (p *Provider) CancelPayment(ctx context.Context, paymentID, buyerIP string) error {
	if buyerIP == "" {
		buyerIP = defaultIP
	}
	req := cancelRequest{
		Locale:         p.cfg.Locale,
		ConversationID: uuid.NewString(),
		PaymentID:      paymentID,
		IP:             buyerIP,
	}
	var resp opResponse
	if err := p.post(ctx, pathCancel, req, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		return fmt.Errorf("cancel declined: %s", orUnknown(resp.ErrorMessage))
	}
	return nil
}

// RefundPayment refunds a single payment transaction, partially or in full.
func (p *Provider) RefundPayment(ctx context.Context, transactionID string, amount decimal.Decimal, buyerIP string) error {
	if buyerIP == "" {
		buyerIP = defaultIP
	}
	req := refundRequest{
		Locale:               p.cfg.Locale,
		ConversationID:       uuid.NewString(),
		PaymentTransactionID: transactionID,
		Price:                amount.StringFixed(2),
		IP:                   buyerIP,
	}
	var resp opResponse
	if err := p.post(ctx, pathRefund, req, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		return fmt.Errorf("refund declined: %s", orUnknown(resp.ErrorMessage))
	}
	return nil
}

func (p *Provider) buildInitializeRequest(order domain.OrderIntent) initializeRequest {
	buyer := order.Buyer
	now := time.Now().Format(gatewayTimeLayout)

	identity := buyer.IdentityNumber
	if identity == "" {
		identity = defaultIdentity
	}
	address := buyer.Address
	if address == "" {
		address = defaultAddress
	}
	city := buyer.City
	if city == "" {
		city = defaultCity
	}
	zip := buyer.ZipCode
	if zip == "" {
		zip = defaultZipCode
	}
	ip := buyer.IP
	if ip == "" {
		ip = defaultIP
	}

	items := make([]basketItemPayload, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, basketItemPayload{
			ID:        "BI" + strconv.Itoa(l.Product.ID),
			Name:      l.Product.Name,
			Category1: l.Product.Category,
			Category2: "Genel",
			ItemType:  basketItemPhysical,
			Price:     l.LineTotal().StringFixed(2),
		})
	}

	addr := addressPayload{
		ContactName: buyer.ContactName(),
		City:        city,
		Country:     defaultCountry,
		Address:     address,
		ZipCode:     zip,
	}

	return initializeRequest{
		Locale:              p.cfg.Locale,
		ConversationID:      order.ConversationID,
		Price:               order.GrandTotal.StringFixed(2),
		PaidPrice:           order.GrandTotal.StringFixed(2),
		Currency:            p.cfg.Currency,
		BasketID:            "B" + order.ConversationID,
		PaymentGroup:        paymentGroupProd,
		CallbackURL:         p.cfg.CallbackURL + "?provider=" + p.Name(),
		EnabledInstallments: defaultInstallments,
		Buyer: buyerPayload{
			ID:                  "BY" + order.ConversationID,
			Name:                buyer.Name,
			Surname:             buyer.Surname,
			GsmNumber:           buyer.Phone,
			Email:               buyer.Email,
			IdentityNumber:      identity,
			LastLoginDate:       now,
			RegistrationDate:    now,
			RegistrationAddress: address,
			IP:                  ip,
			City:                city,
			Country:             defaultCountry,
			ZipCode:             zip,
		},
		ShippingAddress: addr,
		BillingAddress:  addr,
		BasketItems:     items,
	}
}

func (p *Provider) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("iyzico: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("iyzico: build request: %w", err)
	}
	auth, rnd := p.authorization(path, body)
	req.Header.Set("Authorization", auth)
	req.Header.Set("x-iyzi-rnd", rnd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("iyzico: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("iyzico: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("iyzico: %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("iyzico: decode response: %w", err)
	}
	return nil
}

func orUnknown(msg string) string {
	if msg == "" {
		return "unknown gateway error"
	}
	return msg
}

var _ usecase.PaymentProvider = (*Provider)(nil)
