package http

import (
	"errors"
	"net/http"

	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/EnesMalik02/checkout-api/internal/logging"
	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout *usecase.InitiateCheckout
	catalog  usecase.Catalog
}

func NewCheckoutHandler(checkout *usecase.InitiateCheckout, catalog usecase.Catalog) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, catalog: catalog}
}

type checkoutItemReq struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type checkoutBuyerReq struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	ZipCode        string `json:"zipCode"`
	IdentityNumber string `json:"identityNumber"`
	CompanyName    string `json:"companyName"`
}

type checkoutReq struct {
	Buyer    checkoutBuyerReq  `json:"buyer" binding:"required"`
	Items    []checkoutItemReq `json:"items" binding:"required"`
	Provider string            `json:"provider"`
}

type checkoutResp struct {
	Status         string `json:"status"`
	PaymentPageURL string `json:"paymentPageUrl,omitempty"`
	Token          string `json:"token,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// Checkout initiates a hosted checkout session: builds the order intent,
// submits it to the selected provider, returns the payment page URL.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, checkoutResp{Status: "failure", ErrorMessage: "bad request"})
		return
	}

	items := make([]usecase.CartItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CartItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	in := usecase.CheckoutInput{
		Buyer: domain.BuyerInfo{
			Name:           req.Buyer.Name,
			Surname:        req.Buyer.Surname,
			Email:          req.Buyer.Email,
			Phone:          req.Buyer.Phone,
			Address:        req.Buyer.Address,
			City:           req.Buyer.City,
			ZipCode:        req.Buyer.ZipCode,
			IdentityNumber: req.Buyer.IdentityNumber,
			CompanyName:    req.Buyer.CompanyName,
			IP:             c.ClientIP(),
		},
		Items:    items,
		Provider: req.Provider,
	}

	ctx := logging.WithCtx(c.Request.Context(), logging.From(c))
	out, err := h.checkout.Execute(ctx, in)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "server error"
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			status, msg = http.StatusNotFound, err.Error()
		case errors.Is(err, domain.ErrInvalidBuyer),
			errors.Is(err, domain.ErrEmptyCart),
			errors.Is(err, domain.ErrInvalidQuantity),
			errors.Is(err, usecase.ErrUnsupportedProvider):
			status, msg = http.StatusBadRequest, err.Error()
		default:
			logging.From(c).Error("checkout failed", "error", err)
		}
		checkoutAttempts.WithLabelValues(providerLabel(req.Provider), "error").Inc()
		c.JSON(status, checkoutResp{Status: "failure", ErrorMessage: msg})
		return
	}

	checkoutAttempts.WithLabelValues(providerLabel(req.Provider), string(out.Status)).Inc()
	if out.Status != domain.PaymentStatusSuccess {
		c.JSON(http.StatusBadRequest, checkoutResp{Status: string(out.Status), ErrorMessage: out.ErrorMessage})
		return
	}
	c.JSON(http.StatusOK, checkoutResp{
		Status:         string(out.Status),
		PaymentPageURL: out.PaymentPageURL,
		Token:          out.Token,
		ConversationID: out.ConversationID,
	})
}

type productResp struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice"`
}

// ListProducts serves the static catalog backing the storefront.
func (h *CheckoutHandler) ListProducts(c *gin.Context) {
	products := h.catalog.List()
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, productResp{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			UnitPrice:   p.UnitPrice.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func providerLabel(name string) string {
	if name == "" {
		return "default"
	}
	return name
}
