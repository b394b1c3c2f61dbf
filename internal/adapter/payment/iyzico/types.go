package iyzico

import (
	"bytes"
	"encoding/json"
)

// Gateway vocabulary. These values are fixed by the remote contract and only
// produced/consumed here.
const (
	statusSuccess      = "success"
	paymentGroupProd   = "PRODUCT"
	basketItemPhysical = "PHYSICAL"
	gatewayTimeLayout  = "2006-01-02 15:04:05"
)

type buyerPayload struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	GsmNumber           string `json:"gsmNumber"`
	Email               string `json:"email"`
	IdentityNumber      string `json:"identityNumber"`
	LastLoginDate       string `json:"lastLoginDate"`
	RegistrationDate    string `json:"registrationDate"`
	RegistrationAddress string `json:"registrationAddress"`
	IP                  string `json:"ip"`
	City                string `json:"city"`
	Country             string `json:"country"`
	ZipCode             string `json:"zipCode"`
}

type addressPayload struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode"`
}

type basketItemPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category1 string `json:"category1"`
	Category2 string `json:"category2"`
	ItemType  string `json:"itemType"`
	Price     string `json:"price"`
}

type initializeRequest struct {
	Locale              string              `json:"locale"`
	ConversationID      string              `json:"conversationId"`
	Price               string              `json:"price"`
	PaidPrice           string              `json:"paidPrice"`
	Currency            string              `json:"currency"`
	BasketID            string              `json:"basketId"`
	PaymentGroup        string              `json:"paymentGroup"`
	CallbackURL         string              `json:"callbackUrl"`
	EnabledInstallments []int               `json:"enabledInstallments"`
	Buyer               buyerPayload        `json:"buyer"`
	ShippingAddress     addressPayload      `json:"shippingAddress"`
	BillingAddress      addressPayload      `json:"billingAddress"`
	BasketItems         []basketItemPayload `json:"basketItems"`
}

type initializeResponse struct {
	Status              string `json:"status"`
	ErrorMessage        string `json:"errorMessage"`
	Token               string `json:"token"`
	CheckoutFormContent string `json:"checkoutFormContent"`
	PaymentPageURL      string `json:"paymentPageUrl"`
	ConversationID      string `json:"conversationId"`
}

type retrieveRequest struct {
	Locale         string `json:"locale"`
	ConversationID string `json:"conversationId"`
	Token          string `json:"token"`
}

type retrieveResponse struct {
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentID     flexString `json:"paymentId"`
	PaidPrice     flexString `json:"paidPrice"`
	Currency      string     `json:"currency"`
	ErrorMessage  string     `json:"errorMessage"`
}

type cancelRequest struct {
	Locale         string `json:"locale"`
	ConversationID string `json:"conversationId"`
	PaymentID      string `json:"paymentId"`
	IP             string `json:"ip"`
}

type refundRequest struct {
	Locale               string `json:"locale"`
	ConversationID       string `json:"conversationId"`
	PaymentTransactionID string `json:"paymentTransactionId"`
	Price                string `json:"price"`
	IP                   string `json:"ip"`
}

type opResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

// flexString tolerates the gateway sending a field either as a JSON string or
// a bare number; both occur across API versions.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
