package paymentapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	formcodec "github.com/go-playground/form/v4"

	"github.com/sokohub/marketbackend/lib/myerrors"
)

type SessionKind string

const (
	KindOrder        SessionKind = "order"
	KindContribution SessionKind = "contribution"
)

type SessionStatus string

const (
	StatusIdle    SessionStatus = "idle"
	StatusPending SessionStatus = "pending"
	StatusSuccess SessionStatus = "success"
	StatusFailed  SessionStatus = "failed"
)

func (s SessionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

type OrderLine struct {
	MerchandiseUID string `form:"merchandiseUid" json:"merchandiseUid"`
	Quantity       int    `form:"quantity" json:"quantity"`
}

// PaymentSession tracks one checkout attempt from push-payment request to a
// settled outcome. A new attempt for the same checkout gets a fresh session.
type PaymentSession struct {
	UID             string
	CheckoutUID     string // groups successive attempts for the same checkout
	Kind            SessionKind
	PhoneNumber     string // raw user input
	NormalizedPhone string
	AmountCents     int64
	Email           string
	Lines           []OrderLine
	ProjectUID      string
	Comment         string

	// CheckoutRequestID is only set once the provider accepted the push
	CheckoutRequestID string
	AccountReference  string

	Status          SessionStatus
	StatusMessage   string
	Attempts        int
	Reconciled      bool
	ReconcileFailed bool
	Abandoned       bool
	OrderUID        string

	CreatedAt    time.Time
	LastModified *time.Time
}

// CheckoutRequest is what the storefront posts to start a payment.
type CheckoutRequest struct {
	CheckoutUID string      `form:"checkoutUid" json:"checkoutUid"`
	Kind        SessionKind `form:"kind" json:"kind"`
	PhoneNumber string      `form:"phoneNumber" json:"phoneNumber"`
	AmountCents int64       `form:"amountCents" json:"amountCents"`
	Email       string      `form:"email" json:"email"`
	Lines       []OrderLine `form:"lines" json:"items"`
	ProjectUID  string      `form:"projectUid" json:"projectUid"`
	Comment     string      `form:"comment" json:"comment"`
}

func NewFromRequest(r *http.Request) (CheckoutRequest, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		req := CheckoutRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			return CheckoutRequest{}, myerrors.NewInvalidInputError(fmt.Errorf("error parsing json body: %s", err))
		}
		return req, nil
	}

	err := r.ParseForm()
	if err != nil {
		return CheckoutRequest{}, myerrors.NewInvalidInputError(err)
	}

	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (CheckoutRequest, error) {
	req := CheckoutRequest{}
	err := formcodec.NewDecoder().Decode(&req, values)
	if err != nil {
		return req, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return req, nil
}

func (r CheckoutRequest) ToForm() (url.Values, error) {
	values, err := formcodec.NewEncoder().Encode(r)
	if err != nil {
		return nil, fmt.Errorf("error encoding form: %s", err)
	}

	return values, nil
}
