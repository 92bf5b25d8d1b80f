package paymentapi

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFromRequestJSON(t *testing.T) {
	request, err := http.NewRequest(http.MethodPost, "/mpesa/push", strings.NewReader(`{
		"checkoutUid": "123",
		"kind": "order",
		"phoneNumber": "0700 111 222",
		"amountCents": 50000,
		"email": "buyer@example.com",
		"items": [{"merchandiseUid": "merch-1", "quantity": 2}]
	}`))
	assert.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	req, err := NewFromRequest(request)

	assert.NoError(t, err)
	assert.Equal(t, "123", req.CheckoutUID)
	assert.Equal(t, KindOrder, req.Kind)
	assert.Equal(t, "0700 111 222", req.PhoneNumber)
	assert.Equal(t, int64(50000), req.AmountCents)
	assert.Equal(t, []OrderLine{{MerchandiseUID: "merch-1", Quantity: 2}}, req.Lines)
}

func TestNewFromRequestForm(t *testing.T) {
	body := `checkoutUid=123&kind=contribution&phoneNumber=0700111222&amountCents=25000&email=fan%40example.com&projectUid=project-1&comment=nice+work`
	request, err := http.NewRequest(http.MethodPost, "/mpesa/push", strings.NewReader(body))
	assert.NoError(t, err)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, err := NewFromRequest(request)

	assert.NoError(t, err)
	assert.Equal(t, "123", req.CheckoutUID)
	assert.Equal(t, KindContribution, req.Kind)
	assert.Equal(t, int64(25000), req.AmountCents)
	assert.Equal(t, "project-1", req.ProjectUID)
	assert.Equal(t, "nice work", req.Comment)
}

func TestNewFromRequestInvalidJSON(t *testing.T) {
	request, err := http.NewRequest(http.MethodPost, "/mpesa/push", strings.NewReader(`{not json`))
	assert.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	_, err = NewFromRequest(request)

	assert.Error(t, err)
}

func TestFormRoundtrip(t *testing.T) {
	req := CheckoutRequest{
		CheckoutUID: "123",
		Kind:        KindOrder,
		PhoneNumber: "0700111222",
		AmountCents: 50000,
		Email:       "buyer@example.com",
	}

	values, err := req.ToForm()
	assert.NoError(t, err)

	parsed, err := NewFromValues(values)
	assert.NoError(t, err)
	assert.Equal(t, req.CheckoutUID, parsed.CheckoutUID)
	assert.Equal(t, req.AmountCents, parsed.AmountCents)
}

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, StatusIdle.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}

func TestNewFromValuesBadAmount(t *testing.T) {
	_, err := NewFromValues(url.Values{
		"checkoutUid": []string{"123"},
		"amountCents": []string{"not-a-number"},
	})

	assert.Error(t, err)
}
