package paymentmpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sokohub/marketbackend/lib/myerrors"
	"github.com/sokohub/marketbackend/lib/myhttpclient"
	"github.com/sokohub/marketbackend/lib/mytime"
	"github.com/sokohub/marketbackend/lib/myvault"
)

type PushRequest struct {
	PhoneNumber      string
	Amount           int64 // whole KES, the provider does not do cents
	AccountReference string
	Description      string
}

type PushResponse struct {
	CheckoutRequestID string
	MerchantRequestID string
	CustomerMessage   string
}

// PollResult is the provider's answer to a status query. Resolved is false
// while the provider has not concluded the transaction.
type PollResult struct {
	Resolved          bool
	ResultCode        int
	ResultDescription string
}

//go:generate mockgen -source=payer.go -package paymentmpesa -destination payer_mock.go Payer
type Payer interface {
	RequestPush(c context.Context, req PushRequest) (PushResponse, error)
	QueryStatus(c context.Context, checkoutRequestID string) (PollResult, error)
}

type DarajaConfig struct {
	BaseURL        string
	ShortCode      string
	Passkey        string
	ConsumerKey    string
	ConsumerSecret string
	CallbackURL    string
}

// AccessToken is the short-lived oauth token for the Daraja api, cached in
// the vault so concurrent requests do not each fetch their own.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

const currentAccessTokenUID = "currentDarajaToken"

type darajaPayer struct {
	config     DarajaConfig
	httpClient myhttpclient.HTTPSender
	vault      myvault.VaultReadWriter[AccessToken]
	nower      mytime.Nower
}

func NewPayer(config DarajaConfig, httpClient myhttpclient.HTTPSender, vault myvault.VaultReadWriter[AccessToken], nower mytime.Nower) Payer {
	return &darajaPayer{
		config:     config,
		httpClient: httpClient,
		vault:      vault,
		nower:      nower,
	}
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type stkQueryResponse struct {
	ResultCode json.Number `json:"ResultCode"`
	ResultDesc string      `json:"ResultDesc"`
}

type darajaErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// stillProcessingErrorCode is how Daraja reports that the stk-push has not
// yet been resolved by the payer.
const stillProcessingErrorCode = "500.001.1001"

func (p *darajaPayer) RequestPush(c context.Context, req PushRequest) (PushResponse, error) {
	token, err := p.accessToken(c)
	if err != nil {
		return PushResponse{}, err
	}

	timestamp := p.nower.Now().Format("20060102150405")
	body, err := json.Marshal(stkPushRequest{
		BusinessShortCode: p.config.ShortCode,
		Password:          p.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            p.config.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       p.config.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	})
	if err != nil {
		return PushResponse{}, myerrors.NewInternalError(fmt.Errorf("error marshalling stk-push request: %s", err))
	}

	httpStatus, respPayload, err := p.httpClient.Send(c, "POST", p.config.BaseURL+"/mpesa/stkpush/v1/processrequest", body, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return PushResponse{}, myerrors.NewUnavailableError(fmt.Errorf("error sending stk-push request: %s", err))
	}
	if httpStatus != http.StatusOK {
		return PushResponse{}, myerrors.NewInvalidInputErrorf("stk-push rejected: %s", parseDarajaError(respPayload))
	}

	resp := stkPushResponse{}
	err = json.Unmarshal(respPayload, &resp)
	if err != nil {
		return PushResponse{}, myerrors.NewInternalError(fmt.Errorf("error parsing stk-push response: %s", err))
	}
	if resp.ResponseCode != "0" {
		return PushResponse{}, myerrors.NewInvalidInputErrorf("stk-push rejected: %s", resp.ResponseDescription)
	}

	return PushResponse{
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func (p *darajaPayer) QueryStatus(c context.Context, checkoutRequestID string) (PollResult, error) {
	token, err := p.accessToken(c)
	if err != nil {
		return PollResult{}, err
	}

	timestamp := p.nower.Now().Format("20060102150405")
	body, err := json.Marshal(stkQueryRequest{
		BusinessShortCode: p.config.ShortCode,
		Password:          p.password(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	})
	if err != nil {
		return PollResult{}, myerrors.NewInternalError(fmt.Errorf("error marshalling stk-query request: %s", err))
	}

	httpStatus, respPayload, err := p.httpClient.Send(c, "POST", p.config.BaseURL+"/mpesa/stkpushquery/v1/query", body, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return PollResult{}, myerrors.NewUnavailableError(fmt.Errorf("error sending stk-query request: %s", err))
	}

	if httpStatus != http.StatusOK {
		darajaErr := darajaErrorResponse{}
		_ = json.Unmarshal(respPayload, &darajaErr)
		if darajaErr.ErrorCode == stillProcessingErrorCode {
			return PollResult{Resolved: false}, nil
		}
		return PollResult{}, myerrors.NewUnavailableError(fmt.Errorf("stk-query failed: %s", parseDarajaError(respPayload)))
	}

	resp := stkQueryResponse{}
	err = json.Unmarshal(respPayload, &resp)
	if err != nil {
		return PollResult{}, myerrors.NewInternalError(fmt.Errorf("error parsing stk-query response: %s", err))
	}
	if resp.ResultCode == "" {
		return PollResult{Resolved: false}, nil
	}

	resultCode, err := resp.ResultCode.Int64()
	if err != nil {
		return PollResult{}, myerrors.NewInternalError(fmt.Errorf("error parsing result-code %s: %s", resp.ResultCode, err))
	}

	return PollResult{
		Resolved:          true,
		ResultCode:        int(resultCode),
		ResultDescription: resp.ResultDesc,
	}, nil
}

func (p *darajaPayer) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(p.config.ShortCode + p.config.Passkey + timestamp))
}

type darajaTokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

func (p *darajaPayer) accessToken(c context.Context) (string, error) {
	now := p.nower.Now()

	cached, found, err := p.vault.Get(c, currentAccessTokenUID)
	if err == nil && found && now.Before(cached.ExpiresAt) {
		return cached.Token, nil
	}

	basicAuth := base64.StdEncoding.EncodeToString([]byte(p.config.ConsumerKey + ":" + p.config.ConsumerSecret))
	httpStatus, respPayload, err := p.httpClient.Send(c, "GET", p.config.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil, map[string]string{
		"Authorization": "Basic " + basicAuth,
	})
	if err != nil {
		return "", myerrors.NewUnavailableError(fmt.Errorf("error fetching access-token: %s", err))
	}
	if httpStatus != http.StatusOK {
		return "", myerrors.NewAuthenticationError(fmt.Errorf("error fetching access-token: %s", parseDarajaError(respPayload)))
	}

	tokenResp := darajaTokenResponse{}
	err = json.Unmarshal(respPayload, &tokenResp)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error parsing access-token response: %s", err))
	}

	expiresIn, err := tokenResp.ExpiresIn.Int64()
	if err != nil {
		expiresIn = 3600
	}

	// renew a minute early so in-flight requests do not race the expiry
	err = p.vault.Put(c, currentAccessTokenUID, AccessToken{
		Token:     tokenResp.AccessToken,
		ExpiresAt: now.Add(time.Duration(expiresIn-60) * time.Second),
	})
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error caching access-token: %s", err))
	}

	return tokenResp.AccessToken, nil
}

func parseDarajaError(respPayload []byte) string {
	darajaErr := darajaErrorResponse{}
	err := json.Unmarshal(respPayload, &darajaErr)
	if err != nil || darajaErr.ErrorMessage == "" {
		return string(respPayload)
	}

	return darajaErr.ErrorMessage
}
