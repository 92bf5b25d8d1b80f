package myhttpclient

import "context"

//go:generate mockgen -source=api.go -package myhttpclient -destination httpclient_mock.go HTTPSender
type HTTPSender interface {
	// Send performs a JSON request and returns the http-status, response body and transport error
	Send(c context.Context, method string, url string, body []byte, headers map[string]string) (int, []byte, error)
}
