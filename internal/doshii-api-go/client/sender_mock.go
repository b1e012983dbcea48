package client

import (
	"net/http"

	"DoshiiWithPos/internal/doshii-api-go/request"
)

// SenderMock imitates sending requests and receiving responses
type SenderMock struct {
	response http.Response
	requests []request.Request
}

// Send ...
func (r *SenderMock) Send(req request.Request) (resp *http.Response, err error) {
	r.requests = append(r.requests, req)
	return &r.response, nil
}
