package net

import (
	"bytes"
	"encoding/json"
	"net/http"

	"DoshiiWithPos/internal/doshii-api-go/request"
)

// Sender provides HTTP Requests
type Sender struct {
	requestEnricher RequestEnricher
	urlBuilder      URLBuilder
	httpClient      Client
	requestCreator  RequestCreator
}

// Send method sends requests to the platform REST API
func (s *Sender) Send(req request.Request) (resp *http.Response, err error) {
	request, err := s.prepareRequest(req)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(request)
}

func (s *Sender) prepareRequest(req request.Request) (*http.Request, error) {
	URL := s.urlBuilder.GetURL(req)

	request, err := s.requestCreator.NewRequest(req.Method, URL, req.Body)
	if err != nil {
		return nil, err
	}
	s.requestEnricher.EnrichRequest(request, URL)
	request.Header.Set("Content-Type", "application/json")
	return request, nil
}

// SetRequestEnricher ...
func (s *Sender) SetRequestEnricher(a RequestEnricher) {
	s.requestEnricher = a
}

// SetURLBuilder ...
func (s *Sender) SetURLBuilder(urlBuilder URLBuilder) {
	s.urlBuilder = urlBuilder
}

// SetHTTPClient ...
func (s *Sender) SetHTTPClient(c Client) {
	s.httpClient = c
}

// SetRequestCreator ...
func (s *Sender) SetRequestCreator(rc RequestCreator) {
	s.requestCreator = rc
}

// JSONRequestCreator marshals PUT/POST bodies to JSON; other verbs carry
// no body.
type JSONRequestCreator struct{}

func (c *JSONRequestCreator) NewRequest(method, url string, body interface{}) (*http.Request, error) {
	reqBody, err := json.Marshal(body)
	if err != nil || (method != "POST" && method != "PUT") {
		reqBody = nil
	}
	return http.NewRequest(method, url, bytes.NewBuffer(reqBody))
}
