package net

import "net/http"

// RequestEnricher adds authentication headers to an outgoing request
type RequestEnricher interface {
	EnrichRequest(r *http.Request, URL string)
}

// RequestCreator builds the raw http.Request
type RequestCreator interface {
	NewRequest(method, url string, body interface{}) (*http.Request, error)
}

// Client executes the prepared request
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
