package net

import (
	"strings"

	"DoshiiWithPos/internal/doshii-api-go/request"
)

// URLBuilder interface
type URLBuilder interface {
	GetURL(req request.Request) string
}

// ApiURLBuilder joins the platform base URL, the API version segment and
// the endpoint, then appends any query parameters.
type ApiURLBuilder struct {
	baseURL string
	version string
}

func NewApiURLBuilder(baseURL, version string) *ApiURLBuilder {
	return &ApiURLBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
		version: strings.Trim(version, "/"),
	}
}

func (b *ApiURLBuilder) GetURL(req request.Request) string {
	url := b.baseURL + "/" + b.version + "/" + strings.TrimLeft(req.Endpoint, "/")
	if len(req.Values) > 0 {
		url = url + "?" + req.Values.Encode()
	}
	return url
}
