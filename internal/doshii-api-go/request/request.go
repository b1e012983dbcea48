package request

import (
	"net/url"
)

// Request describes a single call against the platform REST API.
type Request struct {
	Method   string
	Endpoint string
	Values   url.Values
	Body     interface{}
}
