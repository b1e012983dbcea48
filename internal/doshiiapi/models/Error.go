package models

import "fmt"

// RestfulApiError carries a non-2xx platform response. StatusCode keeps the
// HTTP status so callers can branch on conflict (409) or payment-required
// (402) without string matching.
type RestfulApiError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *RestfulApiError) Error() string {
	return fmt.Sprintf("doshii api error: statusCode:%d; status:%s; message:%s;",
		e.StatusCode, e.Status, e.Message)
}

// EmptyResponseError marks a 2xx response with no body where the caller
// expected data.
type EmptyResponseError struct {
	Endpoint string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("doshii api returned success with empty body, endpoint:%s", e.Endpoint)
}
