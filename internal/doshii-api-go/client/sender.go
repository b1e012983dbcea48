package client

import (
	"net/http"

	"DoshiiWithPos/internal/doshii-api-go/request"
)

// Sender interface
type Sender interface {
	Send(req request.Request) (resp *http.Response, err error)
}
