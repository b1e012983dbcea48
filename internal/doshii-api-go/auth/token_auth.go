package auth

import (
	"net/http"
)

// TokenAuthentication carries the per-request signed token and the vendor
// identifier the platform requires on every call.
type TokenAuthentication struct {
	Token  string
	Vendor string
}

// EnrichRequest sets the bearer token and vendor headers.
func (t *TokenAuthentication) EnrichRequest(r *http.Request, URL string) {
	r.Header.Set("Authorization", "Bearer "+t.Token)
	r.Header.Set("vendor", t.Vendor)
}
