package client

import (
	"net/http"
	"net/url"

	"DoshiiWithPos/internal/doshii-api-go/auth"
	"DoshiiWithPos/internal/doshii-api-go/net"
	"DoshiiWithPos/internal/doshii-api-go/request"
)

// Client is the upper level class which delegates all work to the Sender
type Client struct {
	sender Sender
}

// NewClient wires the default sender stack: JSON request creator, token
// auth enricher, versioned URL builder, stock http client.
func NewClient(baseURL, version, token, vendor string) *Client {
	sender := &net.Sender{}
	sender.SetRequestCreator(&net.JSONRequestCreator{})
	sender.SetRequestEnricher(&auth.TokenAuthentication{Token: token, Vendor: vendor})
	sender.SetURLBuilder(net.NewApiURLBuilder(baseURL, version))
	sender.SetHTTPClient(&http.Client{})
	return &Client{sender: sender}
}

// Get Method loads data from Endpoint with specified parameters
func (c *Client) Get(endpoint string, parameters url.Values) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "GET",
		Endpoint: endpoint,
		Values:   parameters,
	})
}

// Post Method usually creates new instances
func (c *Client) Post(endpoint string, parameters url.Values, body interface{}) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "POST",
		Endpoint: endpoint,
		Values:   parameters,
		Body:     body,
	})
}

// Put Method usually updates existing instances
func (c *Client) Put(endpoint string, body interface{}) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "PUT",
		Endpoint: endpoint,
		Body:     body,
	})
}

// Delete Method usually removes existing instances
func (c *Client) Delete(endpoint string, parameters url.Values) (*http.Response, error) {
	return c.sender.Send(request.Request{
		Method:   "DELETE",
		Endpoint: endpoint,
		Values:   parameters,
	})
}
