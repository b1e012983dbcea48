package models

type Location struct {
	Id           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Country      string `json:"country,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}
