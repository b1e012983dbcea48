package models

type Consumer struct {
	Name           string   `json:"name,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Email          string   `json:"email,omitempty"`
	MarketingOptIn bool     `json:"marketingOptIn,omitempty"`
	Anonymous      bool     `json:"anonymous,omitempty"`
	Address        *Address `json:"address,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}
