package models

type Product struct {
	PosId                string     `json:"posId,omitempty"`
	Name                 string     `json:"name,omitempty"`
	Description          string     `json:"description,omitempty"`
	UnitPrice            int64      `json:"unitPrice,omitempty"`
	TotalBeforeSurcounts int64      `json:"totalBeforeSurcounts,omitempty"`
	TotalAfterSurcounts  int64      `json:"totalAfterSurcounts,omitempty"`
	Quantity             int        `json:"quantity,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	Surcounts            []Surcount `json:"surcounts,omitempty"`
}

type Surcount struct {
	PosId  string `json:"posId,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Amount int64  `json:"amount,omitempty"`
	Value  int64  `json:"value,omitempty"`
}
