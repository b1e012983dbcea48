package models

type Booking struct {
	Id         string    `json:"id,omitempty"`
	TableNames []string  `json:"tableNames,omitempty"`
	Date       string    `json:"date,omitempty"`
	Covers     int       `json:"covers,omitempty"`
	Consumer   *Consumer `json:"consumer,omitempty"`
	CheckinId  string    `json:"checkinId,omitempty"`
	App        string    `json:"app,omitempty"`
	Status     string    `json:"status,omitempty"`
	Uri        string    `json:"uri,omitempty"`
}
