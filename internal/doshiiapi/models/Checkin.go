package models

type Checkin struct {
	Id          string    `json:"id,omitempty"`
	TableNames  []string  `json:"tableNames,omitempty"`
	Covers      int       `json:"covers,omitempty"`
	BookingId   string    `json:"bookingId,omitempty"`
	Consumer    *Consumer `json:"consumer,omitempty"`
	CompletedAt string    `json:"completedAt,omitempty"`
	Uri         string    `json:"uri,omitempty"`
}
