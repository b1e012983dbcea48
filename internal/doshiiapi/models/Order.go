package models

// Order statuses pushed by the platform or set by the POS.
const (
	ORDER_STATUS_PENDING             = "pending"
	ORDER_STATUS_ACCEPTED            = "accepted"
	ORDER_STATUS_REJECTED            = "rejected"
	ORDER_STATUS_WAITING_FOR_PAYMENT = "waiting_for_payment"
	ORDER_STATUS_PAID                = "paid"
	ORDER_STATUS_COMPLETE            = "complete"
	ORDER_STATUS_CANCELLED           = "cancelled"
	ORDER_STATUS_VENUE_CANCELLED     = "venue_cancelled"
)

// Order types.
const (
	ORDER_TYPE_DINEIN   = "dinein"
	ORDER_TYPE_DELIVERY = "delivery"
	ORDER_TYPE_PICKUP   = "pickup"
	ORDER_TYPE_UNKNOWN  = "unknown"
)

type Order struct {
	Id            string     `json:"id,omitempty"`
	DoshiiId      string     `json:"doshiiId,omitempty"`
	Status        string     `json:"status,omitempty"`
	Type          string     `json:"type,omitempty"`
	CheckinId     string     `json:"checkinId,omitempty"`
	LocationId    string     `json:"locationId,omitempty"`
	Version       string     `json:"version,omitempty"`
	Uri           string     `json:"uri,omitempty"`
	Consumer      *Consumer  `json:"consumer,omitempty"`
	Items         []Product  `json:"items,omitempty"`
	Surcounts     []Surcount `json:"surcounts,omitempty"`
	RequiredAt    string     `json:"requiredAt,omitempty"`
	RejectionCode string     `json:"rejectionCode,omitempty"`
}
