package models

// Transaction statuses. The platform only ever pushes pending, cancelled or
// complete; waiting and rejected are requested by the POS.
const (
	TRANSACTION_STATUS_PENDING   = "pending"
	TRANSACTION_STATUS_WAITING   = "waiting"
	TRANSACTION_STATUS_COMPLETE  = "complete"
	TRANSACTION_STATUS_CANCELLED = "cancelled"
	TRANSACTION_STATUS_REJECTED  = "rejected"
)

type Transaction struct {
	Id               string   `json:"id,omitempty"`
	OrderId          string   `json:"orderId,omitempty"`
	Reference        string   `json:"reference,omitempty"`
	Invoice          string   `json:"invoice,omitempty"`
	PaymentAmount    int64    `json:"paymentAmount,omitempty"`
	AcceptLess       bool     `json:"acceptLess,omitempty"`
	PartnerInitiated bool     `json:"partnerInitiated,omitempty"`
	Partner          string   `json:"partner,omitempty"`
	Status           string   `json:"status,omitempty"`
	Version          string   `json:"version,omitempty"`
	Uri              string   `json:"uri,omitempty"`
	LinkedTrxIds     []string `json:"linkedTrxIds,omitempty"`
}

// IsRefund reports whether this transaction refunds earlier transactions.
func (t *Transaction) IsRefund() bool {
	return len(t.LinkedTrxIds) > 0
}
