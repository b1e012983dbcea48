package pos

import (
	"DoshiiWithPos/internal/doshiiapi/models"
)

// Ordering is implemented by the POS to mirror platform-side orders.
// Lookup methods fail with *OrderDoesNotExistOnPosError when the POS does
// not hold the order.
type Ordering interface {
	RetrieveOrder(posOrderId string) (*models.Order, error)
	RetrieveOrderVersion(posOrderId string) (string, error)
	RetrieveCheckinIdForOrder(posOrderId string) (string, error)
	RecordOrderVersion(posOrderId, version string) error
	RecordCheckinForOrder(posOrderId, checkinId string) error

	// Confirm callbacks for platform-created orders. The POS must tolerate
	// a repeated confirm for an order it already knows; replay after a
	// reconnect delivers the same order again.
	ConfirmNewDeliveryOrder(order *models.Order, consumer *models.Consumer) error
	ConfirmNewDeliveryOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error
	ConfirmNewPickupOrder(order *models.Order, consumer *models.Consumer) error
	ConfirmNewPickupOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error
	ConfirmNewUnknownTypeOrder(order *models.Order, consumer *models.Consumer) error
	ConfirmNewUnknownTypeOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error
}

// Transactions is implemented by the POS to mirror payment state.
// ReadyToPay returns the POS representation of the transaction when the
// order may be paid, or nil when the POS declines.
type Transactions interface {
	ReadyToPay(transaction *models.Transaction) (*models.Transaction, error)
	RetrieveTransaction(transactionId string) (*models.Transaction, error)
	RecordTransactionVersion(transactionId, version string) error
	RecordSuccessfulPayment(transaction *models.Transaction) error
	CancelPayment(transaction *models.Transaction) error
}

// Reservations mirrors platform bookings on the POS.
type Reservations interface {
	GetBookingsFromPos() ([]*models.Booking, error)
	CreateBookingOnPos(booking *models.Booking) error
	UpdateBookingOnPos(booking *models.Booking) error
	DeleteBookingOnPos(booking *models.Booking) error
}

// Rewards mirrors platform members on the POS.
type Rewards interface {
	GetMembersFromPos() ([]*models.Member, error)
	CreateMemberOnPos(member *models.Member) error
	UpdateMemberOnPos(member *models.Member) error
	DeleteMemberOnPos(member *models.Member) error
}

// Apps mirrors platform partner apps on the POS.
type Apps interface {
	GetAppsFromPos() ([]*models.App, error)
	CreateAppOnPos(app *models.App) error
	UpdateAppOnPos(app *models.App) error
	DeleteAppOnPos(app *models.App) error
}
