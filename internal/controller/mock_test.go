package controller

import (
	"sync"

	"DoshiiWithPos/internal/doshiiapi"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
)

// apiMock implements only the gateway methods a test wires up. Calls to
// anything else go through the embedded nil interface and panic, which
// makes an unexpected platform call fail loudly.
type apiMock struct {
	doshiiapi.DOSHIIAPI

	unlinkedOrderGet                 func(doshiiId string) (*models.Order, error)
	unlinkedOrdersGet                func() ([]*models.Order, error)
	orderUpdate                      func(o *models.Order) (*models.Order, error)
	orderCreatedResultPut            func(o *models.Order) (*models.Order, error)
	transactionsGetFromDoshiiOrderId func(doshiiOrderId string) ([]*models.Transaction, error)
	transactionUpdate                func(t *models.Transaction) (*models.Transaction, error)
	bookingsGet                      func() ([]*models.Booking, error)
	membersGet                       func() ([]*models.Member, error)
	appsGet                          func() ([]*models.App, error)
}

func (m *apiMock) UnlinkedOrderGet(doshiiId string) (*models.Order, error) {
	return m.unlinkedOrderGet(doshiiId)
}

func (m *apiMock) UnlinkedOrdersGet() ([]*models.Order, error) {
	return m.unlinkedOrdersGet()
}

func (m *apiMock) OrderUpdate(o *models.Order) (*models.Order, error) {
	return m.orderUpdate(o)
}

func (m *apiMock) OrderCreatedResultPut(o *models.Order) (*models.Order, error) {
	return m.orderCreatedResultPut(o)
}

func (m *apiMock) TransactionsGetFromDoshiiOrderId(doshiiOrderId string) ([]*models.Transaction, error) {
	return m.transactionsGetFromDoshiiOrderId(doshiiOrderId)
}

func (m *apiMock) TransactionUpdate(t *models.Transaction) (*models.Transaction, error) {
	return m.transactionUpdate(t)
}

func (m *apiMock) BookingsGet() ([]*models.Booking, error) {
	return m.bookingsGet()
}

func (m *apiMock) MembersGet() ([]*models.Member, error) {
	return m.membersGet()
}

func (m *apiMock) AppsGet() ([]*models.App, error) {
	return m.appsGet()
}

// posOrderingMock records confirm callbacks and version/checkin writes.
type posOrderingMock struct {
	mu               sync.Mutex
	confirms         []string
	confirmErr       error
	recordedVersions map[string]string
	recordedCheckins map[string]string
	retrieveVersion  func(posOrderId string) (string, error)
}

func newPosOrderingMock() *posOrderingMock {
	return &posOrderingMock{
		recordedVersions: make(map[string]string),
		recordedCheckins: make(map[string]string),
	}
}

func (m *posOrderingMock) confirm(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirms = append(m.confirms, name)
	return m.confirmErr
}

func (m *posOrderingMock) confirmCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.confirms))
	copy(out, m.confirms)
	return out
}

func (m *posOrderingMock) RetrieveOrder(posOrderId string) (*models.Order, error) {
	return nil, &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
}

func (m *posOrderingMock) RetrieveOrderVersion(posOrderId string) (string, error) {
	if m.retrieveVersion != nil {
		return m.retrieveVersion(posOrderId)
	}
	return "", &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
}

func (m *posOrderingMock) RetrieveCheckinIdForOrder(posOrderId string) (string, error) {
	return "", &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
}

func (m *posOrderingMock) RecordOrderVersion(posOrderId, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordedVersions[posOrderId] = version
	return nil
}

func (m *posOrderingMock) RecordCheckinForOrder(posOrderId, checkinId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordedCheckins[posOrderId] = checkinId
	return nil
}

func (m *posOrderingMock) ConfirmNewDeliveryOrder(order *models.Order, consumer *models.Consumer) error {
	return m.confirm("delivery")
}

func (m *posOrderingMock) ConfirmNewDeliveryOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return m.confirm("delivery_with_payment")
}

func (m *posOrderingMock) ConfirmNewPickupOrder(order *models.Order, consumer *models.Consumer) error {
	return m.confirm("pickup")
}

func (m *posOrderingMock) ConfirmNewPickupOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return m.confirm("pickup_with_payment")
}

func (m *posOrderingMock) ConfirmNewUnknownTypeOrder(order *models.Order, consumer *models.Consumer) error {
	return m.confirm("unknown")
}

func (m *posOrderingMock) ConfirmNewUnknownTypeOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return m.confirm("unknown_with_payment")
}

// posTransactionsMock records version, payment and cancel signals.
type posTransactionsMock struct {
	mu                  sync.Mutex
	readyToPay          func(t *models.Transaction) (*models.Transaction, error)
	retrieveTransaction func(transactionId string) (*models.Transaction, error)
	recordedVersions    map[string]string
	successfulPayments  []string
	cancelledPayments   []string
}

func newPosTransactionsMock() *posTransactionsMock {
	return &posTransactionsMock{
		recordedVersions: make(map[string]string),
	}
}

func (m *posTransactionsMock) ReadyToPay(transaction *models.Transaction) (*models.Transaction, error) {
	return m.readyToPay(transaction)
}

func (m *posTransactionsMock) RetrieveTransaction(transactionId string) (*models.Transaction, error) {
	if m.retrieveTransaction != nil {
		return m.retrieveTransaction(transactionId)
	}
	return nil, &pos.TransactionDoesNotExistOnPosError{TransactionId: transactionId}
}

func (m *posTransactionsMock) RecordTransactionVersion(transactionId, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordedVersions[transactionId] = version
	return nil
}

func (m *posTransactionsMock) RecordSuccessfulPayment(transaction *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successfulPayments = append(m.successfulPayments, transaction.Id)
	return nil
}

func (m *posTransactionsMock) CancelPayment(transaction *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelledPayments = append(m.cancelledPayments, transaction.Id)
	return nil
}

func (m *posTransactionsMock) cancelled() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.cancelledPayments))
	copy(out, m.cancelledPayments)
	return out
}

// reservationsMock backs booking sync tests with an in-memory list.
type reservationsMock struct {
	bookings  []*models.Booking
	createErr func(id string) error
	created   []string
	updated   []string
	deleted   []string
}

func (m *reservationsMock) GetBookingsFromPos() ([]*models.Booking, error) {
	return m.bookings, nil
}

func (m *reservationsMock) CreateBookingOnPos(booking *models.Booking) error {
	if m.createErr != nil {
		if err := m.createErr(booking.Id); err != nil {
			return err
		}
	}
	m.created = append(m.created, booking.Id)
	return nil
}

func (m *reservationsMock) UpdateBookingOnPos(booking *models.Booking) error {
	m.updated = append(m.updated, booking.Id)
	return nil
}

func (m *reservationsMock) DeleteBookingOnPos(booking *models.Booking) error {
	m.deleted = append(m.deleted, booking.Id)
	return nil
}

// rewardsMock backs member sync tests.
type rewardsMock struct {
	members   []*models.Member
	createErr func(id string) error
	created   []string
	updated   []string
	deleted   []string
}

func (m *rewardsMock) GetMembersFromPos() ([]*models.Member, error) {
	return m.members, nil
}

func (m *rewardsMock) CreateMemberOnPos(member *models.Member) error {
	if m.createErr != nil {
		if err := m.createErr(member.Id); err != nil {
			return err
		}
	}
	m.created = append(m.created, member.Id)
	return nil
}

func (m *rewardsMock) UpdateMemberOnPos(member *models.Member) error {
	m.updated = append(m.updated, member.Id)
	return nil
}

func (m *rewardsMock) DeleteMemberOnPos(member *models.Member) error {
	m.deleted = append(m.deleted, member.Id)
	return nil
}

// appsMock backs app sync tests.
type appsMock struct {
	apps    []*models.App
	created []string
	updated []string
	deleted []string
}

func (m *appsMock) GetAppsFromPos() ([]*models.App, error) {
	return m.apps, nil
}

func (m *appsMock) CreateAppOnPos(app *models.App) error {
	m.created = append(m.created, app.Id)
	return nil
}

func (m *appsMock) UpdateAppOnPos(app *models.App) error {
	m.updated = append(m.updated, app.Id)
	return nil
}

func (m *appsMock) DeleteAppOnPos(app *models.App) error {
	m.deleted = append(m.deleted, app.Id)
	return nil
}
