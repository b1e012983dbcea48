package httphandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoshiiWithPos/internal/controller"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
)

type posStub struct{}

func (posStub) RetrieveOrder(posOrderId string) (*models.Order, error) {
	return nil, &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
}
func (posStub) RetrieveOrderVersion(posOrderId string) (string, error) {
	return "", &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
}
func (posStub) RetrieveCheckinIdForOrder(posOrderId string) (string, error) {
	return "", &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
}
func (posStub) RecordOrderVersion(posOrderId, version string) error      { return nil }
func (posStub) RecordCheckinForOrder(posOrderId, checkinId string) error { return nil }
func (posStub) ConfirmNewDeliveryOrder(order *models.Order, consumer *models.Consumer) error {
	return nil
}
func (posStub) ConfirmNewDeliveryOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return nil
}
func (posStub) ConfirmNewPickupOrder(order *models.Order, consumer *models.Consumer) error {
	return nil
}
func (posStub) ConfirmNewPickupOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return nil
}
func (posStub) ConfirmNewUnknownTypeOrder(order *models.Order, consumer *models.Consumer) error {
	return nil
}
func (posStub) ConfirmNewUnknownTypeOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return nil
}

func (posStub) ReadyToPay(transaction *models.Transaction) (*models.Transaction, error) {
	return nil, nil
}
func (posStub) RetrieveTransaction(transactionId string) (*models.Transaction, error) {
	return nil, &pos.TransactionDoesNotExistOnPosError{TransactionId: transactionId}
}
func (posStub) RecordTransactionVersion(transactionId, version string) error  { return nil }
func (posStub) RecordSuccessfulPayment(transaction *models.Transaction) error { return nil }
func (posStub) CancelPayment(transaction *models.Transaction) error           { return nil }

func (posStub) GetBookingsFromPos() ([]*models.Booking, error)   { return nil, nil }
func (posStub) CreateBookingOnPos(booking *models.Booking) error { return nil }
func (posStub) UpdateBookingOnPos(booking *models.Booking) error { return nil }
func (posStub) DeleteBookingOnPos(booking *models.Booking) error { return nil }
func (posStub) GetMembersFromPos() ([]*models.Member, error)     { return nil, nil }
func (posStub) CreateMemberOnPos(member *models.Member) error    { return nil }
func (posStub) UpdateMemberOnPos(member *models.Member) error    { return nil }
func (posStub) DeleteMemberOnPos(member *models.Member) error    { return nil }
func (posStub) GetAppsFromPos() ([]*models.App, error)           { return nil, nil }
func (posStub) CreateAppOnPos(app *models.App) error             { return nil }
func (posStub) UpdateAppOnPos(app *models.App) error             { return nil }
func (posStub) DeleteAppOnPos(app *models.App) error             { return nil }

func newTestHandlers(t *testing.T, platformVersion string) *Handlers {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v3/unlinked_orders/d-1":
			_ = json.NewEncoder(w).Encode(&models.Order{DoshiiId: "d-1", Version: platformVersion})
		case r.Method == http.MethodPut && r.URL.Path == "/v3/unlinked_orders/d-1":
			var sent models.Order
			_ = json.NewDecoder(r.Body).Decode(&sent)
			sent.Id = "p-1"
			_ = json.NewEncoder(w).Encode(&sent)
		case r.URL.Path == "/v3/unlinked_orders/d-1/transactions":
			_ = json.NewEncoder(w).Encode([]*models.Transaction{})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	stub := posStub{}
	d := controller.NewDoshiiController(stub, stub, stub, stub, stub, nil)
	require.NoError(t, d.Initialize(server.URL, "ws://127.0.0.1:1/socket", "signed-token", "doshii", 30))
	t.Cleanup(d.Close)

	return &Handlers{Controller: d}
}

func TestHandlerVersion(t *testing.T) {
	h := &Handlers{}
	recorder := httptest.NewRecorder()

	h.HandlerVersion(recorder, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Contains(t, recorder.Body.String(), "Version")
}

func TestHandlerOrderAheadDecisionAccept(t *testing.T) {
	h := newTestHandlers(t, "1")
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/orderahead/decision",
		strings.NewReader(`{"doshiiId":"d-1","version":"1","accept":true}`))

	h.HandlerOrderAheadDecision(recorder, request, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "accepted", recorder.Body.String())
}

func TestHandlerOrderAheadDecisionStaleVersion(t *testing.T) {
	h := newTestHandlers(t, "2")
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/orderahead/decision",
		strings.NewReader(`{"doshiiId":"d-1","version":"1","accept":true}`))

	h.HandlerOrderAheadDecision(recorder, request, nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandlerOrderAheadDecisionReject(t *testing.T) {
	h := newTestHandlers(t, "1")
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/orderahead/decision",
		strings.NewReader(`{"doshiiId":"d-1","version":"1","accept":false}`))

	h.HandlerOrderAheadDecision(recorder, request, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "rejected", recorder.Body.String())
}

func TestHandlerOrderAheadDecisionBadRequest(t *testing.T) {
	h := newTestHandlers(t, "1")
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/orderahead/decision",
		strings.NewReader(`{not json`))

	h.HandlerOrderAheadDecision(recorder, request, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
