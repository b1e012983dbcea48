package controller

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"

	"DoshiiWithPos/internal/doshiiapi"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
	"DoshiiWithPos/internal/socket"
	"DoshiiWithPos/pkg/logging"
)

// Alerter forwards operational incidents (liveness timeouts, protocol
// violations) to whoever is on call. Optional.
type Alerter interface {
	Alert(message string)
}

// Result is the facade's answer for expected failure modes, like a reward
// that was already redeemed.
type Result struct {
	Success bool
	Reason  string
}

// DoshiiController is the single entry point for the POS. It owns the
// socket channel lifecycle, dispatches channel events to the engines and
// exposes the POS-facing operations. Each engine receives only the
// interfaces it needs; there is no shared controller bag.
type DoshiiController struct {
	posOrdering     pos.Ordering
	posTransactions pos.Transactions
	posReservations pos.Reservations
	posRewards      pos.Rewards
	posApps         pos.Apps
	alerter         Alerter

	mu           sync.Mutex
	initialized  bool
	api          doshiiapi.DOSHIIAPI
	channel      *socket.Channel
	ordering     *OrderingController
	transactions *TransactionController
	sync         *SyncController

	socketURL      string
	timeoutSeconds int
}

func NewDoshiiController(ordering pos.Ordering, transactions pos.Transactions,
	reservations pos.Reservations, rewards pos.Rewards, apps pos.Apps, alerter Alerter) *DoshiiController {
	return &DoshiiController{
		posOrdering:     ordering,
		posTransactions: transactions,
		posReservations: reservations,
		posRewards:      rewards,
		posApps:         apps,
		alerter:         alerter,
	}
}

// Initialize builds the gateway, the engines and the socket channel, then
// connects. Every other method fails with NotInitializedError until this
// succeeds.
func (d *DoshiiController) Initialize(baseURL, socketURL, token, vendor string, livenessTimeoutSeconds int) error {
	logger := logging.GetLogger()
	logger.Info("Start Initialize DoshiiController")
	defer logger.Info("End Initialize DoshiiController")

	d.mu.Lock()
	defer d.mu.Unlock()

	d.api = doshiiapi.NewAPI(baseURL, token, vendor)
	d.transactions = NewTransactionController(d.api, d.posTransactions)
	d.ordering = NewOrderingController(d.api, d.posOrdering, d.transactions)
	d.sync = NewSyncController(d.api, d.ordering, d.posReservations, d.posRewards, d.posApps)

	channel, err := socket.NewChannel(socketURL, livenessTimeoutSeconds, d)
	if err != nil {
		return errors.Wrap(err, "failed in socket.NewChannel()")
	}
	d.channel = channel
	d.socketURL = socketURL
	d.timeoutSeconds = livenessTimeoutSeconds
	d.initialized = true

	d.channel.Initialize()
	return nil
}

// ReplaceChannel drops the current socket and dials a fresh one with the
// same handler registration. Used when the integrator rotates endpoints.
func (d *DoshiiController) ReplaceChannel(socketURL string) error {
	if err := d.guard(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.channel
	channel, err := socket.NewChannel(socketURL, d.timeoutSeconds, d)
	if err != nil {
		return errors.Wrap(err, "failed in socket.NewChannel()")
	}
	d.channel = channel
	d.socketURL = socketURL
	if old != nil {
		old.Close()
	}
	d.channel.Initialize()
	return nil
}

// Close releases the socket channel.
func (d *DoshiiController) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.channel != nil {
		d.channel.Close()
	}
	d.initialized = false
}

func (d *DoshiiController) guard() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return &NotInitializedError{}
	}
	return nil
}

func (d *DoshiiController) alert(message string) {
	if d.alerter != nil {
		d.alerter.Alert(message)
	}
}

// ---- POS-facing operations ----

func (d *DoshiiController) AcceptOrderAheadCreation(order *models.Order) (bool, error) {
	if err := d.guard(); err != nil {
		return false, err
	}
	return d.ordering.AcceptOrderAheadCreation(order), nil
}

func (d *DoshiiController) RejectOrderAheadCreation(order *models.Order) error {
	if err := d.guard(); err != nil {
		return err
	}
	d.ordering.RejectOrderAheadCreation(order)
	return nil
}

func (d *DoshiiController) UpdateOrder(order *models.Order) (*models.Order, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.ordering.UpdateOrder(order)
}

func (d *DoshiiController) GetOrder(doshiiId string) (*models.Order, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.OrderGet(doshiiId)
}

func (d *DoshiiController) GetOrders() ([]*models.Order, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.OrdersGet()
}

func (d *DoshiiController) GetUnlinkedOrders() ([]*models.Order, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.UnlinkedOrdersGet()
}

func (d *DoshiiController) GetTransaction(transactionId string) (*models.Transaction, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.TransactionGet(transactionId)
}

func (d *DoshiiController) GetTransactionsFromDoshiiOrderId(doshiiOrderId string) ([]*models.Transaction, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.TransactionsGetFromDoshiiOrderId(doshiiOrderId)
}

// SetTableAllocation assigns tables and covers to a checkin.
func (d *DoshiiController) SetTableAllocation(checkinId string, tableNames []string, covers int) (*models.Checkin, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	checkin := &models.Checkin{Id: checkinId, TableNames: tableNames, Covers: covers}
	updated, err := d.api.CheckinUpdate(checkin)
	if err != nil {
		return nil, &CheckinUpdateError{CheckinId: checkinId, Cause: err}
	}
	return updated, nil
}

// ModifyTableAllocation replaces the table set of an existing checkin,
// keeping its covers and consumer.
func (d *DoshiiController) ModifyTableAllocation(checkinId string, tableNames []string) (*models.Checkin, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	checkin, err := d.api.CheckinGet(checkinId)
	if err != nil {
		return nil, &CheckinUpdateError{CheckinId: checkinId, Cause: err}
	}
	checkin.TableNames = tableNames
	updated, err := d.api.CheckinUpdate(checkin)
	if err != nil {
		return nil, &CheckinUpdateError{CheckinId: checkinId, Cause: err}
	}
	return updated, nil
}

func (d *DoshiiController) CloseCheckin(checkinId string) (*models.Checkin, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	closed, err := d.api.CheckinClose(checkinId)
	if err != nil {
		return nil, &CheckinUpdateError{CheckinId: checkinId, Cause: err}
	}
	return closed, nil
}

func (d *DoshiiController) GetTables() ([]*models.Table, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.TablesGet()
}

func (d *DoshiiController) GetMember(memberId string) (*models.Member, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.MemberGet(memberId)
}

func (d *DoshiiController) GetMembers() ([]*models.Member, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.MembersGet()
}

func (d *DoshiiController) GetRewardsForMember(memberId string) ([]*models.Reward, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.MemberRewardsGet(memberId)
}

// RedeemRewardForMember starts a reward redemption. Expected platform
// refusals (already redeemed, ineligible) come back as a failed Result,
// not an error.
func (d *DoshiiController) RedeemRewardForMember(memberId, rewardId string, order *models.Order) (*Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if err := d.api.RewardRedeem(memberId, rewardId, order); err != nil {
		return &Result{Success: false, Reason: err.Error()}, nil
	}
	return &Result{Success: true}, nil
}

func (d *DoshiiController) ConfirmRewardRedemption(memberId, rewardId string) (*Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if err := d.api.RewardRedeemConfirm(memberId, rewardId); err != nil {
		return &Result{Success: false, Reason: err.Error()}, nil
	}
	return &Result{Success: true}, nil
}

func (d *DoshiiController) CancelRewardRedemption(memberId, rewardId string) (*Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if err := d.api.RewardRedeemCancel(memberId, rewardId); err != nil {
		return &Result{Success: false, Reason: err.Error()}, nil
	}
	return &Result{Success: true}, nil
}

func (d *DoshiiController) RedeemPointsForMember(memberId string, redemption *models.PointsRedemption) (*Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if err := d.api.PointsRedeem(memberId, redemption); err != nil {
		return &Result{Success: false, Reason: err.Error()}, nil
	}
	return &Result{Success: true}, nil
}

func (d *DoshiiController) ConfirmPointsRedemption(memberId string) (*Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if err := d.api.PointsRedeemConfirm(memberId); err != nil {
		return &Result{Success: false, Reason: err.Error()}, nil
	}
	return &Result{Success: true}, nil
}

func (d *DoshiiController) CancelPointsRedemption(memberId string) (*Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	if err := d.api.PointsRedeemCancel(memberId); err != nil {
		return &Result{Success: false, Reason: err.Error()}, nil
	}
	return &Result{Success: true}, nil
}

func (d *DoshiiController) GetBookings() ([]*models.Booking, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.api.BookingsGet()
}

// SeatBooking seats a booking against a checkin after verifying the
// checkin matches what was booked: same tables, covers and consumer.
func (d *DoshiiController) SeatBooking(bookingId, checkinId string) error {
	if err := d.guard(); err != nil {
		return err
	}

	booking, err := d.api.BookingGet(bookingId)
	if err != nil {
		return &BookingUpdateError{BookingId: bookingId, Cause: err}
	}
	checkin, err := d.api.CheckinGet(checkinId)
	if err != nil {
		return &BookingUpdateError{BookingId: bookingId, Cause: err}
	}

	if !reflect.DeepEqual(booking.TableNames, checkin.TableNames) {
		return &BookingUpdateError{BookingId: bookingId,
			Cause: errors.New("checkin tables do not match booking tables")}
	}
	if booking.Covers != checkin.Covers {
		return &BookingUpdateError{BookingId: bookingId,
			Cause: errors.New("checkin covers do not match booking covers")}
	}
	if !consumersEqual(booking.Consumer, checkin.Consumer) {
		return &BookingUpdateError{BookingId: bookingId,
			Cause: errors.New("checkin consumer does not match booking consumer")}
	}

	if _, err := d.api.BookingSeat(bookingId, checkin); err != nil {
		return &BookingUpdateError{BookingId: bookingId, Cause: err}
	}
	return nil
}

func consumersEqual(a, b *models.Consumer) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.Phone == b.Phone && a.Email == b.Email
}

func (d *DoshiiController) SyncBookings() (*SyncResult, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sync.SyncBookings()
}

func (d *DoshiiController) SyncMembers() (*SyncResult, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sync.SyncMembers()
}

func (d *DoshiiController) SyncApps() (*SyncResult, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sync.SyncApps()
}

// ---- socket.EventHandler ----

// OnConnectionEstablished replays platform state; it runs on every
// connect, including reconnects, which is what makes missed events safe.
func (d *DoshiiController) OnConnectionEstablished() {
	logging.GetLogger().Info("socket connection established, refreshing from platform")
	d.sync.RefreshFromPlatform()
}

func (d *DoshiiController) OnTimeoutReached() {
	logging.GetLogger().Warn("socket liveness timeout reached")
	d.alert("doshii socket liveness timeout reached")
}

func (d *DoshiiController) OnOrderCreated(e *socket.Event) {
	logger := logging.GetLogger()

	doshiiId := e.OrderId
	if doshiiId == "" {
		doshiiId = e.Id
	}

	order, err := d.api.UnlinkedOrderGet(doshiiId)
	if err != nil {
		logger.Errorf("failed to fetch created order, doshiiId:%s, error: %v", doshiiId, err)
		return
	}
	transactions, err := d.api.TransactionsGetFromDoshiiOrderId(doshiiId)
	if err != nil {
		logger.Errorf("failed to fetch transactions for created order, doshiiId:%s, error: %v", doshiiId, err)
		transactions = nil
	}
	d.ordering.HandleOrderCreated(order, transactions)
}

func (d *DoshiiController) OnOrderStatus(e *socket.Event) {
	logger := logging.GetLogger()

	order, err := d.api.OrderGet(e.OrderId)
	if err != nil {
		logger.Errorf("failed to fetch order for status event, orderId:%s, error: %v", e.OrderId, err)
		return
	}
	d.ordering.RecordOrderVersion(order.Id, order.Version)
	d.ordering.RecordOrderCheckinId(order.Id, order.CheckinId)
	logger.Infof("order status changed, posOrderId:%s, status:%s", order.Id, order.Status)
}

func (d *DoshiiController) OnTransactionCreated(e *socket.Event) {
	d.handleTransactionEvent(e)
}

func (d *DoshiiController) OnTransactionStatus(e *socket.Event) {
	d.handleTransactionEvent(e)
}

func (d *DoshiiController) handleTransactionEvent(e *socket.Event) {
	logger := logging.GetLogger()

	transaction, err := d.api.TransactionGet(e.Id)
	if err != nil {
		logger.Errorf("failed to fetch transaction for event, transactionId:%s, error: %v", e.Id, err)
		return
	}
	if err := d.transactions.HandleTransactionStatusEvent(transaction); err != nil {
		// Protocol violation; the integrator must know immediately.
		logger.Errorf("%v", err)
		d.alert(err.Error())
	}
}

func (d *DoshiiController) OnMemberCreated(e *socket.Event) {
	logger := logging.GetLogger()

	member, err := d.api.MemberGet(e.Id)
	if err != nil {
		logger.Errorf("failed to fetch created member, memberId:%s, error: %v", e.Id, err)
		return
	}
	if err := d.posRewards.CreateMemberOnPos(member); err != nil {
		var exist *pos.MemberExistOnPosError
		if errors.As(err, &exist) {
			if err := d.posRewards.UpdateMemberOnPos(member); err != nil {
				logger.Errorf("failed to update existing member on pos, memberId:%s, error: %v", e.Id, err)
			}
			return
		}
		logger.Errorf("failed to create member on pos, memberId:%s, error: %v", e.Id, err)
	}
}

func (d *DoshiiController) OnMemberUpdated(e *socket.Event) {
	logger := logging.GetLogger()

	member, err := d.api.MemberGet(e.Id)
	if err != nil {
		logger.Errorf("failed to fetch updated member, memberId:%s, error: %v", e.Id, err)
		return
	}
	if err := d.posRewards.UpdateMemberOnPos(member); err != nil {
		var notExist *pos.MemberDoesNotExistOnPosError
		if errors.As(err, &notExist) {
			if err := d.posRewards.CreateMemberOnPos(member); err != nil {
				logger.Errorf("failed to create missing member on pos, memberId:%s, error: %v", e.Id, err)
			}
			return
		}
		logger.Errorf("failed to update member on pos, memberId:%s, error: %v", e.Id, err)
	}
}

func (d *DoshiiController) OnMemberDeleted(e *socket.Event) {
	logger := logging.GetLogger()

	if err := d.posRewards.DeleteMemberOnPos(&models.Member{Id: e.Id}); err != nil {
		var notExist *pos.MemberDoesNotExistOnPosError
		if errors.As(err, &notExist) {
			return
		}
		logger.Errorf("failed to delete member on pos, memberId:%s, error: %v", e.Id, err)
	}
}

func (d *DoshiiController) OnBookingCreated(e *socket.Event) {
	logger := logging.GetLogger()

	booking, err := d.api.BookingGet(e.Id)
	if err != nil {
		logger.Errorf("failed to fetch created booking, bookingId:%s, error: %v", e.Id, err)
		return
	}
	if err := d.posReservations.CreateBookingOnPos(booking); err != nil {
		var exist *pos.BookingExistOnPosError
		if errors.As(err, &exist) {
			if err := d.posReservations.UpdateBookingOnPos(booking); err != nil {
				logger.Errorf("failed to update existing booking on pos, bookingId:%s, error: %v", e.Id, err)
			}
			return
		}
		logger.Errorf("failed to create booking on pos, bookingId:%s, error: %v", e.Id, err)
	}
}

func (d *DoshiiController) OnBookingUpdated(e *socket.Event) {
	logger := logging.GetLogger()

	booking, err := d.api.BookingGet(e.Id)
	if err != nil {
		logger.Errorf("failed to fetch updated booking, bookingId:%s, error: %v", e.Id, err)
		return
	}
	if err := d.posReservations.UpdateBookingOnPos(booking); err != nil {
		var notExist *pos.BookingDoesNotExistOnPosError
		if errors.As(err, &notExist) {
			if err := d.posReservations.CreateBookingOnPos(booking); err != nil {
				logger.Errorf("failed to create missing booking on pos, bookingId:%s, error: %v", e.Id, err)
			}
			return
		}
		logger.Errorf("failed to update booking on pos, bookingId:%s, error: %v", e.Id, err)
	}
}

func (d *DoshiiController) OnBookingDeleted(e *socket.Event) {
	logger := logging.GetLogger()

	if err := d.posReservations.DeleteBookingOnPos(&models.Booking{Id: e.Id}); err != nil {
		var notExist *pos.BookingDoesNotExistOnPosError
		if errors.As(err, &notExist) {
			return
		}
		logger.Errorf("failed to delete booking on pos, bookingId:%s, error: %v", e.Id, err)
	}
}
