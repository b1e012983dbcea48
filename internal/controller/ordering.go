package controller

import (
	"github.com/pkg/errors"

	"DoshiiWithPos/internal/doshiiapi"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
	"DoshiiWithPos/pkg/logging"
)

// OrderingController keeps POS-side order state in lockstep with the
// platform. It receives order events from the socket channel and
// accept/reject/update calls from the POS facade.
type OrderingController struct {
	api          doshiiapi.DOSHIIAPI
	pos          pos.Ordering
	transactions *TransactionController
}

func NewOrderingController(api doshiiapi.DOSHIIAPI, posOrdering pos.Ordering, transactions *TransactionController) *OrderingController {
	return &OrderingController{
		api:          api,
		pos:          posOrdering,
		transactions: transactions,
	}
}

// HandleOrderCreated routes a platform-created order to the matching POS
// confirm callback. An order without a consumer cannot be fulfilled and is
// rejected outright. Pure dispatch, no retry.
func (c *OrderingController) HandleOrderCreated(order *models.Order, transactions []*models.Transaction) {
	logger := logging.GetLogger()
	logger.Infof("Start HandleOrderCreated, doshiiId:%s, type:%s", order.DoshiiId, order.Type)
	defer logger.Infof("End HandleOrderCreated, doshiiId:%s", order.DoshiiId)

	if order.Consumer == nil {
		logger.Warnf("order created without consumer, rejecting, doshiiId:%s", order.DoshiiId)
		c.RejectOrderFromOrderCreateMessage(order, transactions)
		return
	}

	withPayment := len(transactions) > 0

	var err error
	switch order.Type {
	case models.ORDER_TYPE_DELIVERY:
		if withPayment {
			err = c.pos.ConfirmNewDeliveryOrderWithFullPayment(order, order.Consumer, transactions)
		} else {
			err = c.pos.ConfirmNewDeliveryOrder(order, order.Consumer)
		}
	case models.ORDER_TYPE_PICKUP:
		if withPayment {
			err = c.pos.ConfirmNewPickupOrderWithFullPayment(order, order.Consumer, transactions)
		} else {
			err = c.pos.ConfirmNewPickupOrder(order, order.Consumer)
		}
	default:
		if withPayment {
			err = c.pos.ConfirmNewUnknownTypeOrderWithFullPayment(order, order.Consumer, transactions)
		} else {
			err = c.pos.ConfirmNewUnknownTypeOrder(order, order.Consumer)
		}
	}

	if err != nil {
		logger.Errorf("pos failed to confirm new order, doshiiId:%s, error: %v", order.DoshiiId, err)
	}
}

// AcceptOrderAheadCreation confirms a platform-created order. The accept
// is aborted when the caller's version is stale so that a concurrent
// platform-side change is never overwritten. On success every associated
// transaction is claimed; per-transaction failures are logged and
// swallowed because the platform gives partners no way to retry an
// order-ahead transaction later (known limitation).
func (c *OrderingController) AcceptOrderAheadCreation(orderToAccept *models.Order) bool {
	logger := logging.GetLogger()
	logger.Infof("Start AcceptOrderAheadCreation, doshiiId:%s", orderToAccept.DoshiiId)
	defer logger.Infof("End AcceptOrderAheadCreation, doshiiId:%s", orderToAccept.DoshiiId)

	orderOnPlatform, err := c.api.UnlinkedOrderGet(orderToAccept.DoshiiId)
	if err != nil {
		logger.Errorf("failed to fetch order before accept, doshiiId:%s, error: %v", orderToAccept.DoshiiId, err)
		return false
	}

	if orderOnPlatform.Version != orderToAccept.Version {
		logger.Warnf("order version is stale, refusing accept, doshiiId:%s, held:%s, platform:%s",
			orderToAccept.DoshiiId, orderToAccept.Version, orderOnPlatform.Version)
		return false
	}

	orderToAccept.Status = models.ORDER_STATUS_ACCEPTED
	if _, err := c.putOrderCreatedResult(orderToAccept); err != nil {
		logger.Errorf("failed to accept order on platform, doshiiId:%s, error: %v", orderToAccept.DoshiiId, err)
		return false
	}

	transactions, err := c.api.TransactionsGetFromDoshiiOrderId(orderToAccept.DoshiiId)
	if err != nil {
		logger.Errorf("failed to fetch transactions for accepted order, doshiiId:%s, error: %v",
			orderToAccept.DoshiiId, err)
		return true
	}

	for _, transaction := range transactions {
		c.transactions.RecordTransactionVersion(transaction.Id, transaction.Version)
		transaction.Status = models.TRANSACTION_STATUS_WAITING
		if !c.transactions.RequestPaymentForOrderExistingTransaction(transaction) {
			logger.Errorf("failed to claim payment for accepted order, doshiiId:%s, transactionId:%s",
				orderToAccept.DoshiiId, transaction.Id)
		}
	}

	return true
}

// RejectOrderAheadCreation declines a platform-created order on behalf of
// the POS. Best effort throughout; see AcceptOrderAheadCreation on why
// failures are swallowed.
func (c *OrderingController) RejectOrderAheadCreation(orderToReject *models.Order) {
	logger := logging.GetLogger()
	logger.Infof("Start RejectOrderAheadCreation, doshiiId:%s", orderToReject.DoshiiId)
	defer logger.Infof("End RejectOrderAheadCreation, doshiiId:%s", orderToReject.DoshiiId)

	transactions, err := c.api.TransactionsGetFromDoshiiOrderId(orderToReject.DoshiiId)
	if err != nil {
		logger.Errorf("failed to fetch transactions for rejected order, doshiiId:%s, error: %v",
			orderToReject.DoshiiId, err)
		transactions = nil
	}

	c.rejectOrder(orderToReject, transactions)
}

// RejectOrderFromOrderCreateMessage rejects an order straight out of the
// create event, reusing the transactions the event carried.
func (c *OrderingController) RejectOrderFromOrderCreateMessage(order *models.Order, transactions []*models.Transaction) {
	logger := logging.GetLogger()
	logger.Infof("Start RejectOrderFromOrderCreateMessage, doshiiId:%s", order.DoshiiId)
	defer logger.Infof("End RejectOrderFromOrderCreateMessage, doshiiId:%s", order.DoshiiId)

	c.rejectOrder(order, transactions)
}

func (c *OrderingController) rejectOrder(order *models.Order, transactions []*models.Transaction) {
	logger := logging.GetLogger()

	order.Status = models.ORDER_STATUS_REJECTED
	if _, err := c.putOrderCreatedResult(order); err != nil {
		logger.Errorf("failed to reject order on platform, doshiiId:%s, error: %v", order.DoshiiId, err)
	}

	for _, transaction := range transactions {
		transaction.Status = models.TRANSACTION_STATUS_REJECTED
		if !c.transactions.RejectPaymentForOrder(transaction) {
			logger.Errorf("failed to reject payment for rejected order, doshiiId:%s, transactionId:%s",
				order.DoshiiId, transaction.Id)
		}
	}
}

// UpdateOrder pushes a POS-side order change to the platform using the
// most recently recorded version. A 409 here is reported as a plain
// OrderUpdateError; only the order-ahead confirmation path distinguishes
// conflicts, because only that path has a defined conflict recovery.
func (c *OrderingController) UpdateOrder(order *models.Order) (*models.Order, error) {
	logger := logging.GetLogger()
	logger.Infof("Start UpdateOrder, posOrderId:%s", order.Id)
	defer logger.Infof("End UpdateOrder, posOrderId:%s", order.Id)

	version, err := c.pos.RetrieveOrderVersion(order.Id)
	if err != nil {
		logger.Warnf("failed to retrieve order version from pos, posOrderId:%s, error: %v", order.Id, err)
	} else {
		order.Version = version
	}

	updatedOrder, err := c.api.OrderUpdate(order)
	if err != nil {
		return nil, &OrderUpdateError{PosOrderId: order.Id, Cause: err}
	}

	if isSentinelOrder(updatedOrder) {
		return nil, &OrderUpdateError{
			PosOrderId: order.Id,
			Cause:      errors.New("platform returned success with sentinel ids"),
		}
	}

	c.RecordOrderVersion(order.Id, updatedOrder.Version)
	c.RecordOrderCheckinId(order.Id, updatedOrder.CheckinId)

	return updatedOrder, nil
}

// putOrderCreatedResult reports an accept/reject decision to the platform.
// Unlike UpdateOrder it surfaces HTTP 409 as a distinct conflict error.
func (c *OrderingController) putOrderCreatedResult(order *models.Order) (*models.Order, error) {
	updatedOrder, err := c.api.OrderCreatedResultPut(order)
	if err != nil {
		var restErr *models.RestfulApiError
		if errors.As(err, &restErr) && restErr.StatusCode == 409 {
			return nil, &ConflictWithOrderUpdateError{DoshiiId: order.DoshiiId, Cause: err}
		}
		return nil, &OrderUpdateError{PosOrderId: order.Id, Cause: err}
	}

	if isSentinelOrder(updatedOrder) {
		return nil, &OrderUpdateError{
			PosOrderId: order.Id,
			Cause:      errors.New("platform returned success with sentinel ids"),
		}
	}

	if updatedOrder.Id != "" {
		c.RecordOrderVersion(updatedOrder.Id, updatedOrder.Version)
		c.RecordOrderCheckinId(updatedOrder.Id, updatedOrder.CheckinId)
	}

	return updatedOrder, nil
}

// isSentinelOrder detects the platform's zero/empty id response, a logical
// failure hidden behind HTTP 200. The check is part of the platform
// contract.
func isSentinelOrder(order *models.Order) bool {
	if order == nil {
		return true
	}
	if order.Id == "0" && order.DoshiiId == "0" {
		return true
	}
	return order.Id == "" && order.DoshiiId == ""
}

// RefreshAllOrders replays pending unlinked orders through the creation
// pipeline. This is the sole recovery path for events missed while the
// socket was down; the POS confirm callbacks tolerate replays.
func (c *OrderingController) RefreshAllOrders() error {
	logger := logging.GetLogger()
	logger.Info("Start RefreshAllOrders")
	defer logger.Info("End RefreshAllOrders")

	orders, err := c.api.UnlinkedOrdersGet()
	if err != nil {
		return errors.Wrap(err, "failed in UnlinkedOrdersGet()")
	}
	logger.Infof("unlinked orders on platform: %d", len(orders))

	for _, order := range orders {
		if order.Status != models.ORDER_STATUS_PENDING {
			continue
		}
		transactions, err := c.api.TransactionsGetFromDoshiiOrderId(order.DoshiiId)
		if err != nil {
			logger.Errorf("failed to fetch transactions for pending order, doshiiId:%s, error: %v",
				order.DoshiiId, err)
			continue
		}
		c.HandleOrderCreated(order, transactions)
	}

	return nil
}

// RecordOrderVersion forwards a platform-issued version to the POS. Best
// effort: the order may have been deleted on the POS concurrently.
func (c *OrderingController) RecordOrderVersion(posOrderId, version string) {
	logger := logging.GetLogger()

	err := c.pos.RecordOrderVersion(posOrderId, version)
	if err == nil {
		return
	}
	var notExist *pos.OrderDoesNotExistOnPosError
	if errors.As(err, &notExist) {
		logger.Infof("order gone from pos while recording version, posOrderId:%s", posOrderId)
		return
	}
	logger.Errorf("failed to record order version on pos, posOrderId:%s, error: %v", posOrderId, err)
}

// RecordOrderCheckinId forwards the checkin linkage to the POS. Best
// effort, same rules as RecordOrderVersion.
func (c *OrderingController) RecordOrderCheckinId(posOrderId, checkinId string) {
	logger := logging.GetLogger()

	err := c.pos.RecordCheckinForOrder(posOrderId, checkinId)
	if err == nil {
		return
	}
	var notExist *pos.OrderDoesNotExistOnPosError
	if errors.As(err, &notExist) {
		logger.Infof("order gone from pos while recording checkin, posOrderId:%s", posOrderId)
		return
	}
	logger.Errorf("failed to record checkin on pos, posOrderId:%s, error: %v", posOrderId, err)
}
