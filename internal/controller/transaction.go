package controller

import (
	"fmt"

	"github.com/pkg/errors"

	"DoshiiWithPos/internal/doshiiapi"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
	"DoshiiWithPos/pkg/logging"
)

// TransactionController mirrors platform-driven payment state onto the
// POS. The platform is the authority on transaction status; the POS only
// ever requests waiting (claim) or rejected.
type TransactionController struct {
	api doshiiapi.DOSHIIAPI
	pos pos.Transactions
}

func NewTransactionController(api doshiiapi.DOSHIIAPI, posTransactions pos.Transactions) *TransactionController {
	return &TransactionController{
		api: api,
		pos: posTransactions,
	}
}

// HandleTransactionStatusEvent dispatches a socket-pushed transaction by
// status. Anything outside pending/cancelled/complete breaks the platform
// contract and is returned as a ProtocolViolationError, never swallowed.
func (c *TransactionController) HandleTransactionStatusEvent(transaction *models.Transaction) error {
	logger := logging.GetLogger()
	logger.Infof("Start HandleTransactionStatusEvent, transactionId:%s, status:%s",
		transaction.Id, transaction.Status)
	defer logger.Infof("End HandleTransactionStatusEvent, transactionId:%s", transaction.Id)

	switch transaction.Status {
	case models.TRANSACTION_STATUS_PENDING:
		if transaction.IsRefund() {
			c.HandlePendingRefundTransactionReceived(transaction)
		} else {
			c.HandlePendingTransactionReceived(transaction)
		}
		return nil
	case models.TRANSACTION_STATUS_CANCELLED:
		c.RecordTransactionVersion(transaction.Id, transaction.Version)
		if err := c.pos.CancelPayment(transaction); err != nil {
			logger.Errorf("pos failed to cancel payment, transactionId:%s, error: %v", transaction.Id, err)
		}
		return nil
	case models.TRANSACTION_STATUS_COMPLETE:
		c.RecordTransactionVersion(transaction.Id, transaction.Version)
		return nil
	default:
		return &ProtocolViolationError{
			Detail: fmt.Sprintf("unsupported transaction status %q pushed for transactionId:%s",
				transaction.Status, transaction.Id),
		}
	}
}

// HandlePendingTransactionReceived asks the POS whether the order is ready
// to pay. A POS decline, or an order unknown to the POS, rejects the
// payment with the platform.
func (c *TransactionController) HandlePendingTransactionReceived(transaction *models.Transaction) {
	logger := logging.GetLogger()
	logger.Infof("Start HandlePendingTransactionReceived, transactionId:%s", transaction.Id)
	defer logger.Infof("End HandlePendingTransactionReceived, transactionId:%s", transaction.Id)

	posTransaction, err := c.pos.ReadyToPay(transaction)
	if err != nil {
		var notExist *pos.OrderDoesNotExistOnPosError
		if errors.As(err, &notExist) {
			logger.Infof("order unknown to pos, rejecting payment, transactionId:%s, orderId:%s",
				transaction.Id, transaction.OrderId)
		} else {
			logger.Errorf("pos ReadyToPay failed, rejecting payment, transactionId:%s, error: %v",
				transaction.Id, err)
		}
		posTransaction = nil
	}

	if posTransaction == nil {
		transaction.Status = models.TRANSACTION_STATUS_REJECTED
		c.RejectPaymentForOrder(transaction)
		return
	}

	posTransaction.Id = transaction.Id
	posTransaction.Version = transaction.Version
	c.RecordTransactionVersion(posTransaction.Id, posTransaction.Version)
	c.RequestPaymentForOrderExistingTransaction(posTransaction)
}

// HandlePendingRefundTransactionReceived claims a refund only when every
// transaction it references is known to the POS; otherwise the refund is
// rejected.
func (c *TransactionController) HandlePendingRefundTransactionReceived(transaction *models.Transaction) {
	logger := logging.GetLogger()
	logger.Infof("Start HandlePendingRefundTransactionReceived, transactionId:%s, linked:%d",
		transaction.Id, len(transaction.LinkedTrxIds))
	defer logger.Infof("End HandlePendingRefundTransactionReceived, transactionId:%s", transaction.Id)

	for _, linkedId := range transaction.LinkedTrxIds {
		if _, err := c.pos.RetrieveTransaction(linkedId); err != nil {
			var notExist *pos.TransactionDoesNotExistOnPosError
			if errors.As(err, &notExist) {
				logger.Infof("linked transaction unknown to pos, rejecting refund, transactionId:%s, linkedId:%s",
					transaction.Id, linkedId)
			} else {
				logger.Errorf("pos lookup failed for linked transaction, rejecting refund, transactionId:%s, linkedId:%s, error: %v",
					transaction.Id, linkedId, err)
			}
			transaction.Status = models.TRANSACTION_STATUS_REJECTED
			c.RejectPaymentForOrder(transaction)
			return
		}
	}

	c.RecordTransactionVersion(transaction.Id, transaction.Version)
	c.RequestPaymentForOrderExistingTransaction(transaction)
}

// RequestPaymentForOrderExistingTransaction claims the payment by moving
// the transaction to waiting. Every failure path cancels the payment on
// the POS; CancelPayment is the uniform rollback signal.
func (c *TransactionController) RequestPaymentForOrderExistingTransaction(transaction *models.Transaction) bool {
	logger := logging.GetLogger()
	logger.Infof("Start RequestPaymentForOrderExistingTransaction, transactionId:%s", transaction.Id)
	defer logger.Infof("End RequestPaymentForOrderExistingTransaction, transactionId:%s", transaction.Id)

	transaction.Status = models.TRANSACTION_STATUS_WAITING

	returnedTransaction, err := c.api.TransactionUpdate(transaction)
	if err != nil {
		var restErr *models.RestfulApiError
		if errors.As(err, &restErr) {
			switch restErr.StatusCode {
			case 404:
				logger.Errorf("transaction not found on platform, transactionId:%s", transaction.Id)
			case 402:
				logger.Errorf("partner failed to claim payment, transactionId:%s", transaction.Id)
			default:
				logger.Errorf("failed to claim payment, transactionId:%s, error: %v", transaction.Id, err)
			}
		} else {
			logger.Errorf("failed to claim payment, transactionId:%s, error: %v", transaction.Id, err)
		}
		c.cancelPaymentOnPos(transaction)
		return false
	}

	if returnedTransaction.Id != transaction.Id {
		logger.Errorf("platform echoed a different transaction, sent:%s, received:%s",
			transaction.Id, returnedTransaction.Id)
		c.cancelPaymentOnPos(transaction)
		return false
	}

	c.RecordTransactionVersion(returnedTransaction.Id, returnedTransaction.Version)
	if err := c.pos.RecordSuccessfulPayment(returnedTransaction); err != nil {
		logger.Errorf("pos failed to record successful payment, transactionId:%s, error: %v",
			returnedTransaction.Id, err)
	}
	return true
}

// RejectPaymentForOrder declines the payment. The platform confirms a
// rejection by echoing the transaction in a terminal complete state;
// anything else is a failure. Unlike the claim path no CancelPayment is
// fired here, rejection failure is only reported upward.
func (c *TransactionController) RejectPaymentForOrder(transaction *models.Transaction) bool {
	logger := logging.GetLogger()
	logger.Infof("Start RejectPaymentForOrder, transactionId:%s", transaction.Id)
	defer logger.Infof("End RejectPaymentForOrder, transactionId:%s", transaction.Id)

	transaction.Status = models.TRANSACTION_STATUS_REJECTED

	returnedTransaction, err := c.api.TransactionUpdate(transaction)
	if err != nil {
		logger.Errorf("failed to reject payment, transactionId:%s, error: %v", transaction.Id, err)
		return false
	}

	if returnedTransaction.Id != transaction.Id {
		logger.Errorf("platform echoed a different transaction on reject, sent:%s, received:%s",
			transaction.Id, returnedTransaction.Id)
		return false
	}
	if returnedTransaction.Status != models.TRANSACTION_STATUS_COMPLETE {
		logger.Errorf("platform did not confirm rejection, transactionId:%s, status:%s",
			returnedTransaction.Id, returnedTransaction.Status)
		return false
	}

	return true
}

// RecordTransactionVersion forwards a platform-issued version to the POS.
// Best effort; absence on the POS is informational only.
func (c *TransactionController) RecordTransactionVersion(transactionId, version string) {
	logger := logging.GetLogger()

	err := c.pos.RecordTransactionVersion(transactionId, version)
	if err == nil {
		return
	}
	var notExist *pos.TransactionDoesNotExistOnPosError
	if errors.As(err, &notExist) {
		logger.Infof("transaction gone from pos while recording version, transactionId:%s", transactionId)
		return
	}
	logger.Errorf("failed to record transaction version on pos, transactionId:%s, error: %v",
		transactionId, err)
}

func (c *TransactionController) cancelPaymentOnPos(transaction *models.Transaction) {
	logger := logging.GetLogger()

	if err := c.pos.CancelPayment(transaction); err != nil {
		logger.Errorf("pos failed to cancel payment, transactionId:%s, error: %v", transaction.Id, err)
	}
}
