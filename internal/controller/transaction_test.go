package controller

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
)

func newTransactionsUnderTest(api *apiMock) (*TransactionController, *posTransactionsMock) {
	posTransactions := newPosTransactionsMock()
	return NewTransactionController(api, posTransactions), posTransactions
}

func TestHandleTransactionStatusEventUnsupportedStatus(t *testing.T) {
	transactions, posTransactions := newTransactionsUnderTest(&apiMock{})

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{Id: "t-1", Status: "declined"})

	var violation *ProtocolViolationError
	require.True(t, errors.As(err, &violation))
	assert.Contains(t, violation.Detail, "declined")
	assert.Empty(t, posTransactions.cancelled())
}

func TestHandleTransactionStatusEventCancelled(t *testing.T) {
	transactions, posTransactions := newTransactionsUnderTest(&apiMock{})

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "t-1", Version: "4", Status: models.TRANSACTION_STATUS_CANCELLED,
	})

	require.NoError(t, err)
	assert.Equal(t, "4", posTransactions.recordedVersions["t-1"])
	assert.Equal(t, []string{"t-1"}, posTransactions.cancelled())
}

func TestHandleTransactionStatusEventComplete(t *testing.T) {
	transactions, posTransactions := newTransactionsUnderTest(&apiMock{})

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "t-1", Version: "5", Status: models.TRANSACTION_STATUS_COMPLETE,
	})

	require.NoError(t, err)
	assert.Equal(t, "5", posTransactions.recordedVersions["t-1"])
	assert.Empty(t, posTransactions.cancelled())
}

func TestPendingTransactionClaimedWhenPosReady(t *testing.T) {
	var sentStatus string
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			sentStatus = tr.Status
			return &models.Transaction{Id: tr.Id, Version: "2", Status: tr.Status}, nil
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)
	posTransactions.readyToPay = func(tr *models.Transaction) (*models.Transaction, error) {
		return &models.Transaction{OrderId: tr.OrderId, PaymentAmount: tr.PaymentAmount}, nil
	}

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "t-1", OrderId: "p-1", Version: "1",
		Status: models.TRANSACTION_STATUS_PENDING, PaymentAmount: 1200,
	})

	require.NoError(t, err)
	assert.Equal(t, models.TRANSACTION_STATUS_WAITING, sentStatus)
	assert.Equal(t, "2", posTransactions.recordedVersions["t-1"])
	assert.Equal(t, []string{"t-1"}, posTransactions.successfulPayments)
	assert.Empty(t, posTransactions.cancelled())
}

func TestPendingTransactionRejectedWhenPosDeclines(t *testing.T) {
	var sentStatus string
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			sentStatus = tr.Status
			return &models.Transaction{Id: tr.Id, Status: models.TRANSACTION_STATUS_COMPLETE}, nil
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)
	posTransactions.readyToPay = func(tr *models.Transaction) (*models.Transaction, error) {
		return nil, nil
	}

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "t-1", OrderId: "p-1", Status: models.TRANSACTION_STATUS_PENDING,
	})

	require.NoError(t, err)
	assert.Equal(t, models.TRANSACTION_STATUS_REJECTED, sentStatus)
	assert.Empty(t, posTransactions.successfulPayments)
	assert.Empty(t, posTransactions.cancelled(), "a decline is not a rollback")
}

func TestPendingTransactionRejectedWhenOrderUnknown(t *testing.T) {
	var sentStatus string
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			sentStatus = tr.Status
			return &models.Transaction{Id: tr.Id, Status: models.TRANSACTION_STATUS_COMPLETE}, nil
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)
	posTransactions.readyToPay = func(tr *models.Transaction) (*models.Transaction, error) {
		return nil, &pos.OrderDoesNotExistOnPosError{PosOrderId: tr.OrderId}
	}

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "t-1", OrderId: "p-404", Status: models.TRANSACTION_STATUS_PENDING,
	})

	require.NoError(t, err)
	assert.Equal(t, models.TRANSACTION_STATUS_REJECTED, sentStatus)
}

func TestRequestPaymentEchoMismatchCancels(t *testing.T) {
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			return &models.Transaction{Id: "t-other", Version: "2", Status: tr.Status}, nil
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)

	claimed := transactions.RequestPaymentForOrderExistingTransaction(&models.Transaction{Id: "t-1"})

	assert.False(t, claimed)
	assert.Equal(t, []string{"t-1"}, posTransactions.cancelled())
	assert.Empty(t, posTransactions.successfulPayments)
}

func TestRequestPaymentPlatformFailureCancels(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", &models.RestfulApiError{StatusCode: 404}},
		{"payment required", &models.RestfulApiError{StatusCode: 402}},
		{"server error", &models.RestfulApiError{StatusCode: 500}},
		{"transport failure", errors.New("connection reset")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := &apiMock{
				transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
					return nil, test.err
				},
			}
			transactions, posTransactions := newTransactionsUnderTest(api)

			claimed := transactions.RequestPaymentForOrderExistingTransaction(&models.Transaction{Id: "t-1"})

			assert.False(t, claimed)
			assert.Equal(t, []string{"t-1"}, posTransactions.cancelled())
		})
	}
}

func TestRejectPaymentFailureDoesNotCancel(t *testing.T) {
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			return nil, errors.New("connection reset")
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)

	rejected := transactions.RejectPaymentForOrder(&models.Transaction{Id: "t-1"})

	assert.False(t, rejected)
	assert.Empty(t, posTransactions.cancelled())
}

func TestRejectPaymentRequiresCompleteEcho(t *testing.T) {
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			return &models.Transaction{Id: tr.Id, Status: models.TRANSACTION_STATUS_WAITING}, nil
		},
	}
	transactions, _ := newTransactionsUnderTest(api)

	assert.False(t, transactions.RejectPaymentForOrder(&models.Transaction{Id: "t-1"}))
}

func TestRejectPaymentConfirmed(t *testing.T) {
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			return &models.Transaction{Id: tr.Id, Status: models.TRANSACTION_STATUS_COMPLETE}, nil
		},
	}
	transactions, _ := newTransactionsUnderTest(api)

	assert.True(t, transactions.RejectPaymentForOrder(&models.Transaction{Id: "t-1"}))
}

func TestRefundRejectedWhenLinkedTransactionUnknown(t *testing.T) {
	var sentStatus string
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			sentStatus = tr.Status
			return &models.Transaction{Id: tr.Id, Status: models.TRANSACTION_STATUS_COMPLETE}, nil
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)
	posTransactions.retrieveTransaction = func(transactionId string) (*models.Transaction, error) {
		if transactionId == "t-a" {
			return &models.Transaction{Id: transactionId}, nil
		}
		return nil, &pos.TransactionDoesNotExistOnPosError{TransactionId: transactionId}
	}

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "r-1", Status: models.TRANSACTION_STATUS_PENDING,
		LinkedTrxIds: []string{"t-a", "t-b"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.TRANSACTION_STATUS_REJECTED, sentStatus)
	assert.Empty(t, posTransactions.successfulPayments)
}

func TestRefundClaimedWhenAllLinkedKnown(t *testing.T) {
	var sentStatus string
	api := &apiMock{
		transactionUpdate: func(tr *models.Transaction) (*models.Transaction, error) {
			sentStatus = tr.Status
			return &models.Transaction{Id: tr.Id, Version: "2", Status: tr.Status}, nil
		},
	}
	transactions, posTransactions := newTransactionsUnderTest(api)
	posTransactions.retrieveTransaction = func(transactionId string) (*models.Transaction, error) {
		return &models.Transaction{Id: transactionId}, nil
	}

	err := transactions.HandleTransactionStatusEvent(&models.Transaction{
		Id: "r-1", Version: "1", Status: models.TRANSACTION_STATUS_PENDING,
		LinkedTrxIds: []string{"t-a", "t-b"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.TRANSACTION_STATUS_WAITING, sentStatus)
	assert.Equal(t, []string{"r-1"}, posTransactions.successfulPayments)
}
