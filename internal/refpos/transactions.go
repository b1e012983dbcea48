package refpos

import (
	"database/sql"

	"github.com/pkg/errors"

	"DoshiiWithPos/internal/database"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
	"DoshiiWithPos/pkg/logging"
)

// ---- pos.Transactions ----

// ReadyToPay accepts payment for any mirrored order that is not already
// closed out. Returns nil when the order has reached a terminal state.
func (p *RefPos) ReadyToPay(transaction *models.Transaction) (*models.Transaction, error) {
	logger := logging.GetLogger()

	var row database.Order
	err := p.db.Get(&row, "SELECT * FROM Orders WHERE PosID = ?", transaction.OrderId)
	if err == sql.ErrNoRows {
		return nil, &pos.OrderDoesNotExistOnPosError{PosOrderId: transaction.OrderId}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select order, posOrderId:%s", transaction.OrderId)
	}

	switch row.STATUS {
	case models.ORDER_STATUS_COMPLETE, models.ORDER_STATUS_CANCELLED,
		models.ORDER_STATUS_REJECTED, models.ORDER_STATUS_VENUE_CANCELLED:
		logger.Infof("order is closed, declining payment, posOrderId:%s, status:%s",
			transaction.OrderId, row.STATUS)
		return nil, nil
	}

	if err := p.upsertTransaction(transaction); err != nil {
		return nil, err
	}

	return &models.Transaction{
		Id:            transaction.Id,
		OrderId:       transaction.OrderId,
		PaymentAmount: transaction.PaymentAmount,
		Status:        transaction.Status,
		Version:       transaction.Version,
	}, nil
}

func (p *RefPos) RetrieveTransaction(transactionId string) (*models.Transaction, error) {
	var row database.Transaction
	err := p.db.Get(&row, "SELECT * FROM Transactions WHERE TrxID = ?", transactionId)
	if err == sql.ErrNoRows {
		return nil, &pos.TransactionDoesNotExistOnPosError{TransactionId: transactionId}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select transaction, transactionId:%s", transactionId)
	}
	return &models.Transaction{
		Id:            row.TRX_ID,
		OrderId:       row.ORDER,
		Status:        row.STATUS,
		Version:       row.VERSION,
		PaymentAmount: row.AMOUNT,
	}, nil
}

func (p *RefPos) RecordTransactionVersion(transactionId, version string) error {
	result, err := p.db.Exec("UPDATE Transactions SET Version = ? WHERE TrxID = ?", version, transactionId)
	if err != nil {
		return errors.Wrapf(err, "failed to update transaction version, transactionId:%s", transactionId)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed in RowsAffected()")
	}
	if affected == 0 {
		return &pos.TransactionDoesNotExistOnPosError{TransactionId: transactionId}
	}
	return nil
}

func (p *RefPos) RecordSuccessfulPayment(transaction *models.Transaction) error {
	logger := logging.GetLogger()

	if err := p.upsertTransaction(transaction); err != nil {
		return err
	}
	_, err := p.db.Exec("UPDATE Transactions SET Paid = 1, Status = ? WHERE TrxID = ?",
		transaction.Status, transaction.Id)
	if err != nil {
		return errors.Wrapf(err, "failed to record payment, transactionId:%s", transaction.Id)
	}
	logger.Infof("payment recorded on pos, transactionId:%s, posOrderId:%s",
		transaction.Id, transaction.OrderId)
	return nil
}

func (p *RefPos) CancelPayment(transaction *models.Transaction) error {
	logger := logging.GetLogger()

	_, err := p.db.Exec("UPDATE Transactions SET Status = ?, Paid = 0 WHERE TrxID = ?",
		models.TRANSACTION_STATUS_CANCELLED, transaction.Id)
	if err != nil {
		return errors.Wrapf(err, "failed to cancel payment, transactionId:%s", transaction.Id)
	}
	logger.Infof("payment cancelled on pos, transactionId:%s", transaction.Id)
	return nil
}

func (p *RefPos) upsertTransaction(transaction *models.Transaction) error {
	_, err := p.db.Exec(
		`INSERT INTO Transactions (TrxID, PosOrderID, Status, Version, Amount, Paid) VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT(TrxID) DO UPDATE SET PosOrderID = excluded.PosOrderID, Status = excluded.Status, Version = excluded.Version, Amount = excluded.Amount`,
		transaction.Id, transaction.OrderId, transaction.Status, transaction.Version, transaction.PaymentAmount)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert transaction, transactionId:%s", transaction.Id)
	}
	return nil
}
