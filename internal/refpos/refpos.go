package refpos

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"DoshiiWithPos/internal/database"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
	"DoshiiWithPos/pkg/logging"
)

// RefPos is the bundled reference POS. It mirrors platform state into
// SQLite and implements every callback interface the SDK consumes. Real
// integrations replace this with their own POS adapter.
type RefPos struct {
	db *sqlx.DB
}

func New(dbname string) (*RefPos, error) {
	logger := logging.GetLogger()

	if !database.Exists(dbname) {
		logger.Info(dbname, " not exist")
		if err := database.CreateDB(dbname); err != nil {
			return nil, errors.Wrapf(err, "failed in database.CreateDB(%s)", dbname)
		}
	}

	db, err := database.Open(dbname)
	if err != nil {
		return nil, errors.Wrapf(err, "failed in database.Open(%s)", dbname)
	}
	return &RefPos{db: db}, nil
}

// NewWithDB wraps an already-open database. Used by tests with :memory:.
func NewWithDB(db *sqlx.DB) *RefPos {
	return &RefPos{db: db}
}

func (p *RefPos) Close() error {
	return p.db.Close()
}

// ---- pos.Ordering ----

func (p *RefPos) RetrieveOrder(posOrderId string) (*models.Order, error) {
	var row database.Order
	err := p.db.Get(&row, "SELECT * FROM Orders WHERE PosID = ?", posOrderId)
	if err == sql.ErrNoRows {
		return nil, &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select order, posOrderId:%s", posOrderId)
	}
	return orderFromRow(&row), nil
}

func (p *RefPos) RetrieveOrderVersion(posOrderId string) (string, error) {
	order, err := p.RetrieveOrder(posOrderId)
	if err != nil {
		return "", err
	}
	return order.Version, nil
}

func (p *RefPos) RetrieveCheckinIdForOrder(posOrderId string) (string, error) {
	order, err := p.RetrieveOrder(posOrderId)
	if err != nil {
		return "", err
	}
	return order.CheckinId, nil
}

func (p *RefPos) RecordOrderVersion(posOrderId, version string) error {
	result, err := p.db.Exec("UPDATE Orders SET Version = ? WHERE PosID = ?", version, posOrderId)
	if err != nil {
		return errors.Wrapf(err, "failed to update order version, posOrderId:%s", posOrderId)
	}
	return p.requireOrderRow(result, posOrderId)
}

func (p *RefPos) RecordCheckinForOrder(posOrderId, checkinId string) error {
	result, err := p.db.Exec("UPDATE Orders SET CheckinID = ? WHERE PosID = ?", checkinId, posOrderId)
	if err != nil {
		return errors.Wrapf(err, "failed to update order checkin, posOrderId:%s", posOrderId)
	}
	return p.requireOrderRow(result, posOrderId)
}

func (p *RefPos) requireOrderRow(result sql.Result, posOrderId string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed in RowsAffected()")
	}
	if affected == 0 {
		return &pos.OrderDoesNotExistOnPosError{PosOrderId: posOrderId}
	}
	return nil
}

func (p *RefPos) ConfirmNewDeliveryOrder(order *models.Order, consumer *models.Consumer) error {
	return p.confirmOrder(order, consumer, nil)
}

func (p *RefPos) ConfirmNewDeliveryOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return p.confirmOrder(order, consumer, transactions)
}

func (p *RefPos) ConfirmNewPickupOrder(order *models.Order, consumer *models.Consumer) error {
	return p.confirmOrder(order, consumer, nil)
}

func (p *RefPos) ConfirmNewPickupOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return p.confirmOrder(order, consumer, transactions)
}

func (p *RefPos) ConfirmNewUnknownTypeOrder(order *models.Order, consumer *models.Consumer) error {
	return p.confirmOrder(order, consumer, nil)
}

func (p *RefPos) ConfirmNewUnknownTypeOrderWithFullPayment(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	return p.confirmOrder(order, consumer, transactions)
}

// confirmOrder mirrors a platform-created order. Keyed by the platform id
// so that a replay after reconnect updates the existing row instead of
// inserting a duplicate.
func (p *RefPos) confirmOrder(order *models.Order, consumer *models.Consumer, transactions []*models.Transaction) error {
	logger := logging.GetLogger()

	consumerJson := ""
	if consumer != nil {
		b, err := json.Marshal(consumer)
		if err != nil {
			return errors.Wrap(err, "failed to marshal consumer")
		}
		consumerJson = string(b)
	}

	var existing database.Order
	err := p.db.Get(&existing, "SELECT * FROM Orders WHERE DoshiiID = ?", order.DoshiiId)
	switch {
	case err == sql.ErrNoRows:
		posId := order.Id
		if posId == "" {
			posId = uuid.NewString()
		}
		_, err = p.db.Exec(
			"INSERT INTO Orders (PosID, DoshiiID, Status, Type, Version, CheckinID, Consumer) VALUES (?, ?, ?, ?, ?, ?, ?)",
			posId, order.DoshiiId, order.Status, order.Type, order.Version, order.CheckinId, consumerJson)
		if err != nil {
			return errors.Wrapf(err, "failed to insert order, doshiiId:%s", order.DoshiiId)
		}
		order.Id = posId
		logger.Infof("order mirrored on pos, posOrderId:%s, doshiiId:%s", posId, order.DoshiiId)
	case err != nil:
		return errors.Wrapf(err, "failed to select order, doshiiId:%s", order.DoshiiId)
	default:
		_, err = p.db.Exec(
			"UPDATE Orders SET Status = ?, Type = ?, Version = ?, CheckinID = ?, Consumer = ? WHERE DoshiiID = ?",
			order.Status, order.Type, order.Version, order.CheckinId, consumerJson, order.DoshiiId)
		if err != nil {
			return errors.Wrapf(err, "failed to update order, doshiiId:%s", order.DoshiiId)
		}
		order.Id = existing.POS_ID
		logger.Infof("order replayed on pos, posOrderId:%s, doshiiId:%s", existing.POS_ID, order.DoshiiId)
	}

	for _, transaction := range transactions {
		transaction.OrderId = order.Id
		if err := p.upsertTransaction(transaction); err != nil {
			return err
		}
	}
	return nil
}

func orderFromRow(row *database.Order) *models.Order {
	order := &models.Order{
		Id:        row.POS_ID,
		DoshiiId:  row.DOSHII_ID,
		Status:    row.STATUS,
		Type:      row.TYPE,
		Version:   row.VERSION,
		CheckinId: row.CHECKIN,
	}
	if row.CONSUMER != "" {
		var consumer models.Consumer
		if err := json.Unmarshal([]byte(row.CONSUMER), &consumer); err == nil {
			order.Consumer = &consumer
		}
	}
	return order
}
