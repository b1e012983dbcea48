package doshiiapi

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"DoshiiWithPos/internal/doshii-api-go/client"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/pkg/logging"
)

const API_VERSION = "v3"

// DOSHIIAPI is the typed gateway to the platform REST API. It never
// retries; a failed call is reported once and the caller decides.
type DOSHIIAPI interface {
	OrderGet(doshiiId string) (*models.Order, error)
	OrdersGet() ([]*models.Order, error)
	UnlinkedOrderGet(doshiiId string) (*models.Order, error)
	UnlinkedOrdersGet() ([]*models.Order, error)
	OrderUpdate(o *models.Order) (*models.Order, error)
	OrderCreatedResultPut(o *models.Order) (*models.Order, error)

	TransactionGet(ID string) (*models.Transaction, error)
	TransactionsGetFromDoshiiOrderId(doshiiOrderId string) ([]*models.Transaction, error)
	TransactionsGetFromPosOrderId(posOrderId string) ([]*models.Transaction, error)
	TransactionUpdate(t *models.Transaction) (*models.Transaction, error)

	CheckinGet(ID string) (*models.Checkin, error)
	CheckinUpdate(c *models.Checkin) (*models.Checkin, error)
	CheckinClose(ID string) (*models.Checkin, error)

	TablesGet() ([]*models.Table, error)
	TableGet(name string) (*models.Table, error)

	BookingsGet() ([]*models.Booking, error)
	BookingGet(ID string) (*models.Booking, error)
	BookingSeat(bookingId string, checkin *models.Checkin) (*models.Checkin, error)

	MembersGet() ([]*models.Member, error)
	MemberGet(ID string) (*models.Member, error)
	MemberRewardsGet(memberId string) ([]*models.Reward, error)
	RewardRedeem(memberId, rewardId string, order *models.Order) error
	RewardRedeemConfirm(memberId, rewardId string) error
	RewardRedeemCancel(memberId, rewardId string) error
	PointsRedeem(memberId string, pr *models.PointsRedemption) error
	PointsRedeemConfirm(memberId string) error
	PointsRedeemCancel(memberId string) error

	AppsGet() ([]*models.App, error)
	LocationGet() (*models.Location, error)
}

var doshiiapiGlobal *doshiiapi

type doshiiapi struct {
	api *client.Client
}

// NewAPI creates the shared gateway instance.
func NewAPI(url, token, vendor string) DOSHIIAPI {
	doshiiapiGlobal = &doshiiapi{
		api: client.NewClient(url, API_VERSION, token, vendor),
	}
	return doshiiapiGlobal
}

func GetAPI() DOSHIIAPI {
	return doshiiapiGlobal
}

// parseResponse drains the response and unmarshals the body into out. A
// non-2xx status is mapped to models.RestfulApiError, a 2xx with an empty
// body to models.EmptyResponseError.
func parseResponse(r *http.Response, endpoint string, out interface{}) error {
	logger := logging.GetLogger()

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Errorf("failed Body.Close()")
		}
	}(r.Body)

	bodyBytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return errors.Wrapf(err, "failed in ioutil.ReadAll(r.Body), endpoint:%s", endpoint)
	}

	if r.StatusCode < 200 || r.StatusCode > 299 {
		apiError := models.RestfulApiError{StatusCode: r.StatusCode}
		if len(bodyBytes) > 0 {
			if err := json.Unmarshal(bodyBytes, &apiError); err != nil {
				apiError.Message = string(bodyBytes)
			}
		}
		logger.Debugf("doshii api error, endpoint:%s, status:%d", endpoint, r.StatusCode)
		return &apiError
	}

	if out == nil {
		return nil
	}

	if len(bodyBytes) == 0 {
		return &models.EmptyResponseError{Endpoint: endpoint}
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return errors.Wrapf(err, "failed in json.Unmarshal(), endpoint:%s", endpoint)
	}
	return nil
}

func (d *doshiiapi) get(endpoint string, out interface{}) error {
	r, err := d.api.Get(endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to send request to Doshii Api, endpoint:%s", endpoint)
	}
	return parseResponse(r, endpoint, out)
}

func (d *doshiiapi) put(endpoint string, body, out interface{}) error {
	r, err := d.api.Put(endpoint, body)
	if err != nil {
		return errors.Wrapf(err, "failed to send request to Doshii Api, endpoint:%s", endpoint)
	}
	return parseResponse(r, endpoint, out)
}

func (d *doshiiapi) post(endpoint string, body, out interface{}) error {
	r, err := d.api.Post(endpoint, nil, body)
	if err != nil {
		return errors.Wrapf(err, "failed to send request to Doshii Api, endpoint:%s", endpoint)
	}
	return parseResponse(r, endpoint, out)
}

func (d *doshiiapi) delete(endpoint string, out interface{}) error {
	r, err := d.api.Delete(endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to send request to Doshii Api, endpoint:%s", endpoint)
	}
	return parseResponse(r, endpoint, out)
}

func (d *doshiiapi) OrderGet(doshiiId string) (*models.Order, error) {
	var order models.Order
	endpoint := fmt.Sprintf("orders/%s", doshiiId)
	if err := d.get(endpoint, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *doshiiapi) OrdersGet() ([]*models.Order, error) {
	var orders []*models.Order
	if err := d.get("orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *doshiiapi) UnlinkedOrderGet(doshiiId string) (*models.Order, error) {
	var order models.Order
	endpoint := fmt.Sprintf("unlinked_orders/%s", doshiiId)
	if err := d.get(endpoint, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *doshiiapi) UnlinkedOrdersGet() ([]*models.Order, error) {
	var orders []*models.Order
	if err := d.get("unlinked_orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *doshiiapi) OrderUpdate(o *models.Order) (*models.Order, error) {
	var order models.Order
	endpoint := fmt.Sprintf("orders/%s", o.Id)
	if err := d.put(endpoint, o, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderCreatedResultPut reports the POS accept/reject decision for an
// order the platform created. The order is addressed by its platform id
// because the POS id may not be assigned yet.
func (d *doshiiapi) OrderCreatedResultPut(o *models.Order) (*models.Order, error) {
	var order models.Order
	endpoint := fmt.Sprintf("unlinked_orders/%s", o.DoshiiId)
	if err := d.put(endpoint, o, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *doshiiapi) TransactionGet(ID string) (*models.Transaction, error) {
	var transaction models.Transaction
	endpoint := fmt.Sprintf("transactions/%s", ID)
	if err := d.get(endpoint, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (d *doshiiapi) TransactionsGetFromDoshiiOrderId(doshiiOrderId string) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	endpoint := fmt.Sprintf("unlinked_orders/%s/transactions", doshiiOrderId)
	if err := d.get(endpoint, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (d *doshiiapi) TransactionsGetFromPosOrderId(posOrderId string) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	endpoint := fmt.Sprintf("orders/%s/transactions", posOrderId)
	if err := d.get(endpoint, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (d *doshiiapi) TransactionUpdate(t *models.Transaction) (*models.Transaction, error) {
	var transaction models.Transaction
	endpoint := fmt.Sprintf("transactions/%s", t.Id)
	if err := d.put(endpoint, t, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (d *doshiiapi) CheckinGet(ID string) (*models.Checkin, error) {
	var checkin models.Checkin
	endpoint := fmt.Sprintf("checkins/%s", ID)
	if err := d.get(endpoint, &checkin); err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (d *doshiiapi) CheckinUpdate(c *models.Checkin) (*models.Checkin, error) {
	var checkin models.Checkin
	endpoint := fmt.Sprintf("checkins/%s", c.Id)
	if err := d.put(endpoint, c, &checkin); err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (d *doshiiapi) CheckinClose(ID string) (*models.Checkin, error) {
	var checkin models.Checkin
	endpoint := fmt.Sprintf("checkins/%s", ID)
	if err := d.delete(endpoint, &checkin); err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (d *doshiiapi) TablesGet() ([]*models.Table, error) {
	var tables []*models.Table
	if err := d.get("tables", &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (d *doshiiapi) TableGet(name string) (*models.Table, error) {
	var table models.Table
	endpoint := fmt.Sprintf("tables/%s", name)
	if err := d.get(endpoint, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (d *doshiiapi) BookingsGet() ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := d.get("bookings", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (d *doshiiapi) BookingGet(ID string) (*models.Booking, error) {
	var booking models.Booking
	endpoint := fmt.Sprintf("bookings/%s", ID)
	if err := d.get(endpoint, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (d *doshiiapi) BookingSeat(bookingId string, checkin *models.Checkin) (*models.Checkin, error) {
	var seated models.Checkin
	endpoint := fmt.Sprintf("bookings/%s/checkin", bookingId)
	if err := d.put(endpoint, checkin, &seated); err != nil {
		return nil, err
	}
	return &seated, nil
}

func (d *doshiiapi) MembersGet() ([]*models.Member, error) {
	var members []*models.Member
	if err := d.get("members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (d *doshiiapi) MemberGet(ID string) (*models.Member, error) {
	var member models.Member
	endpoint := fmt.Sprintf("members/%s", ID)
	if err := d.get(endpoint, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (d *doshiiapi) MemberRewardsGet(memberId string) ([]*models.Reward, error) {
	var rewards []*models.Reward
	endpoint := fmt.Sprintf("members/%s/rewards", memberId)
	if err := d.get(endpoint, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (d *doshiiapi) RewardRedeem(memberId, rewardId string, order *models.Order) error {
	endpoint := fmt.Sprintf("members/%s/rewards/%s/redeem", memberId, rewardId)
	return d.post(endpoint, order, nil)
}

func (d *doshiiapi) RewardRedeemConfirm(memberId, rewardId string) error {
	endpoint := fmt.Sprintf("members/%s/rewards/%s/confirm", memberId, rewardId)
	return d.put(endpoint, nil, nil)
}

func (d *doshiiapi) RewardRedeemCancel(memberId, rewardId string) error {
	endpoint := fmt.Sprintf("members/%s/rewards/%s/cancel", memberId, rewardId)
	return d.put(endpoint, nil, nil)
}

func (d *doshiiapi) PointsRedeem(memberId string, pr *models.PointsRedemption) error {
	endpoint := fmt.Sprintf("members/%s/points/redeem", memberId)
	return d.post(endpoint, pr, nil)
}

func (d *doshiiapi) PointsRedeemConfirm(memberId string) error {
	endpoint := fmt.Sprintf("members/%s/points/confirm", memberId)
	return d.put(endpoint, nil, nil)
}

func (d *doshiiapi) PointsRedeemCancel(memberId string) error {
	endpoint := fmt.Sprintf("members/%s/points/cancel", memberId)
	return d.put(endpoint, nil, nil)
}

func (d *doshiiapi) AppsGet() ([]*models.App, error) {
	var apps []*models.App
	if err := d.get("apps", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (d *doshiiapi) LocationGet() (*models.Location, error) {
	var location models.Location
	if err := d.get("locations/me", &location); err != nil {
		return nil, err
	}
	return &location, nil
}
