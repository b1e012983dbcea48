package socket

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

// Socket event names pushed by the platform.
const (
	EVENT_ORDER_CREATED       = "order_created"
	EVENT_ORDER_STATUS        = "order_status"
	EVENT_TRANSACTION_CREATED = "transaction_created"
	EVENT_TRANSACTION_STATUS  = "transaction_status"
	EVENT_MEMBER_CREATED      = "member_created"
	EVENT_MEMBER_UPDATED      = "member_updated"
	EVENT_MEMBER_DELETED      = "member_deleted"
	EVENT_BOOKING_CREATED     = "booking_created"
	EVENT_BOOKING_UPDATED     = "booking_updated"
	EVENT_BOOKING_DELETED     = "booking_deleted"
)

// Event is the decoded wire envelope. The payload only carries references;
// subscribers pull full entities through the REST gateway.
type Event struct {
	Name       string
	Id         string
	OrderId    string
	CheckinId  string
	ConsumerId string
	Status     string
	EntityName string
	Uri        *url.URL
}

type payload struct {
	Id         string `json:"id"`
	OrderId    string `json:"orderId"`
	CheckinId  string `json:"checkinId"`
	ConsumerId string `json:"meerkatConsumerId"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	Uri        string `json:"uri"`
}

// decodeEvent parses the wire envelope [eventName, payloadObject].
func decodeEvent(data []byte) (*Event, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to parse socket message envelope")
	}
	if len(envelope) != 2 {
		return nil, errors.Errorf("unexpected socket envelope length %d", len(envelope))
	}

	var name string
	if err := json.Unmarshal(envelope[0], &name); err != nil {
		return nil, errors.Wrap(err, "failed to parse socket event name")
	}

	var p payload
	if err := json.Unmarshal(envelope[1], &p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse socket event payload, eventName:%s", name)
	}

	event := &Event{
		Name:       name,
		Id:         p.Id,
		OrderId:    p.OrderId,
		CheckinId:  p.CheckinId,
		ConsumerId: p.ConsumerId,
		Status:     p.Status,
		EntityName: p.Name,
	}

	if p.Uri != "" {
		uri, err := url.Parse(p.Uri)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse socket event uri, eventName:%s", name)
		}
		event.Uri = uri
	}

	return event, nil
}

// EventHandler receives typed channel events. Callbacks run on the socket
// read goroutine and must hand heavy work off quickly.
type EventHandler interface {
	OnConnectionEstablished()
	OnTimeoutReached()
	OnOrderCreated(e *Event)
	OnOrderStatus(e *Event)
	OnTransactionCreated(e *Event)
	OnTransactionStatus(e *Event)
	OnMemberCreated(e *Event)
	OnMemberUpdated(e *Event)
	OnMemberDeleted(e *Event)
	OnBookingCreated(e *Event)
	OnBookingUpdated(e *Event)
	OnBookingDeleted(e *Event)
}
