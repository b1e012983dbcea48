package socket

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"DoshiiWithPos/pkg/logging"
)

// PingPrefix marks heartbeat traffic. A ping frame is the prefix followed
// by the epoch millis in angle brackets, "primus::ping::<1475233333>",
// and the platform echoes the frame back verbatim. Echoes are recognized
// by containing the prefix followed by '<' and never reach subscribers.
const PingPrefix = "primus::ping::"

// connectDebounce limits dial attempts to one per window regardless of
// which caller asks.
const connectDebounce = 10 * time.Second

const heartbeatPeriod = 10 * time.Second

// MinLivenessTimeoutSeconds is the lowest accepted liveness timeout; a
// shorter timeout would race the heartbeat period itself.
const MinLivenessTimeoutSeconds = 10

// Channel owns the single websocket connection to the platform. Reconnect
// logic lives in the heartbeat loop only; the open/close/error paths never
// dial on their own, so two reconnect attempts cannot race each other.
type Channel struct {
	socketURL string
	timeout   time.Duration
	dialer    Dialer
	handler   EventHandler

	mu                    sync.Mutex
	conn                  Conn
	alive                 bool
	lastConnectionAttempt time.Time
	lastSuccessfulMessage time.Time

	heartbeatRunning int32
	tick             time.Duration
	done             chan struct{}
	closeOnce        sync.Once
	now              func() time.Time
}

// NewChannel validates the liveness timeout and prepares a channel. It
// does not dial; call Initialize to connect.
func NewChannel(socketURL string, timeoutSeconds int, handler EventHandler) (*Channel, error) {
	if timeoutSeconds < MinLivenessTimeoutSeconds {
		return nil, errors.Errorf("liveness timeout must be at least %d seconds, got %d",
			MinLivenessTimeoutSeconds, timeoutSeconds)
	}
	return &Channel{
		socketURL: socketURL,
		timeout:   time.Duration(timeoutSeconds) * time.Second,
		dialer:    NewDialer(),
		handler:   handler,
		tick:      heartbeatPeriod,
		done:      make(chan struct{}),
		now:       time.Now,
	}, nil
}

// Initialize attempts to connect. Safe to call repeatedly.
func (c *Channel) Initialize() {
	c.Connect()
}

// Connect dials the platform socket unless the channel is closed, the
// connection is already alive or an attempt was made less than ten
// seconds ago. A failed dial is logged and left for the heartbeat loop
// to retry.
func (c *Channel) Connect() {
	logger := logging.GetLogger()

	if c.closed() {
		return
	}

	c.mu.Lock()
	if c.alive {
		c.mu.Unlock()
		return
	}
	now := c.now()
	if !c.lastConnectionAttempt.IsZero() && now.Sub(c.lastConnectionAttempt) < connectDebounce {
		logger.Debugf("socket connect debounced, last attempt %s ago", now.Sub(c.lastConnectionAttempt))
		c.mu.Unlock()
		return
	}
	c.lastConnectionAttempt = now
	url := c.socketURL
	c.mu.Unlock()

	conn, err := c.dialer.Dial(url)

	c.mu.Lock()
	if err != nil {
		c.mu.Unlock()
		logger.Errorf("failed to connect socket to %s, error: %v", url, err)
		return
	}
	if c.closed() {
		// Close raced the dial; the new connection must not survive it.
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.alive = true
	c.lastSuccessfulMessage = c.now()
	c.mu.Unlock()

	logger.Infof("socket connected to %s", url)

	go c.readLoop(conn)
	c.StartHeartbeat()
	go c.handler.OnConnectionEstablished()
}

// StartHeartbeat launches the single heartbeat loop. Repeated calls while
// a loop is alive are no-ops.
func (c *Channel) StartHeartbeat() {
	if !atomic.CompareAndSwapInt32(&c.heartbeatRunning, 0, 1) {
		return
	}
	go c.heartbeatLoop()
}

func (c *Channel) heartbeatLoop() {
	logger := logging.GetLogger()
	logger.Info("Start heartbeat loop")
	defer logger.Info("End heartbeat loop")
	defer atomic.StoreInt32(&c.heartbeatRunning, 0)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.heartbeat()
		}
	}
}

func (c *Channel) heartbeat() {
	logger := logging.GetLogger()

	c.mu.Lock()
	lastMessage := c.lastSuccessfulMessage
	alive := c.alive
	c.mu.Unlock()

	if lastMessage.Add(c.timeout).Before(c.now()) {
		logger.Warnf("socket liveness timeout reached, last successful message at %s",
			lastMessage.Format(time.RFC3339))
		c.handler.OnTimeoutReached()
	}

	if alive {
		ping := fmt.Sprintf("%s<%d>", PingPrefix, c.now().UnixMilli())
		if c.Send([]byte(ping)) {
			c.touch()
		}
	} else {
		c.Initialize()
	}
}

// Send writes a text message to the socket. It never returns an error;
// transport failures are logged and reported as false.
func (c *Channel) Send(message []byte) bool {
	logger := logging.GetLogger()

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		logger.Debug("socket send skipped, no connection")
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		logger.Errorf("failed to send socket message, error: %v", err)
		return false
	}
	return true
}

func (c *Channel) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) touch() {
	c.mu.Lock()
	c.lastSuccessfulMessage = c.now()
	c.mu.Unlock()
}

func (c *Channel) readLoop(conn Conn) {
	logger := logging.GetLogger()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			c.markDead(conn)
			switch {
			case c.closed():
				// Close interrupted the read; a disposed channel never
				// redials.
				logger.Infof("socket read ended after close: %v", err)
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				// Planned close; the heartbeat loop decides when to redial.
				logger.Infof("socket closed: %v", err)
			default:
				logger.Errorf("socket read error: %v", err)
				c.Initialize()
			}
			return
		}

		c.touch()
		c.dispatch(message)
	}
}

func (c *Channel) markDead(conn Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.alive = false
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Channel) dispatch(message []byte) {
	logger := logging.GetLogger()

	if strings.Contains(string(message), PingPrefix+"<") {
		// Heartbeat echo; already counted as a successful message.
		return
	}

	event, err := decodeEvent(message)
	if err != nil {
		logger.Warnf("dropping undecodable socket message: %v", err)
		return
	}

	switch event.Name {
	case EVENT_ORDER_CREATED:
		c.handler.OnOrderCreated(event)
	case EVENT_ORDER_STATUS:
		c.handler.OnOrderStatus(event)
	case EVENT_TRANSACTION_CREATED:
		c.handler.OnTransactionCreated(event)
	case EVENT_TRANSACTION_STATUS:
		c.handler.OnTransactionStatus(event)
	case EVENT_MEMBER_CREATED:
		c.handler.OnMemberCreated(event)
	case EVENT_MEMBER_UPDATED:
		c.handler.OnMemberUpdated(event)
	case EVENT_MEMBER_DELETED:
		c.handler.OnMemberDeleted(event)
	case EVENT_BOOKING_CREATED:
		c.handler.OnBookingCreated(event)
	case EVENT_BOOKING_UPDATED:
		c.handler.OnBookingUpdated(event)
	case EVENT_BOOKING_DELETED:
		c.handler.OnBookingDeleted(event)
	default:
		logger.Warnf("dropping socket message with unrecognized event name %q", event.Name)
	}
}

// Close releases the connection and stops the heartbeat loop. The channel
// must not be reused afterwards.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.alive = false
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
