package socket

import (
	"github.com/gorilla/websocket"
)

// Conn is the subset of the websocket connection the channel uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a websocket connection to the platform endpoint.
type Dialer interface {
	Dial(url string) (Conn, error)
}

type gorillaDialer struct{}

func (d *gorillaDialer) Dial(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// NewDialer returns the production dialer backed by gorilla/websocket.
func NewDialer() Dialer {
	return &gorillaDialer{}
}
