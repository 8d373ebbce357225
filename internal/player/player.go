package player

import "time"

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Player is the client owning a game session.
type Player struct {
	ID          string
	Conn        Connection
	ConnectedAt time.Time
}

// NewPlayer creates a player for an established connection.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{ID: id, Conn: conn, ConnectedAt: time.Now()}
}
