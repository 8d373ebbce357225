package room

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"ctchen222/tictak/internal/engine"
	"ctchen222/tictak/internal/engine/enginetest"
	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/internal/game"
	"ctchen222/tictak/internal/player"
	"ctchen222/tictak/pkg/proto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is an in-memory websocket connection.
type fakeConn struct {
	inbound  chan []byte
	outbound chan []byte

	mu     sync.Mutex
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16), outbound: make(chan []byte, 64)}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType == websocket.TextMessage {
		c.outbound <- data
	}
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	msg, ok := <-c.inbound
	if !ok {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	return websocket.TextMessage, msg, nil
}

func (c *fakeConn) SetReadLimit(int64)                        {}
func (c *fakeConn) SetReadDeadline(time.Time) error           { return nil }
func (c *fakeConn) SetPongHandler(func(appData string) error) {}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// firstEmpty plays the lowest free square.
type firstEmpty struct{}

func (firstEmpty) CalculateNextMove(board game.Board, _ game.Difficulty) int {
	return board.AvailableSquares()[0]
}

func newTestRoom(t *testing.T) (*Room, *enginetest.Scheduler, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	sched := enginetest.NewScheduler()
	r := NewRoom("session-1", player.NewPlayer("player-1", conn), firstEmpty{}, nil, engine.WithScheduler(sched))
	t.Cleanup(r.Close)
	return r, sched, conn
}

func send(t *testing.T, r *Room, msg string) {
	t.Helper()
	r.HandleMessage(context.Background(), []byte(msg))
}

func TestHandleMessage_Dispatch(t *testing.T) {
	r, sched, _ := newTestRoom(t)
	eng := r.Engine()

	send(t, r, `{"type":"select_difficulty","difficulty":"Hard"}`)
	assert.Equal(t, engine.HumanTurn, eng.State())
	assert.Equal(t, game.Hard, eng.Snapshot().Difficulty)

	send(t, r, `{"type":"move","square":4}`)
	assert.Equal(t, engine.ComputerThinking, eng.State())
	require.Equal(t, 1, sched.RunPending())
	assert.Equal(t, game.Computer, eng.Board().At(0))

	send(t, r, `{"type":"new_game"}`)
	assert.Equal(t, engine.AwaitingDifficulty, eng.State())
	assert.Equal(t, 0, eng.Board().Len())
}

func TestHandleMessage_RejectedCommandsLeaveTheGameUntouched(t *testing.T) {
	r, sched, _ := newTestRoom(t)
	eng := r.Engine()
	send(t, r, `{"type":"select_difficulty","difficulty":"easy"}`)
	send(t, r, `{"type":"move","square":0}`)
	require.Equal(t, 1, sched.RunPending())
	before := eng.Snapshot()

	for _, msg := range []string{
		`not json`,
		`{"type":"teleport"}`,
		`{"type":"move"}`,
		`{"type":"move","square":12}`,
		`{"type":"move","square":0}`,
		`{"type":"move","square":1}`,
		`{"type":"select_difficulty"}`,
		`{"type":"select_difficulty","difficulty":"nightmare"}`,
		`{"type":"select_difficulty","difficulty":"hard"}`,
		`{"type":"rematch"}`,
	} {
		send(t, r, msg)
		assert.Equal(t, before, eng.Snapshot(), msg)
	}
}

func TestHandleMessage_Rematch(t *testing.T) {
	r, sched, _ := newTestRoom(t)
	eng := r.Engine()
	send(t, r, `{"type":"select_difficulty","difficulty":"medium"}`)
	// Computer answers 0, 1; human completes the middle row.
	for _, sq := range []int{3, 4, 5} {
		send(t, r, fmt.Sprintf(`{"type":"move","square":%d}`, sq))
		sched.RunPending()
	}
	require.Equal(t, game.HumanWin, eng.Snapshot().Outcome)

	send(t, r, `{"type":"rematch"}`)

	snap := eng.Snapshot()
	assert.Equal(t, engine.HumanTurn, snap.State)
	assert.Equal(t, game.Medium, snap.Difficulty)
	assert.Equal(t, 0, eng.Board().Len())
}

func TestNotify_EncodesEvents(t *testing.T) {
	r, _, _ := newTestRoom(t)

	r.Notify(context.Background(), events.Moved("session-1", game.Human, 4))
	finished, _ := events.Finished("session-1", game.Draw)
	r.Notify(context.Background(), finished)

	var moved, draw map[string]any
	require.NoError(t, json.Unmarshal(<-r.send, &moved))
	require.NoError(t, json.Unmarshal(<-r.send, &draw))
	assert.Equal(t, "event", moved["type"])
	assert.Equal(t, "human_moved", moved["event"])
	assert.EqualValues(t, 4, moved["square"])
	assert.Equal(t, "draw", draw["event"])
	assert.NotContains(t, draw, "square")
}

func readUntil(t *testing.T, conn *fakeConn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data := <-conn.outbound:
			var msg map[string]any
			require.NoError(t, json.Unmarshal(data, &msg))
			if match(msg) {
				return msg
			}
		case <-timeout:
			t.Fatal("timed out waiting for message")
			return nil
		}
	}
}

func TestStart_PlaysOverTheConnection(t *testing.T) {
	conn := newFakeConn()
	r := NewRoom("session-1", player.NewPlayer("player-1", conn), firstEmpty{}, nil, engine.WithComputerDelay(0))
	unregister := make(chan *Room, 1)
	go r.Start(unregister)

	initial := readUntil(t, conn, func(m map[string]any) bool { return m["type"] == proto.TypeUpdate })
	assert.Equal(t, string(engine.AwaitingDifficulty), initial["state"])
	assert.Equal(t, "session-1", initial["session_id"])

	conn.inbound <- []byte(`{"type":"select_difficulty","difficulty":"easy"}`)
	conn.inbound <- []byte(`{"type":"move","square":8}`)

	readUntil(t, conn, func(m map[string]any) bool { return m["event"] == "human_moved" })
	computer := readUntil(t, conn, func(m map[string]any) bool { return m["event"] == "computer_moved" })
	assert.EqualValues(t, 0, computer["square"])
	readUntil(t, conn, func(m map[string]any) bool {
		return m["type"] == proto.TypeUpdate && m["state"] == string(engine.HumanTurn)
	})

	close(conn.inbound)

	select {
	case got := <-unregister:
		assert.Same(t, r, got)
	case <-time.After(2 * time.Second):
		t.Fatal("room was not unregistered after the client left")
	}
	r.Close()
	assert.True(t, conn.isClosed())
}
