package websocket

import (
	"testing"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewWebSocketManager()
	m.Start()

	assert.Equal(t, 0, m.GetTotalClients())

	// The loop drains broadcasts even with nobody connected.
	m.BroadcastToAll("task_created", map[string]string{"id": uuid.NewString()})

	m.Stop()
	assert.Equal(t, 0, m.GetTotalClients())
}

func TestManagersDoNotShareState(t *testing.T) {
	a := NewWebSocketManager()
	b := NewWebSocketManager()

	room := ListRoom(uuid.New())
	conn := &websocket.Conn{}

	a.mutex.Lock()
	a.clients[conn] = Client{Conn: conn, RoomID: room}
	a.joinRoomLocked(conn, room)
	a.mutex.Unlock()

	assert.Equal(t, 1, a.GetTotalClients())
	assert.Equal(t, 1, a.GetRoomClients(room))
	assert.Equal(t, 0, b.GetTotalClients())
	assert.Equal(t, 0, b.GetRoomClients(room))

	a.mutex.Lock()
	a.leaveRoomLocked(conn, room)
	a.mutex.Unlock()
	assert.Equal(t, 0, a.GetRoomClients(room))
}
