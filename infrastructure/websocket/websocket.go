package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
)

// WebSocketManager tracks connected clients and the list rooms they watch.
// Rooms are keyed "list:<uuid>"; a client outside any room still receives
// events addressed to its user.
type WebSocketManager struct {
	clients         map[*websocket.Conn]Client
	userConnections map[uuid.UUID]*websocket.Conn // one connection per user
	rooms           map[string]map[*websocket.Conn]bool
	register        chan Client
	unregister      chan *websocket.Conn
	broadcast       chan BroadcastMessage
	done            chan struct{}
	mutex           sync.RWMutex
}

type Client struct {
	Conn   *websocket.Conn
	UserID uuid.UUID
	RoomID string
}

type Message struct {
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
	UserID string      `json:"userId,omitempty"`
	RoomID string      `json:"roomId,omitempty"`
}

type BroadcastMessage struct {
	Message Message
	RoomID  string
	UserID  *uuid.UUID
}

// ListRoom builds the room key for a shared list.
func ListRoom(listID uuid.UUID) string {
	return "list:" + listID.String()
}

// NewWebSocketManager builds a manager with no clients. Call Start before
// serving connections and Stop on shutdown.
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:         make(map[*websocket.Conn]Client),
		userConnections: make(map[uuid.UUID]*websocket.Conn),
		rooms:           make(map[string]map[*websocket.Conn]bool),
		register:        make(chan Client),
		unregister:      make(chan *websocket.Conn),
		broadcast:       make(chan BroadcastMessage),
		done:            make(chan struct{}),
	}
}

// Start launches the event loop.
func (m *WebSocketManager) Start() {
	go m.run()
}

// Stop ends the event loop and closes every connection.
func (m *WebSocketManager) Stop() {
	close(m.done)

	m.mutex.Lock()
	defer m.mutex.Unlock()
	for conn := range m.clients {
		conn.Close()
	}
	m.clients = make(map[*websocket.Conn]Client)
	m.userConnections = make(map[uuid.UUID]*websocket.Conn)
	m.rooms = make(map[string]map[*websocket.Conn]bool)
}

func (m *WebSocketManager) run() {
	for {
		select {
		case <-m.done:
			return

		case client := <-m.register:
			m.mutex.Lock()

			// A second connection for the same user replaces the first.
			if oldConn, exists := m.userConnections[client.UserID]; exists {
				if oldClient, ok := m.clients[oldConn]; ok {
					m.leaveRoomLocked(oldConn, oldClient.RoomID)
					delete(m.clients, oldConn)
				}
				oldConn.Close()
			}

			m.clients[client.Conn] = client
			m.userConnections[client.UserID] = client.Conn

			if client.RoomID != "" {
				m.joinRoomLocked(client.Conn, client.RoomID)
			}
			m.mutex.Unlock()

			logger.Debug("WebSocket client connected", "user_id", client.UserID, "room", client.RoomID)

		case conn := <-m.unregister:
			m.mutex.Lock()
			if client, ok := m.clients[conn]; ok {
				delete(m.clients, conn)

				if currentConn, exists := m.userConnections[client.UserID]; exists && currentConn == conn {
					delete(m.userConnections, client.UserID)
				}

				m.leaveRoomLocked(conn, client.RoomID)

				conn.Close()
				logger.Debug("WebSocket client disconnected", "user_id", client.UserID, "room", client.RoomID)
			}
			m.mutex.Unlock()

		case message := <-m.broadcast:
			m.mutex.RLock()
			if message.RoomID != "" {
				if clients, ok := m.rooms[message.RoomID]; ok {
					for conn := range clients {
						m.sendMessage(conn, message.Message)
					}
				}
			} else if message.UserID != nil {
				if conn, exists := m.userConnections[*message.UserID]; exists {
					m.sendMessage(conn, message.Message)
				}
			} else {
				for conn := range m.clients {
					m.sendMessage(conn, message.Message)
				}
			}
			m.mutex.RUnlock()
		}
	}
}

func (m *WebSocketManager) joinRoomLocked(conn *websocket.Conn, roomID string) {
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	m.rooms[roomID][conn] = true
}

func (m *WebSocketManager) leaveRoomLocked(conn *websocket.Conn, roomID string) {
	if roomID == "" || m.rooms[roomID] == nil {
		return
	}
	delete(m.rooms[roomID], conn)
	if len(m.rooms[roomID]) == 0 {
		delete(m.rooms, roomID)
	}
}

func (m *WebSocketManager) sendMessage(conn *websocket.Conn, message Message) {
	if err := conn.WriteJSON(message); err != nil {
		logger.Warn("WebSocket send failed", "error", err)
		m.unregister <- conn
	}
}

func (m *WebSocketManager) RegisterClient(conn *websocket.Conn, userID uuid.UUID, roomID string) {
	m.register <- Client{Conn: conn, UserID: userID, RoomID: roomID}
}

func (m *WebSocketManager) UnregisterClient(conn *websocket.Conn) {
	m.unregister <- conn
}

func (m *WebSocketManager) BroadcastToRoom(roomID string, messageType string, data interface{}) {
	m.broadcast <- BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
		RoomID:  roomID,
	}
}

func (m *WebSocketManager) BroadcastToUser(userID uuid.UUID, messageType string, data interface{}) {
	m.broadcast <- BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
		UserID:  &userID,
	}
}

func (m *WebSocketManager) BroadcastToAll(messageType string, data interface{}) {
	m.broadcast <- BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
	}
}

func (m *WebSocketManager) GetRoomClients(roomID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if clients, ok := m.rooms[roomID]; ok {
		return len(clients)
	}
	return 0
}

func (m *WebSocketManager) GetTotalClients() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.clients)
}

// HandleMessage processes client-originated frames: ping and room
// join/leave. Task mutations go through the HTTP API, never the socket.
func (m *WebSocketManager) HandleMessage(conn *websocket.Conn, messageType int, data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		logger.Warn("WebSocket message unmarshal failed", "error", err)
		return
	}

	switch message.Type {
	case "ping":
		conn.WriteJSON(Message{Type: "pong", Data: "pong"})

	case "join_room":
		roomData, ok := message.Data.(map[string]interface{})
		if !ok {
			return
		}
		roomID, ok := roomData["roomId"].(string)
		if !ok {
			return
		}

		m.mutex.Lock()
		if client, exists := m.clients[conn]; exists {
			m.leaveRoomLocked(conn, client.RoomID)
			client.RoomID = roomID
			m.clients[conn] = client
			m.joinRoomLocked(conn, roomID)
		}
		m.mutex.Unlock()

		conn.WriteJSON(Message{
			Type: "room_joined",
			Data: map[string]interface{}{
				"roomId":  roomID,
				"message": fmt.Sprintf("Joined room %s", roomID),
			},
		})

	case "leave_room":
		m.mutex.Lock()
		if client, exists := m.clients[conn]; exists {
			m.leaveRoomLocked(conn, client.RoomID)
			client.RoomID = ""
			m.clients[conn] = client
		}
		m.mutex.Unlock()

		conn.WriteJSON(Message{Type: "room_left", Data: "Left room successfully"})

	default:
		logger.Debug("Unknown WebSocket message type", "type", message.Type)
	}
}
