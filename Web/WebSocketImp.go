package Web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebMsg is one frame pushed to connected clients.
type WebMsg struct {
	Type string      `json:"type"` // "message" or "error"
	Data interface{} `json:"data"`
}

// WebSocket升级器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ClientManager tracks connected websocket clients for the single session.
type ClientManager struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

func NewClientManager() *ClientManager {
	return &ClientManager{clients: make(map[*websocket.Conn]bool)}
}

func handleWebSocket(c *gin.Context, manager *ClientManager) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		return
	}
	manager.mu.Lock()
	manager.clients[conn] = true
	manager.mu.Unlock()

	// 保持连接，只处理断开
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	manager.mu.Lock()
	delete(manager.clients, conn)
	clientCount := len(manager.clients)
	manager.mu.Unlock()

	conn.Close()
	log.Printf("客户端断开，当前连接数: %d", clientCount)
}

// Broadcast sends msg to every connected client, dropping dead connections.
func (m *ClientManager) Broadcast(msg WebMsg) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("广播消息序列化失败: %v", err)
		return
	}

	var bad []*websocket.Conn

	m.mu.RLock()
	for conn := range m.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("广播发送失败: %v", err)
			conn.Close()
			bad = append(bad, conn)
		}
	}
	m.mu.RUnlock()

	if len(bad) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conn := range bad {
		delete(m.clients, conn)
	}
}
