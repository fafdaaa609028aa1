package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event 是透過 WebSocket 廣播給房間成員的事件。
// 事件只是即時通知，不落地：回合與帳本的真相都在資料庫裡。
type Event struct {
	Type    string                 `json:"type"`
	RoomID  uint                   `json:"room_id"`
	UserID  uint                   `json:"user_id,omitempty"`
	Content string                 `json:"content,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn // WebSocket 連接
	UserID   uint            // 用戶 ID
	RoomID   uint            // 房間 ID
	SendChan chan *Event     // 事件發送通道，用於異步傳送
}

// WebSocketManager 管理所有的 WebSocket 連接和事件廣播
type WebSocketManager struct {
	clients    map[uint]map[*Client]bool // 兩層 map: roomID -> client -> bool
	clientsMux sync.RWMutex              // 用於保護 clients map 的讀寫鎖
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[uint]map[*Client]bool),
	}
}

// HandleConnection 處理新的 WebSocket 連接請求
func (m *WebSocketManager) HandleConnection(conn *websocket.Conn, roomID, userID uint) {
	client := &Client{
		Conn:     conn,
		UserID:   userID,
		RoomID:   roomID,
		SendChan: make(chan *Event, 256), // 設置緩衝大小為 256 的事件通道
	}

	m.addClient(client)

	// 確保連接關閉時清理資源
	defer func() {
		m.removeClient(client)
		conn.Close()
		close(client.SendChan)
	}()

	go m.writePump(client)
	m.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的訊息
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096) // 設置最大訊息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("event parse error: %v", err)
			continue
		}

		// 客戶端只能以自己的身份在自己的房間發話
		event.UserID = client.UserID
		event.RoomID = client.RoomID

		m.BroadcastToRoom(client.RoomID, &event)
	}
}

// writePump 處理向客戶端發送事件的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			messageBytes, err := json.Marshal(event)
			if err != nil {
				log.Printf("event encoding error: %v", err)
				continue
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播事件
func (m *WebSocketManager) BroadcastToRoom(roomID uint, event *Event) {
	m.clientsMux.RLock()
	clients := m.clients[roomID]
	m.clientsMux.RUnlock()

	for client := range clients {
		select {
		case client.SendChan <- event:
			// 事件成功加入發送隊列
		default:
			// 客戶端隊列已滿，放棄這個連接
			m.removeClient(client)
		}
	}
}

// BroadcastSystemMessage 發送系統訊息到指定房間
func (m *WebSocketManager) BroadcastSystemMessage(roomID uint, content string) {
	m.BroadcastToRoom(roomID, &Event{
		Type:    "system",
		RoomID:  roomID,
		Content: content,
	})
}

// BroadcastRoundEvent 發送回合生命週期事件到指定房間
func (m *WebSocketManager) BroadcastRoundEvent(roomID uint, eventType string, data map[string]interface{}) {
	m.BroadcastToRoom(roomID, &Event{
		Type:   eventType,
		RoomID: roomID,
		Data:   data,
	})
}

// addClient 安全地添加新的客戶端連接
func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[*Client]bool)
	}
	m.clients[client.RoomID][client] = true
	m.clientsMux.Unlock()

	// 廣播要在鎖外做，BroadcastToRoom 自己會取讀鎖
	m.BroadcastSystemMessage(client.RoomID,
		fmt.Sprintf("用戶 %d 連上了房間", client.UserID))
}

// removeClient 安全地移除客戶端連接
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.RoomID]; ok {
		delete(clients, client)
		// 如果房間空了，刪除房間
		if len(clients) == 0 {
			delete(m.clients, client.RoomID)
		}
	}
}

// GetRoomClients 獲取指定房間的在線客戶端數量
func (m *WebSocketManager) GetRoomClients(roomID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[roomID])
}
