package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/stakahashi/machinavi-backend/pkg/logger"
)

// ClientMessage 管理画面クライアントから受信するメッセージ
type ClientMessage struct {
	Type string `json:"type"` // ping のみ対応
}

// Client WebSocket接続中の管理ユーザー
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	Send          chan []byte
	MessageCount  int       // 直近1秒間の受信メッセージ数
	LastResetTime time.Time // カウンタの最終リセット時刻
	RateMu        sync.Mutex
}

// Hub 管理者通知のWebSocket接続管理
type Hub struct {
	// 接続中クライアント (UserID -> []*Client, マルチデバイス対応)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub Hub生成
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
	}
}

// Run Hub実行
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				found := false
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						found = true
						continue
					}
					newList = append(newList, c)
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				// リストから外せたときだけ閉じる。二重解除でもcloseは一度きり
				if found {
					close(client.Send)
				}
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})
		}
	}
}

// Register クライアント登録
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister クライアント登録解除
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline 接続中か確認
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendNotificationToUser 指定した管理ユーザーの全セッションに通知を送信
func (h *Hub) SendNotificationToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clientList, ok := h.clients[userID]
	if !ok {
		// オフラインなら何もしない (DBの通知は別途残る)
		return nil
	}

	for _, client := range clientList {
		select {
		case client.Send <- data:
			// 送信成功
		default:
			// Sendチャネルが詰まっている場合は非同期で切断
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": userID,
			})
		}
	}

	return nil
}

// HandleClientMessage クライアントメッセージ処理
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	// レート制限チェック
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		response := map[string]interface{}{"type": "pong"}
		data, err := json.Marshal(response)
		if err != nil {
			return
		}
		select {
		case client.Send <- data:
		default:
		}
	}
}
