package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint, buffer int) *Client {
	return &Client{
		Hub:           hub,
		UserID:        userID,
		Send:          make(chan []byte, buffer),
		LastResetTime: time.Now(),
	}
}

func TestHub_RegisterAndNotify(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 1, 4)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.IsUserOnline(1) }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendNotificationToUser(1, map[string]string{"type": "notification"}))
	select {
	case msg := <-client.Send:
		assert.NotEmpty(t, msg)
	case <-time.After(time.Second):
		t.Fatal("通知が届かない")
	}

	// オフラインユーザーへの送信は何もしない
	require.NoError(t, hub.SendNotificationToUser(999, map[string]string{"type": "notification"}))
}

// 同一クライアントが二重に登録解除されても (送信バッファ詰まりによる切断と
// 読み取り側の切断が重なった場合)、Sendのcloseは一度きりで、
// 同一ユーザーの他セッションは生き残ること
func TestHub_UnregisterTwice(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 1, 1)
	second := newTestClient(hub, 1, 1)
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.IsUserOnline(1) }, time.Second, 10*time.Millisecond)

	hub.Unregister(first)
	hub.Unregister(first)

	// firstのSendが閉じられるまで待つ
	require.Eventually(t, func() bool {
		select {
		case _, open := <-first.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendNotificationToUser(1, map[string]string{"type": "notification"}))
	select {
	case msg := <-second.Send:
		assert.NotEmpty(t, msg)
	case <-time.After(time.Second):
		t.Fatal("残存セッションに通知が届かない")
	}
}
