package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lexassist/lexassist/internal/services"
	"github.com/lexassist/lexassist/internal/utils"
	"github.com/redis/go-redis/v9"
)

// WSHandler exposes a live feed for one intake session: server events
// (turn progress, voice transcription status) stream out, and voice
// answers can be queued in.
type WSHandler struct {
	sessions services.SessionService
	redis    *redis.Client
	upgrader websocket.Upgrader

	voiceStream string
}

func NewWSHandler(sessions services.SessionService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		redis:    rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
		voiceStream: "voice:stream",
	}
}

type wsClientMsg struct {
	Type        string `json:"type"`
	AudioBase64 string `json:"audio_base64"`
	AudioURL    string `json:"audio_url"`
	FileName    string `json:"file_name"`
	Language    string `json:"language"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *WSHandler) SessionWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.SessionWS", "missing session_id", nil))
		return
	}

	// ownership check before the upgrade
	if _, err := h.sessions.GetSession(c.Request.Context(), userID, sessionID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	eventsCh := "session:" + sessionID + ":events"
	pubsub := h.redis.Subscribe(ctx, eventsCh)
	defer pubsub.Close()

	// reader: WS -> Redis stream
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "voice_answer":
				if msg.AudioBase64 == "" && msg.AudioURL == "" {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"audio_base64 or audio_url required"}`))
					continue
				}

				fields := map[string]any{
					"session_id": sessionID,
					"user_id":    userID,
					"language":   msg.Language,
					"file_name":  msg.FileName,
					"ts_unix":    strconv.FormatInt(time.Now().UTC().Unix(), 10),
				}
				if msg.AudioBase64 != "" {
					fields["audio_base64"] = msg.AudioBase64
				}
				if msg.AudioURL != "" {
					fields["audio_url"] = msg.AudioURL
				}

				if err := h.redis.XAdd(ctx, &redis.XAddArgs{
					Stream: h.voiceStream,
					Values: fields,
				}).Err(); err != nil {
					_ = wc.writeText([]byte(`{"type":"error","code":"UNAVAILABLE","message":"failed to enqueue voice answer"}`))
					continue
				}

				_ = h.redis.Publish(ctx, eventsCh, `{"type":"status","status":"queued","message":"voice answer queued"}`).Err()

			case "end_session":
				if err := h.sessions.DeleteSession(ctx, userID, sessionID); err != nil {
					_ = wc.writeText([]byte(`{"type":"error","code":"INTERNAL","message":"failed to end session"}`))
					continue
				}
				_ = wc.writeText([]byte(`{"type":"status","status":"ended","message":"session abandoned"}`))
				return

			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	// writer: Redis pub/sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		default:
			m, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			if err := wc.writeText([]byte(m.Payload)); err != nil {
				return
			}
		}
	}
}
