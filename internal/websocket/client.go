package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cozyGarage/ft-transcendence/pkg/logger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// 게임 전용 close 코드 (클라이언트가 구분할 수 있어야 함)
const (
	CloseNormal         = 1000 // 정상 종료
	CloseUnauthorized   = 4001 // 인증 안 됨
	CloseDuplicateEntry = 4002 // 매칭 큐 중복 진입
	ClosePairingTimeout = 4003 // 상대를 찾지 못함
	CloseRoomFull       = 4004 // 방 정원 초과
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 프로덕션에서는 특정 origin만 허용
		return true
	},
}

// Session 연결에 바인딩되는 메시지 처리기
//
// OnMessage는 readPump 고루틴에서 호출되므로 한 연결의 메시지는
// 항상 순서대로 처리된다. OnClose는 연결 종료 시 정확히 한 번 불린다.
type Session interface {
	OnMessage(data []byte)
	OnClose()
}

// Client WebSocket 연결 액터
type Client struct {
	conn    *websocket.Conn
	send    chan any
	id      string
	session Session

	closeOnce sync.Once
	done      chan struct{}

	logger *zap.Logger
}

// NewClient 클라이언트 생성
func NewClient(conn *websocket.Conn, id string) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan any, 256),
		id:     id,
		done:   make(chan struct{}),
		logger: logger.Named("client"),
	}
}

// ID 연결 식별자 (사용자 ID 또는 매칭용 ID)
func (c *Client) ID() string {
	return c.id
}

// Send 이벤트 송신 (non-blocking). 버퍼가 가득 찼거나 연결이
// 종료 중이면 false를 반환한다.
func (c *Client) Send(event any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// CloseWithCode close 프레임을 보내고 연결을 종료한다. 멱등.
func (c *Client) CloseWithCode(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(code, reason)
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage, msg)
		c.conn.Close()
	})
}

// Close 정상 종료
func (c *Client) Close() {
	c.CloseWithCode(websocket.CloseNormalClosure, "")
}

// readPump 수신 루프. 메시지를 세션에 전달하고, 종료 시 세션 정리를
// 호출한다.
func (c *Client) readPump() {
	defer func() {
		if c.session != nil {
			c.session.OnClose()
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("read error",
					zap.String("id", c.id),
					zap.Error(err))
			}
			return
		}
		if c.session != nil {
			c.session.OnMessage(data)
		}
	}
}

// writePump 송신 루프 (핑 유지 포함)
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(event)
			if err != nil {
				c.logger.Error("failed to marshal event",
					zap.String("id", c.id),
					zap.Error(err))
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Serve 연결 업그레이드 후 세션을 바인딩하고 펌프를 시작한다.
// bind가 nil 세션을 반환하면 연결은 이미 거부된 것으로 본다.
func Serve(w http.ResponseWriter, r *http.Request, id string, bind func(*Client) Session) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(conn, id)
	session := bind(client)
	if session == nil {
		// bind 쪽에서 거부 코드와 함께 닫았음
		return
	}
	client.session = session

	go client.writePump()
	go client.readPump()
}
