package game

import "encoding/json"

// Conn 게임 계층이 보는 연결. *websocket.Client가 구현하며
// 테스트에서는 가짜 연결로 대체한다.
type Conn interface {
	ID() string
	Send(event any) bool
	CloseWithCode(code int, reason string)
}

// ---- 수신 envelope ----

// gameEnvelope 일반 게임방 수신 메시지 {message: "firstdata"|"move"|"pause"|"resume", ...}
type gameEnvelope struct {
	Message string `json:"message"`
}

// othelloEnvelope 오델로 수신 메시지 {type: "make_move"|"chat", ...}
type othelloEnvelope struct {
	Type    string `json:"type"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func decodeGameEnvelope(data []byte) (*gameEnvelope, json.RawMessage, error) {
	var env gameEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, err
	}
	return &env, json.RawMessage(data), nil
}

// ---- 송신 이벤트 ----

// ErrorEvent 송신자에게만 돌려주는 에러 프레임 (절대 방송하지 않음)
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: msg}
}

// GameEvent 일반 게임방 송신 envelope {message: <payload>}
type GameEvent struct {
	Message any `json:"message"`
}

// MatchFoundEvent 매칭 성공 페이로드
type MatchFoundEvent struct {
	Text          string `json:"text"`
	RoomGroupName string `json:"room_group_name"`
	User1         string `json:"user_1"`
	User2         string `json:"user_2"`
}

// TimerEvent 매칭 후 시작 카운트다운 페이로드
type TimerEvent struct {
	Time int `json:"time"`
}

// 오델로 송신 이벤트

type PlayerAssignedEvent struct {
	Type    string `json:"type"`
	Color   Cell   `json:"color"`
	Message string `json:"message"`
}

type GameStartEvent struct {
	Type          string `json:"type"`
	Board         Board  `json:"board"`
	CurrentPlayer Cell   `json:"current_player"`
}

type MoveMadeEvent struct {
	Type          string `json:"type"`
	Board         Board  `json:"board"`
	CurrentPlayer Cell   `json:"current_player"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
}

type GameOverEvent struct {
	Type   string       `json:"type"`
	Board  Board        `json:"board"`
	Winner *Cell        `json:"winner"` // 무승부면 null
	Score  map[Cell]int `json:"score"`
}

type PlayerDisconnectedEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ChatEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Sender  Cell   `json:"sender"`
}
