package game

import "encoding/json"

// GameLoop 일반 게임방의 권위 루프 협력자 인터페이스
//
// 퐁의 물리/틱 처리는 외부 구현이 소유한다. 방은 클라이언트 액션을
// 전달하고 상태 방송은 루프가 publish 콜백으로 내보낸다.
type GameLoop interface {
	// AssignData 참가자의 초기 데이터 등록 (firstdata 액션)
	AssignData(from string, payload json.RawMessage) error

	// Move 참가자의 이동 입력 전달
	Move(from string, payload json.RawMessage) error

	// Pause / Resume 루프 일시정지 제어
	Pause()
	Resume()

	// Cancel 참가자 이탈로 인한 루프 중단
	Cancel(leaver string)
}

// LoopFactory 방 생성 시 루프 구현을 주입한다
type LoopFactory func(roomKey string, publish func(event any)) GameLoop

// relayLoop 물리 엔진 없이 클라이언트 페이로드를 그룹에 그대로
// 중계하는 기본 구현. 권위 루프가 배치되기 전까지의 대체재다.
type relayLoop struct {
	roomKey string
	publish func(event any)
}

// NewRelayLoop 중계 루프 생성
func NewRelayLoop(roomKey string, publish func(event any)) GameLoop {
	return &relayLoop{roomKey: roomKey, publish: publish}
}

func (l *relayLoop) AssignData(from string, payload json.RawMessage) error {
	l.publish(GameEvent{Message: payload})
	return nil
}

func (l *relayLoop) Move(from string, payload json.RawMessage) error {
	l.publish(GameEvent{Message: payload})
	return nil
}

func (l *relayLoop) Pause()  {}
func (l *relayLoop) Resume() {}

func (l *relayLoop) Cancel(leaver string) {}
