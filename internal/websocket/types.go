package websocket

import "encoding/json"

// Inbound event names the gateway dispatches.
const (
	eventJoinRoom           = "joinRoom"
	eventLeaveRoom          = "leaveRoom"
	eventSendMessage        = "sendMessage"
	eventRequestTeamWeather = "requestTeamWeather"
)

// inboundEvent is the tagged envelope clients send. Data is decoded per
// event; malformed envelopes are dropped without acknowledgement.
type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type joinRoomData struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type roomData struct {
	RoomID string `json:"roomId"`
}

type sendMessageData struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}
