package chat

// Outbound event names, matching the wire contract the web client speaks.
const (
	EventRoomHistory        = "roomHistory"
	EventUserJoined         = "userJoined"
	EventUserLeft           = "userLeft"
	EventMessage            = "message"
	EventUsersWeatherUpdate = "usersWeatherUpdate"
	EventUsersWeatherError  = "usersWeatherError"
)

type Event struct {
	Name    string
	Payload any
}

// Sink delivers outbound events; the websocket hub implements it. Sends are
// best-effort and must never block the caller indefinitely.
type Sink interface {
	SendToConn(connID string, evt Event)
	SendToRoom(roomID string, evt Event)
	SendToRoomExcept(roomID, exceptConnID string, evt Event)
}

type RoomHistoryPayload struct {
	RoomID   string    `json:"roomId"`
	Messages []Message `json:"messages"`
}

type PresencePayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type WeatherRosterPayload struct {
	RoomID string          `json:"roomId"`
	Users  []MemberWeather `json:"users"`
}

type WeatherErrorPayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// MemberWeather is one roster entry: a room member plus the outcome of that
// member's weather lookup.
type MemberWeather struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	City     string         `json:"city"`
	Country  string         `json:"country"`
	Weather  WeatherSummary `json:"weather"`
}

type WeatherSummary struct {
	Temperature *float64 `json:"temperature"`
	Condition   string   `json:"condition"`
	Icon        string   `json:"icon,omitempty"`
	Error       string   `json:"error,omitempty"`
}
