package proto

import "encoding/json"

// Frame is the envelope for every message crossing the supervisor connection.
type Frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

const (
	ProtocolVersion = 1

	FrameTypeReq   = "req"
	FrameTypeAck   = "ack"
	FrameTypeEvent = "event"
)

// Request channels the client emits on. Each elicits exactly one ack.
const (
	ChannelAuthenticate  = "authenticate"
	ChannelStart         = "start"
	ChannelStop          = "stop"
	ChannelConsole       = "console"
	ChannelOnlinePlayers = "onlinePlayers"
	ChannelStatus        = "status"
	ChannelWhitelist     = "whitelist"
)

// EventPrefix keeps server-pushed channels apart from request channels.
const EventPrefix = "event/"

// Server-pushed event names.
const (
	EventAny         = "any"
	EventLine        = "line"
	EventStatus      = "status"
	EventStarting    = "starting"
	EventOnline      = "online"
	EventStopping    = "stopping"
	EventOffline     = "offline"
	EventLogin       = "login"
	EventLogout      = "logout"
	EventRconRunning = "rconRunning"
)

// EventChannel returns the wire channel a pushed event arrives on.
func EventChannel(event string) string {
	return EventPrefix + event
}

// AuthOK is the ack result the supervisor returns for a valid handshake.
// Anything else, truthy or not, is an authentication failure.
const AuthOK = "authenticated"

// AuthData introduces the client to the supervisor.
type AuthData struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// ServerRef addresses a managed server process.
type ServerRef struct {
	Server string `json:"server"`
}

// ConsoleData carries a console line for a managed server.
type ConsoleData struct {
	Server string `json:"server"`
	Text   string `json:"text"`
}

// Whitelist actions.
const (
	WhitelistActionList   = "list"
	WhitelistActionAdd    = "add"
	WhitelistActionRemove = "remove"
)

// WhitelistData requests a whitelist operation on a managed server.
type WhitelistData struct {
	Server string `json:"server"`
	Action string `json:"action"`
	Player string `json:"player,omitempty"`
}

// WhitelistEntry is one whitelisted player.
type WhitelistEntry struct {
	ID   string `json:"uuid"`
	Name string `json:"name"`
}
