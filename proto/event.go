package proto

import "encoding/json"

// Status describes a managed server's lifecycle stage.
type Status string

const (
	StatusOffline  Status = "offline"
	StatusStarting Status = "starting"
	StatusOnline   Status = "online"
	StatusStopping Status = "stopping"
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusOffline, StatusStarting, StatusOnline, StatusStopping:
		return true
	}
	return false
}

// LineEvent is one raw console output line from a managed server.
type LineEvent struct {
	Server string `json:"server"`
	Text   string `json:"text"`
}

// StatusEvent notifies about a server status transition.
type StatusEvent struct {
	Server string `json:"server"`
	Status Status `json:"status"`
	TS     int64  `json:"ts"`
}

// StageEvent is pushed on the starting/online/stopping/offline channels.
type StageEvent struct {
	Server string `json:"server"`
	TS     int64  `json:"ts"`
}

// PlayerEvent notifies about a player login or logout.
type PlayerEvent struct {
	Server  string `json:"server"`
	Player  string `json:"player"`
	Address string `json:"address,omitempty"`
}

// RconEvent notifies that a server's rcon listener came up.
type RconEvent struct {
	Server string `json:"server"`
	Port   int    `json:"port"`
	TS     int64  `json:"ts"`
}

// AnyEvent is the catch-all delivered for events with no dedicated subscriber.
type AnyEvent struct {
	Server string          `json:"server"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}
