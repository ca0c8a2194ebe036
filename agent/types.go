package agent

import "time"

// Snapshot captures what the simulated terminal last showed.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Frames    int       `json:"frames"`
	Text      string    `json:"text,omitempty"`
}
