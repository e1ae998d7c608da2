package flash

import (
	"encoding/json"
	"fmt"
)

// Level indicates the severity of a flash message.
// Levels are ordered: Debug < Info < Success < Warning < Error.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

var levelNames = [...]string{
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelSuccess: "success",
	LevelWarning: "warning",
	LevelError:   "error",
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("unknown(%d)", int8(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name to a Level.
// Returns ErrUnknownLevel for unrecognized names.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelDebug, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// MarshalJSON encodes the level as its lowercase name.
func (l Level) MarshalJSON() ([]byte, error) {
	if l < LevelDebug || l > LevelError {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int8(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its lowercase name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Message is a single flash notification: queued during one request,
// displayed exactly once on a subsequent one. Only slice membership and
// order are significant; messages carry no identity.
type Message struct {
	Text  string `json:"text"`
	Level Level  `json:"level"`
}

// NewMessage creates a message with the given level and text.
func NewMessage(level Level, text string) Message {
	return Message{Level: level, Text: text}
}
