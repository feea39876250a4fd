package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeCommand  MessageType = "command"
	MessageTypeGetState MessageType = "get_state"

	// Server to client messages
	MessageTypeResult  MessageType = "result"
	MessageTypeError   MessageType = "error"
	MessageTypeState   MessageType = "state"
	MessageTypeAdvice  MessageType = "advice"
	MessageTypeCleared MessageType = "advice_cleared"
	MessageTypeEvent   MessageType = "event"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
