package models

// WebhookBody is the body LINE posts to the webhook endpoint.
type WebhookBody struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

// WebhookEvent is a single inbound event. Only text message events are
// answered; everything else is ignored.
type WebhookEvent struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Timestamp  int64         `json:"timestamp"`
	Source     EventSource   `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
}

// EventSource identifies who sent the event.
type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// EventMessage is the message payload of a message event.
type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// Event and message type names
const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

// TextMessage returns the message text and true for text message events.
func (e WebhookEvent) TextMessage() (string, bool) {
	if e.Type != EventTypeMessage || e.Message == nil || e.Message.Type != MessageTypeText {
		return "", false
	}
	return e.Message.Text, true
}
