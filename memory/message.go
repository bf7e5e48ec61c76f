package memory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Role identifies the author of a message
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
)

// Message is one turn of a conversation
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// ToMessageContent converts messages to the langchaingo chat format
func ToMessageContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var t llms.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			t = llms.ChatMessageTypeSystem
		case RoleAI:
			t = llms.ChatMessageTypeAI
		default:
			t = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(t, msg.Content))
	}
	return out
}

// Encode serialises messages for the persistent stores
func Encode(messages []Message) ([]byte, error) {
	data, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode messages: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode
func Decode(data []byte) ([]Message, error) {
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}
