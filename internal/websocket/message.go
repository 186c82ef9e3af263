package websocket

import (
	"encoding/json"
	"time"

	"notehub-server/internal/domain"
)

type MessageType string

const (
	TypeNoteShared   MessageType = "note_shared"
	TypeNoteUnshared MessageType = "note_unshared"
	TypeNoteUpdated  MessageType = "note_updated"
	TypeNoteDeleted  MessageType = "note_deleted"
	TypePing         MessageType = "ping"
	TypePong         MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NoteEventPayload describes a change to a note the recipient can see.
// Note is omitted once the recipient has lost access.
type NoteEventPayload struct {
	NoteID    string               `json:"note_id"`
	Title     string               `json:"title"`
	OwnerID   string               `json:"owner_id"`
	OwnerName string               `json:"owner_name,omitempty"`
	Note      *domain.NoteResponse `json:"note,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
