package model

import "time"

type Sender string

const (
	SenderClient Sender = "client"
	SenderBot    Sender = "bot"
	SenderAdmin  Sender = "admin"
)

// Message is one entry of a chat thread. IDs are unique within the chat only.
type Message struct {
	ID        int64     `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is the WhatsApp-style thread between a client and the company
type Chat struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"clientId"`
	ClientName string    `json:"clientName"`
	Messages   []Message `json:"messages"`
	// LastMessageTimestamp equals the timestamp of the last message
	LastMessageTimestamp time.Time `json:"lastMessageTimestamp"`
}

// LastMessage returns the newest message, if any
func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
