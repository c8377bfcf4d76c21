package loop_service

// SendMessageRequest represents a chat message typed by a client or an admin
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// SimulateMessageRequest lets an admin post as a client from the chat simulator
type SimulateMessageRequest struct {
	ClientID int64  `json:"clientId" validate:"required,gt=0"`
	Text     string `json:"text" validate:"required,max=2000"`
}
