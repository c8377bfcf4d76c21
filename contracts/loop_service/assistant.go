package loop_service

// PromptRequest represents a free-form question to the assistant
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required,max=8000"`
}

// GenerateResponse carries the assistant's answer
type GenerateResponse struct {
	Text string `json:"text"`
}
