package model

// Turn is one exchange in a conversation with the text generator
type Turn struct {
	// Role is "user" or "model"
	Role string `json:"role"`
	Text string `json:"text"`
}

// LeadScore is the assistant's rating of a prospect
type LeadScore struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}
