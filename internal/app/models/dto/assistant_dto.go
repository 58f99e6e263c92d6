package dto

// AssistantMessage represents a single turn of an assistant conversation
type AssistantMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// AssistantRequest represents an assistant completion request
type AssistantRequest struct {
	Messages []AssistantMessage `json:"messages" binding:"required,min=1,dive"`
	Model    string             `json:"model,omitempty"`
}

// AssistantResponse represents the assistant's reply
type AssistantResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}
