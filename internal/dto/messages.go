package dto

// CreateMessageRequest represents the payload of the contact form
type CreateMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// CreateMessageResponse acknowledges a stored message
type CreateMessageResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
