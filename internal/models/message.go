package models

import "time"

// Message status values. A message only ever moves from unread to read.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m Message) Unread() bool {
	return m.Status != StatusRead
}

func (m Message) Validate() error {
	var v ValidationError
	v.require("name", m.Name)
	v.require("email", m.Email)
	v.require("message", m.Message)
	return v.orNil()
}

// Fields returns the stored attributes of the message.
func (m Message) Fields() map[string]any {
	return map[string]any{
		"name":    m.Name,
		"email":   m.Email,
		"phone":   m.Phone,
		"subject": m.Subject,
		"message": m.Message,
		"status":  m.Status,
	}
}
