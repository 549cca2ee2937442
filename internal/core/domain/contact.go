package domain

import "time"

const (
	ContactStatusUnread = "unread"
	ContactStatusRead   = "read"
)

// ContactMessage is a visitor enquiry submitted through the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
