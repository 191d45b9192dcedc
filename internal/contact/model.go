package contact

import (
	"strings"
	"time"
)

// Status is the state of a contact-form submission. Exactly one holds at a time.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

var statusMessages = map[Status]string{
	StatusSubmitting: "Sending...",
	StatusSucceeded:  "Thank you for your message! We'll get back to you soon.",
	StatusFailed:     "Something went wrong. Please try again later.",
}

// Message returns the inline text shown to the visitor for s.
func (s Status) Message() string {
	return statusMessages[s]
}

// Fields are the contact form values. They are validated before a submission starts.
type Fields struct {
	Name    string `json:"name" validate:"notblank,max=120,nohtml"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"notblank,max=200,nohtml"`
	Message string `json:"message" validate:"notblank,max=5000"`
}

func (f Fields) Normalize() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.ToLower(strings.TrimSpace(f.Email)),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// Message is a delivered contact form as stored in the inbox.
type Message struct {
	ID        string    `bson:"_id" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Notified is false until the team inbox has been mailed about the message.
	Notified       bool   `bson:"notified" json:"notified"`
	NotificationID string `bson:"notification_id,omitempty" json:"notification_id,omitempty"`
}

// Fields returns the form values the message was built from.
func (m Message) Fields() Fields {
	return Fields{Name: m.Name, Email: m.Email, Subject: m.Subject, Message: m.Message}
}

// Snapshot is the externally visible view of a Lifecycle.
type Snapshot struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Attempts  int       `json:"attempts"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
