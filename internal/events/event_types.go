package events

import (
	"time"

	"github.com/spec-kit/jewelry-store/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserLoggedOut  EventType = "user_logged_out"
	EventProductCreated EventType = "product_created"
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountEventPayload describes auth lifecycle events.
type AccountEventPayload struct {
	UserID   string      `json:"user_id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// ProductEventPayload describes catalog lifecycle events.
type ProductEventPayload struct {
	ProductID string                 `json:"product_id"`
	Name      string                 `json:"name"`
	Category  domain.ProductCategory `json:"category"`
}
