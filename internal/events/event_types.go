package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventTokenRevoked   EventType = "token_revoked"
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventArticleCreated EventType = "article_created"
	EventArticleUpdated EventType = "article_updated"
	EventArticleDeleted EventType = "article_deleted"
)

// AllEventTypes lists every type a subscriber may register for.
var AllEventTypes = []EventType{
	EventUserRegistered,
	EventUserLoggedIn,
	EventTokenRevoked,
	EventUserCreated,
	EventUserUpdated,
	EventUserDeleted,
	EventArticleCreated,
	EventArticleUpdated,
	EventArticleDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, resourceID, actorID string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// UserPayload describes the user an event refers to.
type UserPayload struct {
	Email      string                `json:"email"`
	Permission domain.PermissionCode `json:"permission"`
}

// TokenRevokedPayload carries the expiry of the revoked token.
type TokenRevokedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// ArticlePayload describes the article an event refers to.
type ArticlePayload struct {
	Title    string `json:"title"`
	AuthorID string `json:"author_id"`
}
