// Package sse streams book and recipe changes to their owners as
// Server-Sent Events.
package sse

import (
	"time"

	"github.com/recipehub/recipehub-server/internal/domain"
)

// EventType represents the type of an SSE event.
type EventType string

const (
	EventBookCreated  EventType = "book.created"
	EventBookUpdated  EventType = "book.updated"
	EventBookArchived EventType = "book.archived"

	EventRecipeCreated  EventType = "recipe.created"
	EventRecipeUpdated  EventType = "recipe.updated"
	EventRecipeArchived EventType = "recipe.archived"

	// EventHeartbeat keeps idle connections open through proxies.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message on the stream. UserID routes it and is not sent.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
	UserID    string    `json:"-"`
}

// BookEventData is the payload of book events.
type BookEventData struct {
	Book *domain.RecipeBook `json:"book"`
}

// RecipeEventData is the payload of recipe events. Version is set when the
// change recorded one.
type RecipeEventData struct {
	Recipe  *domain.Recipe `json:"recipe"`
	Version int            `json:"version,omitempty"`
}

// HeartbeatEventData is the payload of heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"serverTime"`
}

// NewBookEvent creates a book event addressed to the book's owner.
func NewBookEvent(t EventType, book *domain.RecipeBook) Event {
	return Event{
		Type:      t,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
		UserID:    book.OwnerID,
	}
}

// NewRecipeEvent creates a recipe event addressed to the recipe's owner.
func NewRecipeEvent(t EventType, recipe *domain.Recipe) Event {
	data := RecipeEventData{Recipe: recipe}
	if t != EventRecipeArchived {
		data.Version = recipe.CurrentVersion
	}
	return Event{
		Type:      t,
		Data:      data,
		Timestamp: time.Now(),
		UserID:    recipe.OwnerID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
