// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadpulse_backend/platform/events"
	"leadpulse_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead passes phone dedup and is stored.
type LeadCreated struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Brand   string    `json:"brand"`
	Channel string    `json:"channel"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// MessageLogged is published when a conversation message is appended.
// Subscribers use it to trigger an asynchronous rescore.
type MessageLogged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	MessageID uuid.UUID `json:"messageId"`
	Channel   string    `json:"channel"`
	Sender    string    `json:"sender"`
}

func (e MessageLogged) EventName() string { return "leads.message.logged" }

// StageChanged is published on every pipeline stage transition, manual or
// automatic. ScoreAtChange carries the health score captured in the history
// entry.
type StageChanged struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	PreviousStage string    `json:"previousStage"`
	NewStage      string    `json:"newStage"`
	ScoreAtChange int       `json:"scoreAtChange"`
	ChangedBy     string    `json:"changedBy"`
}

func (e StageChanged) EventName() string { return "leads.stage.changed" }

// LeadScored is published after a score evaluation completes.
type LeadScored struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Total  int       `json:"total"`
	Stage  string    `json:"stage"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }
