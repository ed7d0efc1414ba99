package infrastructure

import (
	"fmt"

	"astraldraw/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeDrawCreated:
		return "draws.created"
	case events.EventTypeDrawStatusChanged:
		return "draws.status_changed"
	case events.EventTypeDrawProcessed:
		return "draws.processed"
	case events.EventTypeTicketMinted:
		return "tickets.minted"
	case events.EventTypeWalletCreated:
		return "wallets.created"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "draws.created":
		return events.EventTypeDrawCreated
	case "draws.status_changed":
		return events.EventTypeDrawStatusChanged
	case "draws.processed":
		return events.EventTypeDrawProcessed
	case "tickets.minted":
		return events.EventTypeTicketMinted
	case "wallets.created":
		return events.EventTypeWalletCreated
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"draws.created",
		"draws.status_changed",
		"draws.processed",
		"tickets.minted",
		"wallets.created",
	}
}
