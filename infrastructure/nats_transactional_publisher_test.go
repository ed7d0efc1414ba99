package infrastructure

import (
	"context"
	"errors"
	"testing"

	"astraldraw/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records events handed to the real publisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesPendingEvents(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	minted := events.TicketMintedEvent{
		TicketID:     7,
		DrawID:       3,
		WalletID:     12,
		SerialNumber: "AK000300120001",
		Rarity:       "Rare",
	}
	statusChanged := events.DrawStatusChangedEvent{
		DrawID:    3,
		OldStatus: "UPCOMING",
		NewStatus: "ACTIVE",
	}

	require.NoError(t, transPublisher.Publish(minted))
	require.NoError(t, transPublisher.Publish(statusChanged))

	// Nothing reaches the real publisher until flush
	assert.Empty(t, mockPublisher.PublishedEvents)

	transPublisher.Flush(context.Background())

	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, minted, mockPublisher.PublishedEvents[0])
	assert.Equal(t, statusChanged, mockPublisher.PublishedEvents[1])
}

func TestNATSTransactionalPublisher_DiscardDropsPendingEvents(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.WalletCreatedEvent{WalletID: 1, OwnerRef: "user-1"}))
	transPublisher.Discard()

	transPublisher.Flush(context.Background())
	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestNATSTransactionalPublisher_FlushContinuesOnPublishError(t *testing.T) {
	mockPublisher := &MockEventPublisher{PublishError: errors.New("broker unavailable")}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.DrawCreatedEvent{DrawID: 1, Title: "Nebula Draw"}))

	// Flush swallows publish errors so a commit is never failed retroactively
	transPublisher.Flush(context.Background())

	// Queue is cleared even when the broker rejected the events
	mockPublisher.PublishError = nil
	transPublisher.Flush(context.Background())
	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.DrawCreatedEvent{}, "draws.created"},
		{events.DrawStatusChangedEvent{}, "draws.status_changed"},
		{events.DrawProcessedEvent{}, "draws.processed"},
		{events.TicketMintedEvent{}, "tickets.minted"},
		{events.WalletCreatedEvent{}, "wallets.created"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.subject, mapper.MapEventToSubject(tt.event))
		assert.Equal(t, tt.event.Type(), mapper.MapSubjectToEventType(tt.subject))
	}

	assert.Len(t, mapper.GetAllSubjects(), len(tests))
}
