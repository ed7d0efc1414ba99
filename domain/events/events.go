package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDrawCreated       EventType = "draw_created"
	EventTypeDrawStatusChanged EventType = "draw_status_changed"
	EventTypeDrawProcessed     EventType = "draw_processed"
	EventTypeTicketMinted      EventType = "ticket_minted"
	EventTypeWalletCreated     EventType = "wallet_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DrawCreatedEvent represents a newly scheduled draw
type DrawCreatedEvent struct {
	DrawID       int64
	Title        string
	PrizePool    string
	DrawDatetime string
}

func (e DrawCreatedEvent) Type() EventType {
	return EventTypeDrawCreated
}

// DrawStatusChangedEvent represents an administrative status transition
type DrawStatusChangedEvent struct {
	DrawID    int64
	OldStatus string
	NewStatus string
}

func (e DrawStatusChangedEvent) Type() EventType {
	return EventTypeDrawStatusChanged
}

// DrawProcessedEvent represents a completed draw processing run
type DrawProcessedEvent struct {
	DrawID           int64
	WinnerWalletID   *int64
	WinningSerial    *string
	TotalDistributed string
	WinnerCount      int
}

func (e DrawProcessedEvent) Type() EventType {
	return EventTypeDrawProcessed
}

// TicketMintedEvent represents a ticket successfully submitted to a draw
type TicketMintedEvent struct {
	TicketID     int64
	DrawID       int64
	WalletID     int64
	SerialNumber string
	Rarity       string
}

func (e TicketMintedEvent) Type() EventType {
	return EventTypeTicketMinted
}

// WalletCreatedEvent represents a newly provisioned wallet
type WalletCreatedEvent struct {
	WalletID  int64
	OwnerRef  string
	PublicKey string
}

func (e WalletCreatedEvent) Type() EventType {
	return EventTypeWalletCreated
}
