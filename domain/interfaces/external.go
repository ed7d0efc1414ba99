package interfaces

import (
	"context"
	"time"

	"astraldraw/domain/events"
)

// CacheStore defines the interface for the read-through cache used by
// aggregate read paths. Implementations must be safe for concurrent use;
// callers never depend on a hit for correctness.
type CacheStore interface {
	// Get loads the value at key into dest, reporting whether it was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value at key with the given TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a single key
	Delete(ctx context.Context, key string) error

	// DeleteMany removes a set of keys in one round trip
	DeleteMany(ctx context.Context, keys ...string) error
}

// Codec encrypts and decrypts sensitive values. Encryption is
// deterministic: equal plaintext under the same key yields equal
// ciphertext, which is what makes exact-match lookups by ciphertext work.
type Codec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	EncryptJSON(v any) (string, error)
	DecryptJSON(ciphertext string, v any) error
}

// TransactionalEventPublisher buffers events during a transaction and
// releases them only when it commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes everything buffered since the last flush or discard
	Flush(ctx context.Context)

	// Discard drops the buffer without publishing
	Discard()
}

// LedgerAccount is the result of provisioning an account on the ledger
type LedgerAccount struct {
	AccountID  string
	PublicKey  string
	PrivateKey string
}

// LedgerClient defines the interface to the external ledger service.
// Both calls must succeed before any wallet state is written.
type LedgerClient interface {
	// CreateAccount provisions a new ledger account and returns its keys
	CreateAccount(ctx context.Context) (*LedgerAccount, error)

	// AssociateToken associates the platform token with accountID
	AssociateToken(ctx context.Context, accountID, privateKey string) error
}

// EventSubscriber lets the application layer react to domain events
// without depending on the transport implementation
type EventSubscriber interface {
	Subscribe(eventType events.EventType, handler func(context.Context, events.Event) error) error
}
