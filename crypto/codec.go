package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ciphertextPrefix is the structural marker for values produced by this
// codec. Callers use IsCiphertext to guard against double encryption
// instead of sniffing raw ciphertext structure.
const ciphertextPrefix = "sk1:"

var (
	// ErrNoSecret indicates the codec was constructed without a secret.
	ErrNoSecret = errors.New("crypto: no secret configured")

	// ErrMalformedCiphertext indicates the input is not well-formed
	// ciphertext produced by this codec.
	ErrMalformedCiphertext = errors.New("crypto: malformed ciphertext")

	// ErrDecryptFailed indicates authentication or decryption failure.
	// The message deliberately carries no key material.
	ErrDecryptFailed = errors.New("crypto: decryption failed")
)

// Codec encrypts and decrypts sensitive strings with a process-wide secret.
//
// Encryption is deterministic: the nonce is derived from the plaintext via
// HMAC-SHA256 (SIV style), so identical plaintext under the same secret
// always yields identical ciphertext. Winner resolution relies on this to
// find the exact-match ticket by comparing stored ciphertext values.
type Codec struct {
	aead     cipher.AEAD
	nonceKey []byte
}

// NewCodec creates a codec from the configured secret. The secret is
// injected here once at startup; there is no ambient global lookup.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	encKey := sha256.Sum256([]byte("astraldraw.enc." + secret))
	nonceKey := sha256.Sum256([]byte("astraldraw.nonce." + secret))

	block, err := aes.NewCipher(encKey[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Codec{aead: aead, nonceKey: nonceKey[:]}, nil
}

// Encrypt encrypts plaintext and returns a marked, base64-encoded value.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", ErrNoSecret
	}

	nonce := c.deriveNonce([]byte(plaintext))
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return ciphertextPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Inputs without the structural marker, or that
// fail authentication, yield ErrMalformedCiphertext / ErrDecryptFailed.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", ErrNoSecret
	}

	if !strings.HasPrefix(ciphertext, ciphertextPrefix) {
		return "", ErrMalformedCiphertext
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(ciphertext, ciphertextPrefix))
	if err != nil {
		return "", ErrMalformedCiphertext
	}

	nonceSize := c.aead.NonceSize()
	if len(decoded) < nonceSize {
		return "", ErrMalformedCiphertext
	}

	nonce, sealed := decoded[:nonceSize], decoded[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}

	return string(plaintext), nil
}

// EncryptJSON marshals v to JSON and encrypts the result.
func (c *Codec) EncryptJSON(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	return c.Encrypt(string(payload))
}

// DecryptJSON decrypts ciphertext and unmarshals the JSON payload into v.
func (c *Codec) DecryptJSON(ciphertext string, v any) error {
	plaintext, err := c.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(plaintext), v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}

// IsCiphertext reports whether s carries the codec's structural marker.
// Callers check this before encrypting a value destined for storage so
// re-saving an entity never double-encrypts its secret fields.
func IsCiphertext(s string) bool {
	if !strings.HasPrefix(s, ciphertextPrefix) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, ciphertextPrefix))
	return err == nil
}

// deriveNonce computes the synthetic nonce for a plaintext. Reusing a nonce
// across distinct plaintexts would break GCM; deriving it from the plaintext
// itself means a repeat can only happen for an identical message, which is
// exactly the determinism the ciphertext-equality lookup needs.
func (c *Codec) deriveNonce(plaintext []byte) []byte {
	mac := hmac.New(sha256.New, c.nonceKey)
	mac.Write(plaintext)
	sum := mac.Sum(nil)
	return sum[:c.aead.NonceSize()]
}
