package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SecretPrefix is the prefix for base64-encoded signing secrets
	SecretPrefix = "whsec_"

	// MinSecretBytes is the minimum secret size (256 bits)
	MinSecretBytes = 32

	// MaxSecretBytes is the maximum secret size (512 bits)
	MaxSecretBytes = 64

	// DefaultSecretBytes is the size used for generated secrets
	DefaultSecretBytes = 32

	// Tolerance is the replay-protection window: signatures whose
	// timestamp is further than this from the verifier's clock are rejected
	Tolerance = 300 * time.Second
)

// Secret represents a webhook signing secret
type Secret struct {
	raw    []byte
	base64 string
}

// GenerateSecret creates a new cryptographically secure signing secret
// between MinSecretBytes and MaxSecretBytes in size.
func GenerateSecret(size int) (Secret, error) {
	if size < MinSecretBytes || size > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	bytes := make([]byte, size)
	if _, err := rand.Read(bytes); err != nil {
		return Secret{}, fmt.Errorf("generating random bytes: %w", err)
	}

	return Secret{
		raw:    bytes,
		base64: SecretPrefix + base64.StdEncoding.EncodeToString(bytes),
	}, nil
}

// ParseSecret parses a base64-encoded secret with the whsec_ prefix
func ParseSecret(encoded string) (Secret, error) {
	if !strings.HasPrefix(encoded, SecretPrefix) {
		return Secret{}, fmt.Errorf("secret must start with %s prefix", SecretPrefix)
	}

	b64 := strings.TrimPrefix(encoded, SecretPrefix)
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Secret{}, fmt.Errorf("decoding base64 secret: %w", err)
	}

	if len(raw) < MinSecretBytes || len(raw) > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	return Secret{
		raw:    raw,
		base64: encoded,
	}, nil
}

// String returns the base64-encoded secret with prefix
func (s Secret) String() string {
	return s.base64
}

// Bytes returns the raw secret bytes
func (s Secret) Bytes() []byte {
	return s.raw
}

// IsZero reports whether the secret is unset
func (s Secret) IsZero() bool {
	return len(s.raw) == 0
}

// Signature is a timestamped HMAC over a delivery payload
type Signature struct {
	Timestamp time.Time
	Value     string // hex-encoded HMAC-SHA256
}

// Header returns the signature in the delivery header format:
// t=<unix_seconds>,v1=<hex_signature>
func (s Signature) Header() string {
	return fmt.Sprintf("t=%d,v1=%s", s.Timestamp.Unix(), s.Value)
}

// ParseHeader parses a header of the form t=<unix_seconds>,v1=<hex_signature>
func ParseHeader(header string) (Signature, error) {
	if header == "" {
		return Signature{}, fmt.Errorf("signature header is empty")
	}

	var sig Signature
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return Signature{}, fmt.Errorf("invalid signature header element: %q", part)
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return Signature{}, fmt.Errorf("parsing signature timestamp: %w", err)
			}
			sig.Timestamp = time.Unix(ts, 0)
		case "v1":
			sig.Value = value
		default:
			// Unknown elements are ignored for forward compatibility
		}
	}

	if sig.Timestamp.IsZero() {
		return Signature{}, fmt.Errorf("signature header missing timestamp")
	}
	if sig.Value == "" {
		return Signature{}, fmt.Errorf("signature header missing v1 signature")
	}

	return sig, nil
}

// Sign computes the HMAC-SHA256 signature over "{timestamp}.{payload}"
func Sign(secret Secret, timestamp time.Time, payload []byte) (Signature, error) {
	if secret.IsZero() {
		return Signature{}, fmt.Errorf("signing secret is not configured")
	}

	mac := hmac.New(sha256.New, secret.Bytes())
	fmt.Fprintf(mac, "%d.", timestamp.Unix())
	mac.Write(payload)

	return Signature{
		Timestamp: timestamp,
		Value:     hex.EncodeToString(mac.Sum(nil)),
	}, nil
}

// Verify checks a signature header against the payload using the current
// clock. Malformed headers, wrong signatures and timestamps outside the
// replay window all fail closed.
func Verify(secret Secret, header string, payload []byte) (bool, error) {
	return VerifyAt(secret, header, payload, time.Now())
}

// VerifyAt is Verify with an explicit verification time
func VerifyAt(secret Secret, header string, payload []byte, now time.Time) (bool, error) {
	if secret.IsZero() {
		return false, fmt.Errorf("signing secret is not configured")
	}

	sig, err := ParseHeader(header)
	if err != nil {
		return false, fmt.Errorf("parsing signature header: %w", err)
	}

	// Replay protection: reject timestamps too far from now in either direction
	age := now.Sub(sig.Timestamp)
	if age > Tolerance || age < -Tolerance {
		return false, nil
	}

	expected, err := Sign(secret, sig.Timestamp, payload)
	if err != nil {
		return false, fmt.Errorf("calculating signature: %w", err)
	}

	got, err := hex.DecodeString(sig.Value)
	if err != nil {
		return false, nil
	}

	want, err := hex.DecodeString(expected.Value)
	if err != nil {
		return false, fmt.Errorf("decoding calculated signature: %w", err)
	}

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
