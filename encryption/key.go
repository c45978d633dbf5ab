package encryption

import (
	"crypto/sha1" //nolint:gosec // fixed by the vault wire format
	"fmt"
	"io"
)

// advancedKeySize is the AES-128 key length used by the Advanced scheme.
const advancedKeySize = 16

// defaultKey fills the tail of an Advanced key when the passphrase is
// shorter than 16 bytes.  Both ends of the vault exchange must agree on it.
var defaultKey = [advancedKeySize]byte{
	0x56, 0x61, 0x75, 0x6c, 0x74, 0x43, 0x72, 0x65,
	0x64, 0x65, 0x6e, 0x74, 0x69, 0x61, 0x6c, 0x4b,
}

// defaultIV is used by [Advanced.Encrypt] and [Advanced.Decrypt].
var defaultIV = [advancedKeySize]byte{
	0x4c, 0x65, 0x67, 0x61, 0x63, 0x79, 0x56, 0x61,
	0x75, 0x6c, 0x74, 0x49, 0x56, 0x30, 0x30, 0x31,
}

// DefaultKey returns a copy of the static Advanced default key.
func DefaultKey() []byte { return cloneBytes(defaultKey[:]) }

// DefaultIV returns a copy of the static Advanced default IV.
func DefaultIV() []byte { return cloneBytes(defaultIV[:]) }

// advancedKey left-aligns the UTF-8 secret over the default key, truncating
// secrets longer than 16 bytes.
func advancedKey(secret string) []byte {
	key := DefaultKey()
	copy(key, secret)
	return key
}

// blowfishKey returns the SHA-1 digest of the UTF-8 secret.
func blowfishKey(secret string) []byte {
	sum := sha1.Sum([]byte(secret)) //nolint:gosec // fixed by the vault wire format
	return sum[:]
}

// GenerateIV returns a random IV of the right size for scheme s, read from
// crypto/rand.
func GenerateIV(s Scheme) ([]byte, error) {
	size := IVSize(s)
	if size < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, s)
	}
	return randomBytes(defaultOptions().rand, size)
}

// randomBytes returns n bytes read from r.
// It is used internally for IV generation.
func randomBytes(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("encryption: failed to generate %d random bytes: %w", n, err)
	}
	return b, nil
}

// cloneBytes returns a fresh copy of b.  Used to ensure callers cannot
// mutate keys stored inside an encryptor.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
