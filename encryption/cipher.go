// Package encryption protects the credentials exchanged with the legacy
// collaboration server's password vault.  Two schemes are available behind
// the common [Encryptor] interface:
//
//   - [Advanced]: AES-128-CBC with PKCS#7 padding.  The key is the UTF-8
//     passphrase left-aligned over a static default key, the IV is either the
//     caller's or a static default, and the wire form is standard base64 of
//     the raw ciphertext.
//   - [Blowfish]: Blowfish-CBC keyed with the SHA-1 digest of the
//     passphrase.  Plaintext is packed as UCS-2 (big-endian UTF-16 code
//     units), padded to 8 bytes, and framed as lowercase hex of a random IV
//     followed by hex of the ciphertext.
//
// # Wire format
//
// Both formats are fixed by the vault server and reproduced bit for bit:
//
//	Advanced: base64(AES-CBC(key, iv, pkcs7(utf8(plaintext))))
//	Blowfish: hex(iv[8]) || hex(Blowfish-CBC(sha1(passphrase), iv, pad(ucs2(plaintext))))
//
// The Blowfish pad byte equals the number of pad bytes, which is always even
// (2, 4, 6 or 8) because every character takes two bytes.
//
// # Quick start
//
//	enc, err := encryption.NewSeeded(encryption.SchemeBlowfish, "passphrase")
//
//	wire, err := enc.Encrypt("hunter2")
//	plain, err := enc.Decrypt(wire)
//
// # Security notes
//
//   - Neither scheme authenticates its ciphertext.  They exist for
//     interoperability with the vault, not as general-purpose constructions.
//   - The Advanced default IV is static; supply a per-message IV out of band
//     where the counterpart allows it.
//   - Keys are cloned on ingestion so that external mutations cannot affect
//     in-use keys.
package encryption

import "fmt"

// Scheme names an encryption algorithm and operating mode.
type Scheme string

const (
	// SchemeAdvanced is AES-128 in CBC mode with PKCS#7 padding.
	SchemeAdvanced Scheme = "aes-128-cbc"
	// SchemeBlowfish is Blowfish in CBC mode with the vault's hex framing.
	SchemeBlowfish Scheme = "blowfish-cbc"
)

// schemeSpec holds the per-scheme parameters used for validation.
type schemeSpec struct {
	blockSize int // cipher block size in bytes, also the IV size
}

var schemeSpecs = map[Scheme]schemeSpec{
	SchemeAdvanced: {blockSize: 16},
	SchemeBlowfish: {blockSize: 8},
}

// IVSize returns the IV length in bytes for scheme s.
// It returns -1 for unsupported schemes.
func IVSize(s Scheme) int {
	if spec, ok := schemeSpecs[s]; ok {
		return spec.blockSize
	}
	return -1
}

// ValidateScheme returns a non-nil error if s is not a recognised scheme name.
func ValidateScheme(s Scheme) error {
	if _, ok := schemeSpecs[s]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, s)
	}
	return nil
}

// New constructs an unseeded [Encryptor] for scheme s.
func New(s Scheme, opts ...Option) (Encryptor, error) {
	switch s {
	case SchemeAdvanced:
		return NewAdvanced(opts...), nil
	case SchemeBlowfish:
		return NewBlowfish(opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, s)
}

// NewSeeded constructs an [Encryptor] for scheme s and seeds it with secret.
func NewSeeded(s Scheme, secret string, opts ...Option) (Encryptor, error) {
	enc, err := New(s, opts...)
	if err != nil {
		return nil, err
	}
	if err := enc.Seed(secret); err != nil {
		return nil, err
	}
	return enc, nil
}
