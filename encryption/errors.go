package encryption

import "errors"

// Sentinel errors returned by encryption operations.
//
// Callers should use errors.Is for comparisons:
//
//	plain, err := enc.Decrypt(wire)
//	if errors.Is(err, encryption.ErrMalformedCiphertext) {
//	    // not a vault payload
//	}
//
// A failed decryption never yields an empty plaintext together with a nil
// error; an empty string with a nil error is a genuinely empty message.
var (
	// ErrConfiguration is returned when key derivation or cipher
	// initialisation fails while seeding.
	ErrConfiguration = errors.New("encryption: cipher configuration failed")

	// ErrMalformedCiphertext is returned when the wire payload is shorter than
	// one block, is not valid hex or base64, or is not a whole number of
	// blocks.
	ErrMalformedCiphertext = errors.New("encryption: malformed ciphertext")

	// ErrPaddingRange is returned when the decoded pad length lies outside the
	// range the scheme allows.  The Blowfish path only reports it in strict
	// mode; see [WithStrictPadding].
	ErrPaddingRange = errors.New("encryption: padding out of range")

	// ErrNotSeeded is returned when Encrypt or Decrypt is called before Seed.
	ErrNotSeeded = errors.New("encryption: encryptor has not been seeded")

	// ErrInvalidIV is returned when a caller-supplied IV does not match the
	// scheme's block size.
	ErrInvalidIV = errors.New("encryption: invalid IV length")

	// ErrUnsupportedScheme is returned when an unrecognised scheme name is used.
	ErrUnsupportedScheme = errors.New("encryption: unsupported scheme")
)
