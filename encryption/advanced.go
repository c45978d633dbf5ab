package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ──────────────────────────────────────────────────────────────────────────────
// Advanced
// ──────────────────────────────────────────────────────────────────────────────

// Advanced is the AES-128-CBC scheme.
//
// The key is derived from the passphrase without stretching: its UTF-8 bytes
// are copied over [DefaultKey], truncated at 16 bytes.  Padding is PKCS#7
// (the same bytes the vault server calls PKCS#5).  The IV does not travel with
// the ciphertext: [Advanced.Encrypt] uses [DefaultIV] and
// [Advanced.EncryptWithIV] uses the caller's, which the caller must deliver
// out of band.
//
// # Concurrency
//
// Advanced keeps no per-message state; a fresh [cipher.BlockMode] is built for
// every call.  It is safe for concurrent use, including concurrent Seed.
type Advanced struct {
	mu   sync.RWMutex
	key  []byte
	opts options
}

// NewAdvanced constructs an unseeded [Advanced].
func NewAdvanced(opts ...Option) *Advanced {
	return &Advanced{opts: newOptions(opts)}
}

// Scheme returns [SchemeAdvanced].
func (a *Advanced) Scheme() Scheme { return SchemeAdvanced }

// Key returns a copy of the working key, or nil before Seed.
func (a *Advanced) Key() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneBytes(a.key)
}

// Seed derives the working key from secret.
func (a *Advanced) Seed(secret string) error {
	key := advancedKey(secret)
	if _, err := aes.NewCipher(key); err != nil {
		a.opts.log.WithFields(logrus.Fields{
			"scheme": SchemeAdvanced,
			"error":  err,
		}).Error("failed to initialise cipher")
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	a.mu.Lock()
	a.key = key
	a.mu.Unlock()
	a.opts.log.WithField("scheme", SchemeAdvanced).Debug("key ready")
	return nil
}

// Encrypt encrypts plaintext under [DefaultIV] and returns standard base64.
func (a *Advanced) Encrypt(plaintext string) (string, error) {
	return a.EncryptWithIV(plaintext, defaultIV[:])
}

// EncryptWithIV encrypts plaintext under iv, which must be 16 bytes.
func (a *Advanced) EncryptWithIV(plaintext string, iv []byte) (string, error) {
	block, err := a.block(iv)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts base64 ciphertext produced by [Advanced.Encrypt].
func (a *Advanced) Decrypt(ciphertext string) (string, error) {
	return a.DecryptWithIV(ciphertext, defaultIV[:])
}

// DecryptWithIV decrypts ciphertext that was encrypted under iv.
//
// Possible errors: [ErrNotSeeded], [ErrInvalidIV], [ErrMalformedCiphertext],
// [ErrPaddingRange].
func (a *Advanced) DecryptWithIV(ciphertext string, iv []byte) (string, error) {
	block, err := a.block(iv)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not a multiple of %d",
			ErrMalformedCiphertext, len(raw), aes.BlockSize)
	}

	plaintext := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, raw)
	out, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// AppearsEncrypted returns true if ciphertext is standard base64 of a
// non-empty whole number of AES blocks.
//
// Implements [PayloadInspector].
func (a *Advanced) AppearsEncrypted(ciphertext string) bool {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	return err == nil && len(raw) > 0 && len(raw)%aes.BlockSize == 0
}

// block validates iv and builds the AES block for the current key.
func (a *Advanced) block(iv []byte) (cipher.Block, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidIV, aes.BlockSize, len(iv))
	}

	a.mu.RLock()
	key := a.key
	a.mu.RUnlock()
	if key == nil {
		return nil, ErrNotSeeded
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create AES cipher: %v", ErrConfiguration, err)
	}
	return block, nil
}
