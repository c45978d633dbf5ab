package encryption

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hasbyte1/go-vault-crypto/encryption/blowfish"
)

// Blowfish is the vault's string scheme: Blowfish-CBC keyed with the SHA-1
// digest of the passphrase, UCS-2 plaintext and hex framing.
//
// # Concurrency
//
// The key schedule is built once per Seed and never mutated, so it is shared
// by all callers.  Each Encrypt or Decrypt chains its blocks through its own
// [blowfish.CBC], which means messages can never chain into each other and
// no lock is held while blocks are processed.  The instance is safe for
// concurrent use; the only lock guards replacing the schedule in Seed.
type Blowfish struct {
	mu   sync.RWMutex
	ecb  *blowfish.ECB
	opts options
}

// NewBlowfish constructs an unseeded [Blowfish].
func NewBlowfish(opts ...Option) *Blowfish {
	return &Blowfish{opts: newOptions(opts)}
}

// Scheme returns [SchemeBlowfish].
func (b *Blowfish) Scheme() Scheme { return SchemeBlowfish }

// Seed builds the key schedule from the SHA-1 digest of secret.
func (b *Blowfish) Seed(secret string) error {
	key := blowfishKey(secret)
	if len(key) == 0 || len(key) > blowfish.MaxKeySize {
		b.opts.log.WithFields(logrus.Fields{
			"scheme":  SchemeBlowfish,
			"key_len": len(key),
		}).Error("failed to derive key")
		return fmt.Errorf("%w: derived key is %d bytes", ErrConfiguration, len(key))
	}

	ecb := blowfish.NewECB(key)
	weak := ecb.WeakKey()
	entry := b.opts.log.WithFields(logrus.Fields{
		"scheme":   SchemeBlowfish,
		"weak_key": weak,
	})
	if weak {
		entry.Warn("passphrase produced a weak key schedule")
	} else {
		entry.Debug("key schedule ready")
	}

	b.mu.Lock()
	b.ecb = ecb
	b.mu.Unlock()
	return nil
}

// Encrypt encrypts message under a fresh random IV.
func (b *Blowfish) Encrypt(message string) (string, error) {
	ecb, err := b.engine()
	if err != nil {
		return "", err
	}
	iv, err := randomBytes(b.opts.rand, blowfish.BlockSize)
	if err != nil {
		return "", err
	}
	return encryptString(ecb, message, iv)
}

// EncryptWithIV encrypts message under iv, which must be 8 bytes.  The IV is
// still carried in the wire form, so the output decrypts with
// [Blowfish.Decrypt] like any other.
func (b *Blowfish) EncryptWithIV(message string, iv []byte) (string, error) {
	if len(iv) != blowfish.BlockSize {
		return "", fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidIV, blowfish.BlockSize, len(iv))
	}
	ecb, err := b.engine()
	if err != nil {
		return "", err
	}
	return encryptString(ecb, message, iv)
}

// Decrypt decodes a hex wire string produced by [Blowfish.Encrypt].
//
// Possible errors: [ErrNotSeeded], [ErrMalformedCiphertext] and, with
// [WithStrictPadding], [ErrPaddingRange].
func (b *Blowfish) Decrypt(wire string) (string, error) {
	ecb, err := b.engine()
	if err != nil {
		return "", err
	}
	return decryptString(ecb, wire, b.opts.strictPadding)
}

// DecryptWithIV is [Blowfish.Decrypt]; iv is ignored because the wire form
// carries its own.
func (b *Blowfish) DecryptWithIV(wire string, _ []byte) (string, error) {
	return b.Decrypt(wire)
}

// AppearsEncrypted returns true if wire is hex holding an IV and at least one
// whole ciphertext block.
//
// Implements [PayloadInspector].
func (b *Blowfish) AppearsEncrypted(wire string) bool {
	const hexBlock = 2 * blowfish.BlockSize
	return len(wire) >= 2*hexBlock && len(wire)%hexBlock == 0 && isHex(wire)
}

func (b *Blowfish) engine() (*blowfish.ECB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.ecb == nil {
		return nil, ErrNotSeeded
	}
	return b.ecb, nil
}

// encryptString packs, pads and chains message, then frames it as
// hex(iv) || hex(ciphertext).
func encryptString(ecb *blowfish.ECB, message string, iv []byte) (string, error) {
	buf, err := packString(message)
	if err != nil {
		return "", err
	}
	c := blowfish.NewCBCFromECB(ecb, binary.BigEndian.Uint64(iv))
	if err := c.EncryptBytes(buf); err != nil {
		return "", err
	}
	return EncodeHex(iv) + EncodeHex(buf), nil
}

// decryptString reverses encryptString.  Ciphertext beyond the last whole
// block is ignored.
func decryptString(ecb *blowfish.ECB, wire string, strict bool) (string, error) {
	const hexBlock = 2 * blowfish.BlockSize
	if len(wire) < hexBlock {
		return "", fmt.Errorf("%w: %d hex digits is shorter than one IV block", ErrMalformedCiphertext, len(wire))
	}

	iv, err := DecodeHex(wire[:hexBlock])
	if err != nil {
		return "", err
	}
	buf, err := DecodeHex(wire[hexBlock:])
	if err != nil {
		return "", err
	}
	buf = buf[:len(buf)&^(blowfish.BlockSize-1)]
	if len(buf) == 0 {
		return "", fmt.Errorf("%w: no ciphertext after the IV", ErrMalformedCiphertext)
	}

	c := blowfish.NewCBCFromECB(ecb, binary.BigEndian.Uint64(iv))
	if err := c.DecryptBytes(buf); err != nil {
		return "", err
	}

	packed, err := ucs2Unpad(buf, strict)
	if err != nil {
		return "", err
	}
	return unpackString(packed)
}
