package encryption

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// ucs2 packs strings as big-endian UTF-16 code units without a byte order
// mark.  Characters outside the BMP take two units, as they do on the
// vault server.
var ucs2 = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// EncodeHex returns the lowercase hex encoding of b.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex decodes s, which may mix upper- and lowercase digits.  A trailing
// unpaired digit is dropped; any other non-hex character is reported as
// [ErrMalformedCiphertext].
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s[:len(s)&^1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	return b, nil
}

// isHex reports whether s consists only of hex digits.
func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// packString converts s to UCS-2 and applies the Blowfish string padding.
func packString(s string) ([]byte, error) {
	packed, err := ucs2.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encryption: failed to pack string: %w", err)
	}
	return ucs2Pad(packed), nil
}

// unpackString converts UCS-2 bytes back to a string.  An odd trailing byte
// cannot start a character and is dropped.
func unpackString(b []byte) (string, error) {
	out, err := ucs2.NewDecoder().Bytes(b[:len(b)&^1])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	return string(out), nil
}
