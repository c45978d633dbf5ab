package encryption

import (
	"bytes"
	"fmt"
)

// pkcs7Pad appends PKCS#7 padding to src so that its length is a multiple of
// blockSize.  blockSize must be between 1 and 255 (AES uses 16).
//
// If len(src) is already a multiple of blockSize, a full extra block of padding
// is appended so that the padding can always be unambiguously removed.
func pkcs7Pad(src []byte, blockSize int) []byte {
	padding := blockSize - (len(src) % blockSize)
	return append(src, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// pkcs7Unpad removes PKCS#7 padding from src and returns the original data.
func pkcs7Unpad(src []byte, blockSize int) ([]byte, error) {
	length := len(src)
	if length == 0 || length%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of block size %d",
			ErrMalformedCiphertext, length, blockSize)
	}

	padding := int(src[length-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("%w: invalid PKCS#7 padding byte value %d",
			ErrPaddingRange, padding)
	}

	// Verify every padding byte.
	for i := length - padding; i < length; i++ {
		if src[i] != byte(padding) {
			return nil, fmt.Errorf("%w: malformed PKCS#7 padding at byte %d",
				ErrPaddingRange, i)
		}
	}
	return src[:length-padding], nil
}

// ucs2Pad extends a UCS-2 packed buffer to the next multiple of 8 bytes,
// always adding at least one character's worth.  Every pad byte holds the
// number of bytes added, so the value is 2, 4, 6 or 8.
func ucs2Pad(packed []byte) []byte {
	n := len(packed)
	size := n&^7 + 8
	return append(packed, bytes.Repeat([]byte{byte(size - n)}, size-n)...)
}

// ucs2Unpad strips the pad from a decrypted buffer.  A pad byte above 8 is
// treated as zero unless strict is set.
func ucs2Unpad(buf []byte, strict bool) ([]byte, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrMalformedCiphertext)
	}
	padding := int(buf[len(buf)-1])
	if padding > 8 {
		if strict {
			return nil, fmt.Errorf("%w: pad byte %d", ErrPaddingRange, padding)
		}
		padding = 0
	}
	return buf[:len(buf)-padding], nil
}
