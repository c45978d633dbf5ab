package encryption

// Encryptor is the capability shared by every scheme in this package.  Both
// implementations exchange strings with the vault server: the plaintext is a
// credential, the ciphertext is the scheme's text wire form.
//
// The explicit-IV variants exist for symmetry between the schemes.  How each
// scheme treats the supplied IV is documented on the implementation.
type Encryptor interface {
	// Seed derives the working key from secret, replacing any previous key.
	Seed(secret string) error

	// Encrypt encrypts plaintext and returns the wire form.
	Encrypt(plaintext string) (string, error)

	// EncryptWithIV encrypts plaintext using the supplied IV.
	EncryptWithIV(plaintext string, iv []byte) (string, error)

	// Decrypt reverses Encrypt.
	Decrypt(ciphertext string) (string, error)

	// DecryptWithIV reverses EncryptWithIV.
	DecryptWithIV(ciphertext string, iv []byte) (string, error)

	// Scheme returns the identifier of the algorithm.
	Scheme() Scheme
}

// PayloadInspector is an optional interface for schemes that can cheaply
// detect whether a value looks like their wire form without decrypting it.
type PayloadInspector interface {
	// AppearsEncrypted returns true if ciphertext has the structure of a
	// value produced by this scheme.  It does not verify the key.
	AppearsEncrypted(ciphertext string) bool
}
