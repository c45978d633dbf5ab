// Package secret mints random passwords and shared secrets for accounts
// provisioned against the vault.
//
// A [Generator] draws each character independently and uniformly from its
// alphabet using crypto/rand (or a caller-supplied reader).  It is not a
// cipher and keeps no state between calls.
//
// # Quick start
//
//	g := secret.New()
//	pw, err := g.Generate() // 21 characters from Upper+Lower+Digits+Special
//
//	pin, err := secret.New(secret.WithLength(6), secret.WithAlphabet(secret.Digits)).Generate()
package secret
